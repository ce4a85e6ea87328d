package model

// Mission modes.
const (
	ModeSolo = "solo"
	ModeDuo  = "duo"
)

// Mission is produced by the mod's mission generator and is read-only here.
type Mission struct {
	Name string      `json:"name" yaml:"name"`
	Data MissionData `json:"data" yaml:"data"`
}

type MissionData struct {
	Mode        string   `json:"mode" yaml:"mode"`
	AO          AOData   `json:"ao" yaml:"ao"`
	Flags       FlagRefs `json:"flags" yaml:"flags"`
	SquadKey    string   `json:"squadKey,omitempty" yaml:"squadKey,omitempty"`
	AssaultRole string   `json:"assaultRole,omitempty" yaml:"assaultRole,omitempty"`
	OwnerRoom   string   `json:"ownerRoom,omitempty" yaml:"ownerRoom,omitempty"`
	SponsorRoom string   `json:"sponsorRoom,omitempty" yaml:"sponsorRoom,omitempty"`
}

// AOData holds the area-of-operation hints. All fields are optional.
type AOData struct {
	TargetRoom string       `json:"targetRoom,omitempty" yaml:"targetRoom,omitempty"`
	CenterPos  *RawPosition `json:"centerPos,omitempty" yaml:"centerPos,omitempty"`
	Radius     *int         `json:"radius,omitempty" yaml:"radius,omitempty"`
}

// FlagRefs names the operator-placed markers a mission uses.
type FlagRefs struct {
	Wait      string   `json:"wait,omitempty" yaml:"wait,omitempty"`
	Attack    string   `json:"attack,omitempty" yaml:"attack,omitempty"`
	Assembly  string   `json:"assembly,omitempty" yaml:"assembly,omitempty"`
	Waypoints []string `json:"waypoints,omitempty" yaml:"waypoints,omitempty"`
}

// IsDuo reports whether the mission uses the duo runtime schema.
func (m Mission) IsDuo() bool { return m.Data.Mode == ModeDuo }

// HomeRoom is the room whose anchor serves as the last-resort fallback.
func (m Mission) HomeRoom() string {
	if m.Data.OwnerRoom != "" {
		return m.Data.OwnerRoom
	}
	return m.Data.SponsorRoom
}
