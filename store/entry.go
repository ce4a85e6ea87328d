package store

import "github.com/nstehr/vimy/assault-core/model"

// DuoVersion is the only duo schema version this build understands.
const DuoVersion = 1

// Squad is the sticky leader/support assignment for a mission.
type Squad struct {
	LeaderID  string `json:"leaderId"`
	SupportID string `json:"supportId"`
	LockUntil int    `json:"lockUntil"`
}

// Entry is the legacy/solo runtime record.
type Entry struct {
	Phase         model.Phase    `json:"phase"`
	WaypointIndex int            `json:"waypointIndex"`
	Squad         Squad          `json:"squad"`
	Debug         map[string]any `json:"debug"`
}

// valid rejects records a restore could carry in but the phase machine
// cannot run from.
func (e *Entry) valid() bool {
	return e != nil && e.Phase.Valid() && e.WaypointIndex >= 0
}

func newEntry() *Entry {
	return &Entry{
		Phase: model.PhaseRendezvous,
		Debug: make(map[string]any),
	}
}

type Assembled struct {
	Done bool            `json:"done"`
	At   int             `json:"at"`
	Pos  *model.Position `json:"pos"`
}

type Route struct {
	WaypointIndex int `json:"waypointIndex"`
}

type Spawn struct {
	Allow       bool `json:"allow"`
	LastAllowAt int  `json:"lastAllowAt"`
}

type Wipe struct {
	LastFullMissingAt int `json:"lastFullMissingAt"`
}

// Formation records the last observed pairing and spacing of the duo.
type Formation struct {
	LeaderID   string `json:"leaderId"`
	SupportID  string `json:"supportId"`
	Separation int    `json:"separation"`
	At         int    `json:"at"`
}

// DuoEntry is the versioned duo runtime record. Assembled and Route are
// pointers so a record restored from an older schema can be told apart
// from a fresh one.
type DuoEntry struct {
	Version   int            `json:"version"`
	Phase     model.Phase    `json:"phase"`
	Assembled *Assembled     `json:"assembled"`
	Route     *Route         `json:"route"`
	Squad     Squad          `json:"squad"`
	Spawn     Spawn          `json:"spawn"`
	Wipe      Wipe           `json:"wipe"`
	Regroup   bool           `json:"regroup"`
	Debug     map[string]any `json:"debug"`
	Formation Formation      `json:"formation"`
}

func newDuoEntry() *DuoEntry {
	return &DuoEntry{
		Version:   DuoVersion,
		Phase:     model.PhaseAssemble,
		Assembled: &Assembled{},
		Route:     &Route{},
		Debug:     make(map[string]any),
	}
}

// valid is the structural check for duo records. Anything that fails it is
// replaced wholesale, never patched.
func (d *DuoEntry) valid() bool {
	return d != nil && d.Version == DuoVersion && d.Assembled != nil && d.Route != nil &&
		d.Phase.Valid() && d.Route.WaypointIndex >= 0
}
