package model

import (
	"fmt"
	"log/slog"
)

// World is the point-in-time snapshot the mod sends every tick. Every core
// function reads from it; nothing in the core reaches for global state.
type World struct {
	Tick       int                    `json:"tick" yaml:"tick"`
	Units      []Unit                 `json:"units" yaml:"units"`
	Hostiles   []Unit                 `json:"hostiles" yaml:"hostiles"`
	Structures []Structure            `json:"structures" yaml:"structures"`
	Flags      map[string]RawPosition `json:"flags" yaml:"flags"`
	Anchors    map[string]RawPosition `json:"anchors" yaml:"anchors"` // room → nearest owned structure
}

// Body part types.
const (
	PartMove   = "move"
	PartAttack = "attack"
	PartRanged = "ranged_attack"
	PartHeal   = "heal"
	PartCarry  = "carry"
	PartTough  = "tough"
)

// StructureController is the room's control structure. It is never a target.
const StructureController = "controller"

// RoleAssault is the memory role carried by units the core governs.
const RoleAssault = "assault"

type BodyPart struct {
	Type string `json:"type" yaml:"type"`
	Hits int    `json:"hits" yaml:"hits"`
}

type UnitMemory struct {
	Role         string `json:"role" yaml:"role"`
	MissionName  string `json:"missionName" yaml:"missionName"`
	AssaultSquad string `json:"assaultSquad" yaml:"assaultSquad"`
}

// Unit is an owned unit or a hostile one. Pos is filled by Normalize from
// the wire position.
type Unit struct {
	ID      string      `json:"id" yaml:"id"`
	Name    string      `json:"name" yaml:"name"`
	Owner   string      `json:"owner,omitempty" yaml:"owner,omitempty"`
	RawPos  RawPosition `json:"pos" yaml:"pos"`
	Pos     Position    `json:"-" yaml:"-"`
	Hits    int         `json:"hits" yaml:"hits"`
	HitsMax int         `json:"hitsMax" yaml:"hitsMax"`
	Body    []BodyPart  `json:"body" yaml:"body"`
	Memory  UnitMemory  `json:"memory" yaml:"memory"`
}

func (u Unit) Room() string { return u.Pos.Room }

func (u Unit) Location() Position { return u.Pos }

// Active counts body parts of type t that still have hit points.
func (u Unit) Active(t string) int {
	n := 0
	for _, p := range u.Body {
		if p.Type == t && p.Hits > 0 {
			n++
		}
	}
	return n
}

// HealthRatio returns hits/hitsMax. ok is false when hitsMax is not positive.
func (u Unit) HealthRatio() (ratio float64, ok bool) {
	if u.HitsMax <= 0 {
		return 0, false
	}
	return float64(u.Hits) / float64(u.HitsMax), true
}

type Structure struct {
	ID     string      `json:"id" yaml:"id"`
	Type   string      `json:"type" yaml:"type"`
	Owner  string      `json:"owner,omitempty" yaml:"owner,omitempty"`
	My     bool        `json:"my" yaml:"my"`
	RawPos RawPosition `json:"pos" yaml:"pos"`
	Pos    Position    `json:"-" yaml:"-"`
	Hits   int         `json:"hits" yaml:"hits"`
}

func (s Structure) Location() Position { return s.Pos }

// Hostile is true for structures owned by another player.
func (s Structure) Hostile() bool { return !s.My && s.Owner != "" }

// Normalize converts every wire position through ParsePosition. Records with
// malformed positions are dropped and logged; the number dropped is returned.
func (w *World) Normalize() int {
	dropped := 0
	w.Units, dropped = normalizeUnits(w.Units, "unit", dropped)
	w.Hostiles, dropped = normalizeUnits(w.Hostiles, "hostile", dropped)

	kept := w.Structures[:0]
	for _, s := range w.Structures {
		pos, err := ParsePosition(s.RawPos)
		if err != nil {
			slog.Warn("dropping structure", "id", s.ID, "error", err)
			dropped++
			continue
		}
		s.Pos = pos
		kept = append(kept, s)
	}
	w.Structures = kept
	return dropped
}

func normalizeUnits(units []Unit, kind string, dropped int) ([]Unit, int) {
	kept := units[:0]
	for _, u := range units {
		pos, err := ParsePosition(u.RawPos)
		if err != nil {
			slog.Warn("dropping "+kind, "id", u.ID, "name", u.Name, "error", err)
			dropped++
			continue
		}
		u.Pos = pos
		kept = append(kept, u)
	}
	return kept, dropped
}

// UnitByID looks up an owned unit.
func (w *World) UnitByID(id string) (Unit, bool) {
	if id == "" {
		return Unit{}, false
	}
	for _, u := range w.Units {
		if u.ID == id {
			return u, true
		}
	}
	return Unit{}, false
}

// HostilesIn returns the hostile units in room.
func (w *World) HostilesIn(room string) []Unit {
	var out []Unit
	for _, h := range w.Hostiles {
		if h.Room() == room {
			out = append(out, h)
		}
	}
	return out
}

// StructuresIn returns every structure in room.
func (w *World) StructuresIn(room string) []Structure {
	var out []Structure
	for _, s := range w.Structures {
		if s.Pos.Room == room {
			out = append(out, s)
		}
	}
	return out
}

// Flag resolves a named marker. A missing flag returns (nil, nil); a
// malformed one returns an error.
func (w *World) Flag(name string) (*Position, error) {
	if name == "" {
		return nil, nil
	}
	raw, ok := w.Flags[name]
	if !ok {
		return nil, nil
	}
	pos, err := ParsePosition(raw)
	if err != nil {
		return nil, fmt.Errorf("flag %q: %w", name, err)
	}
	return &pos, nil
}

// Anchor resolves the owner anchor for room, with the same contract as Flag.
func (w *World) Anchor(room string) (*Position, error) {
	if room == "" {
		return nil, nil
	}
	raw, ok := w.Anchors[room]
	if !ok {
		return nil, nil
	}
	pos, err := ParsePosition(raw)
	if err != nil {
		return nil, fmt.Errorf("anchor %q: %w", room, err)
	}
	return &pos, nil
}
