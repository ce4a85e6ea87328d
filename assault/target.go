package assault

import "github.com/nstehr/vimy/assault-core/model"

// Target kinds.
const (
	TargetUnit      = "unit"
	TargetStructure = "structure"
)

// objectiveRadius is how far from the AO center a structure may sit and
// still count as the objective.
const objectiveRadius = 3

// Target is the combat target chosen for this tick.
type Target struct {
	ID   string         `json:"id"`
	Kind string         `json:"kind"`
	Pos  model.Position `json:"pos"`
}

// SelectTarget picks the immediate combat target. Sources are tried in
// order and the first non-empty one wins: hostile units in the room, hostile
// structures in the room, the structure under the attack marker, then any
// non-owned structure near the AO center. The controller is never chosen.
func SelectTarget(w *model.World, unit model.Unit, flags FlagPositions, ao AreaOfOperation) *Target {
	if w == nil {
		return nil
	}
	room := unit.Room()

	if h, ok := nearest(w.HostilesIn(room), unit.Pos); ok {
		return &Target{ID: h.ID, Kind: TargetUnit, Pos: h.Pos}
	}

	structures := filter(w.StructuresIn(room), func(s model.Structure) bool {
		return s.Type != model.StructureController
	})

	hostile := filter(structures, func(s model.Structure) bool { return s.Hostile() })
	if s, ok := nearest(hostile, unit.Pos); ok {
		return structureTarget(s)
	}

	if a := flags.Attack; a != nil && a.Room == room {
		for _, s := range structures {
			if s.Pos.Equal(*a) {
				return structureTarget(s)
			}
		}
	}

	if c := ao.Center; c != nil && c.Room == room {
		near := filter(structures, func(s model.Structure) bool {
			return !s.My && s.Pos.InRangeTo(*c, objectiveRadius)
		})
		if s, ok := nearest(near, unit.Pos); ok {
			return structureTarget(s)
		}
	}

	return nil
}

func structureTarget(s model.Structure) *Target {
	return &Target{ID: s.ID, Kind: TargetStructure, Pos: s.Pos}
}
