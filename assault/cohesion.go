package assault

import "github.com/nstehr/vimy/assault-core/model"

const (
	assemblyRange = 2
	pairRange     = 1
)

// IsTogether reports whether both units are in the same room and within r
// of each other.
func IsTogether(leader, support *model.Unit, r int) bool {
	if leader == nil || support == nil {
		return false
	}
	return leader.Pos.InRangeTo(support.Pos, r)
}

// ShouldRendezvous is true when the pair is broken up: a member is missing,
// they are in different rooms, or they are more than one tile apart.
func ShouldRendezvous(leader, support *model.Unit) bool {
	return !IsTogether(leader, support, pairRange)
}

// HasArrived reports whether pos is within range 1 of wait.
func HasArrived(pos model.Position, wait *model.Position) bool {
	return wait != nil && pos.InRangeTo(*wait, arriveRange)
}

// IsAssembled needs both members at the assembly point and adjacent to each
// other; proximity to the rally point alone is not enough.
func IsAssembled(leader, support *model.Unit, assembly *model.Position) bool {
	if leader == nil || support == nil || assembly == nil {
		return false
	}
	for _, u := range []*model.Unit{leader, support} {
		if !u.Pos.InRangeTo(*assembly, assemblyRange) {
			return false
		}
	}
	return IsTogether(leader, support, pairRange)
}
