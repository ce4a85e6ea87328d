package assault

import "github.com/nstehr/vimy/assault-core/model"

// ResolveRoute maps the current phase to a movement goal. It returns nil
// when no marker or area hint exists for the phase.
func ResolveRoute(phase model.Phase, flags FlagPositions, ao AreaOfOperation, waypointIndex int) *model.Position {
	switch phase {
	case model.PhaseAssemble:
		return firstOf(flags.Assembly, flags.Wait, ao.Center, flags.Anchor)
	case model.PhaseRendezvous:
		return firstOf(flags.Wait, ao.Center, flags.Anchor)
	case model.PhaseStage:
		if waypointIndex >= 0 && waypointIndex < len(flags.Waypoints) {
			wp := flags.Waypoints[waypointIndex]
			return &wp
		}
		return firstOf(flags.Assembly, ao.Center, flags.Wait)
	case model.PhaseEngage:
		return firstOf(flags.Attack, ao.Center)
	default:
		// RETREAT and anything unrecognised pull back to the rally point.
		return firstOf(flags.Wait, ao.Center, flags.Anchor)
	}
}

func firstOf(candidates ...*model.Position) *model.Position {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}
