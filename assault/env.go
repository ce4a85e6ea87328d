package assault

import "github.com/nstehr/vimy/assault-core/model"

// GuardEnv wraps one unit's view of the mission and exposes the helper
// methods transition conditions call from expr.
type GuardEnv struct {
	Unit          model.Unit
	Flags         FlagPositions
	AO            AreaOfOperation
	WaypointIndex int
	SquadReady    bool
}

func newGuardEnv(st *PhaseState, in PhaseInput) GuardEnv {
	return GuardEnv{
		Unit:          in.Unit,
		Flags:         in.Flags,
		AO:            in.AO,
		WaypointIndex: st.WaypointIndex,
		SquadReady:    in.Assembled,
	}
}

func (e GuardEnv) HasWait() bool { return e.Flags.Wait != nil }

func (e GuardEnv) NearWait(r int) bool {
	return e.Flags.Wait != nil && e.Unit.Pos.InRangeTo(*e.Flags.Wait, r)
}

func (e GuardEnv) HasAssembly() bool { return e.Flags.Assembly != nil }

func (e GuardEnv) NearAssembly(r int) bool {
	return e.Flags.Assembly != nil && e.Unit.Pos.InRangeTo(*e.Flags.Assembly, r)
}

func (e GuardEnv) HasCenter() bool { return e.AO.Center != nil }

func (e GuardEnv) NearCenter(r int) bool {
	return e.AO.Center != nil && e.Unit.Pos.InRangeTo(*e.AO.Center, r)
}

// WaypointsDone is true once the cursor has passed the last waypoint.
func (e GuardEnv) WaypointsDone() bool {
	return e.WaypointIndex >= len(e.Flags.Waypoints)
}

// HealthKnown is false when hitsMax is zero or missing; no health-driven
// transition may fire then.
func (e GuardEnv) HealthKnown() bool {
	_, ok := e.Unit.HealthRatio()
	return ok
}

func (e GuardEnv) Health() float64 {
	r, _ := e.Unit.HealthRatio()
	return r
}

func (e GuardEnv) Assembled() bool { return e.SquadReady }
