package assault

import (
	"fmt"

	"github.com/nstehr/vimy/assault-core/model"
)

// Guard tolerances. Re-engaging checks a wait marker at range 2 but an AO
// center at range 3; the two are kept distinct.
const (
	arriveRange         = 1
	reengageWaitRange   = 2
	reengageCenterRange = 3
)

// CompileTransitions generates the phase machine's transitions from the
// tuning knobs. Conditions are built via fmt.Sprintf with interpolated
// values, so the compiler never generates invalid expr.
func CompileTransitions(t Tuning) []*Transition {
	t.Validate()
	var transitions []*Transition

	transitions = append(transitions, &Transition{
		Name:         "assemble-to-rendezvous",
		Priority:     500,
		From:         model.PhaseAssemble,
		To:           model.PhaseRendezvous,
		ConditionSrc: `Assembled()`,
	})

	transitions = append(transitions, &Transition{
		Name:         "rendezvous-to-stage",
		Priority:     400,
		From:         model.PhaseRendezvous,
		To:           model.PhaseStage,
		ConditionSrc: fmt.Sprintf(`!HasWait() || NearWait(%d)`, arriveRange),
		OnEnter:      resetWaypoints,
	})

	transitions = append(transitions, &Transition{
		Name:         "stage-to-engage",
		Priority:     300,
		From:         model.PhaseStage,
		To:           model.PhaseEngage,
		ConditionSrc: fmt.Sprintf(`WaypointsDone() && (!HasAssembly() || NearAssembly(%d))`, arriveRange),
		Before:       advanceWaypoint,
	})

	transitions = append(transitions, &Transition{
		Name:         "engage-to-retreat",
		Priority:     200,
		From:         model.PhaseEngage,
		To:           model.PhaseRetreat,
		ConditionSrc: fmt.Sprintf(`HealthKnown() && Health() <= %g`, t.RetreatAt),
	})

	transitions = append(transitions, &Transition{
		Name:     "retreat-to-stage",
		Priority: 100,
		From:     model.PhaseRetreat,
		To:       model.PhaseStage,
		ConditionSrc: fmt.Sprintf(
			`HealthKnown() && Health() >= %g && ((HasWait() && NearWait(%d)) || (!HasWait() && HasCenter() && NearCenter(%d)))`,
			t.ReengageAt, reengageWaitRange, reengageCenterRange),
		OnEnter: resetWaypoints,
	})

	return transitions
}

// advanceWaypoint moves the cursor one step when the unit stands within
// range 1 of the current waypoint. The cursor never passes the list length.
func advanceWaypoint(st *PhaseState, in PhaseInput) {
	wps := in.Flags.Waypoints
	if st.WaypointIndex < 0 {
		st.WaypointIndex = 0
	}
	if st.WaypointIndex >= len(wps) {
		st.WaypointIndex = len(wps)
		return
	}
	if in.Unit.Pos.InRangeTo(wps[st.WaypointIndex], arriveRange) {
		st.WaypointIndex = min(st.WaypointIndex+1, len(wps))
	}
}

// resetWaypoints starts a new staging cycle.
func resetWaypoints(st *PhaseState, _ PhaseInput) {
	st.WaypointIndex = 0
}
