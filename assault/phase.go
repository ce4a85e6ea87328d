package assault

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/nstehr/vimy/assault-core/model"
)

// PhaseState is the persisted part of the machine: the current phase and
// the staging cursor. The governor copies it in and out of the runtime entry.
type PhaseState struct {
	Phase         model.Phase
	WaypointIndex int
}

// PhaseInput is the per-tick, read-only side of a phase evaluation.
type PhaseInput struct {
	Unit      model.Unit
	Flags     FlagPositions
	AO        AreaOfOperation
	Assembled bool
}

// PhaseMachine runs compiled transitions against a mission's phase state.
// Guards are checked in fixed priority order and a transition that fires
// lets the next phase's guard run in the same tick, so one evaluation may
// cascade through several phases.
type PhaseMachine struct {
	transitions []*Transition
}

// NewPhaseMachine compiles all transition conditions into expr bytecode and
// sorts them by priority.
func NewPhaseMachine(transitions []*Transition) (*PhaseMachine, error) {
	compiled, err := compileTransitions(transitions)
	if err != nil {
		return nil, err
	}
	return &PhaseMachine{transitions: compiled}, nil
}

// Advance evaluates every transition once, in order, and returns the names
// of those that fired.
func (m *PhaseMachine) Advance(st *PhaseState, in PhaseInput) []string {
	if !st.Phase.Valid() {
		slog.Warn("unknown phase, restarting at rendezvous", "phase", st.Phase, "unit", in.Unit.Name)
		st.Phase = model.PhaseRendezvous
	}

	var fired []string
	for _, t := range m.transitions {
		if st.Phase != t.From {
			continue
		}
		if t.Before != nil {
			t.Before(st, in)
		}

		result, err := vm.Run(t.program, newGuardEnv(st, in))
		if err != nil {
			slog.Warn("transition condition error", "transition", t.Name, "error", err)
			continue
		}
		match, ok := result.(bool)
		if !ok || !match {
			continue
		}

		slog.Debug("phase transition", "transition", t.Name, "unit", in.Unit.Name, "from", t.From, "to", t.To)
		st.Phase = t.To
		if t.OnEnter != nil {
			t.OnEnter(st, in)
		}
		fired = append(fired, t.Name)
	}
	return fired
}

// Transitions returns the compiled transitions in evaluation order.
func (m *PhaseMachine) Transitions() []*Transition {
	return slices.Clone(m.transitions)
}

func compileTransitions(transitions []*Transition) ([]*Transition, error) {
	for _, t := range transitions {
		prog, err := expr.Compile(t.ConditionSrc, expr.Env(GuardEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile transition %q: %w", t.Name, err)
		}
		t.program = prog
	}
	slices.SortStableFunc(transitions, func(a, b *Transition) int {
		return b.Priority - a.Priority
	})
	return transitions, nil
}
