package assault

import (
	"github.com/expr-lang/expr/vm"
	"github.com/nstehr/vimy/assault-core/model"
)

// StepFunc runs while the mission sits in a transition's From phase, before
// the guard is checked. It may mutate phase-local state such as the
// waypoint cursor.
type StepFunc func(st *PhaseState, in PhaseInput)

// Transition is one guarded edge of the phase machine: a condition → target
// phase pair. The machine evaluates transitions by descending priority and
// lets a fired transition fall through to the next one in the same tick.
type Transition struct {
	Name         string
	Priority     int         // higher = evaluated first
	From         model.Phase
	To           model.Phase
	ConditionSrc string      // expr source over GuardEnv
	program      *vm.Program // compiled bytecode
	Before       StepFunc    // optional, runs in From before the guard
	OnEnter      StepFunc    // optional, runs after the transition fires
}
