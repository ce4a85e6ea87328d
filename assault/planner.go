package assault

import (
	"log/slog"

	"github.com/nstehr/vimy/assault-core/model"
)

// Action names understood by the mod's executor.
const (
	ActionHeal         = "heal"
	ActionRangedAttack = "rangedAttack"
	ActionAttack       = "attack"
)

// Approach ranges.
const (
	meleeRange    = 1
	rangedRange   = 3
	standOffRange = 2
)

type Action struct {
	Action   string `json:"action"`
	TargetID string `json:"targetId"`
}

// ActionPlan is the declarative per-tick output for one unit. The mod moves
// the unit toward MoveTarget until within Range and applies every action.
type ActionPlan struct {
	MoveTarget *model.Position `json:"moveTarget"`
	Range      int             `json:"range"`
	Actions    []Action        `json:"actions"`
}

// NeutralPlan does nothing: no movement, no actions.
func NeutralPlan() ActionPlan {
	return ActionPlan{Range: meleeRange, Actions: []Action{}}
}

// PlanActions composes the movement goal and target into a plan. Actions
// are not exclusive; a unit may heal and attack in the same tick.
func PlanActions(unit model.Unit, phase model.Phase, target *Target, goal *model.Position) ActionPlan {
	plan := NeutralPlan()
	plan.MoveTarget = goal

	ranged := unit.Active(model.PartRanged) > 0
	melee := unit.Active(model.PartAttack) > 0

	switch {
	case phase == model.PhaseEngage && target != nil:
		pos := target.Pos
		plan.MoveTarget = &pos
		if ranged {
			plan.Range = rangedRange
		}
	case phase == model.PhaseRetreat:
		plan.Range = standOffRange
	}

	if unit.Active(model.PartHeal) > 0 {
		plan.Actions = append(plan.Actions, Action{Action: ActionHeal, TargetID: unit.ID})
	}

	if target != nil {
		r := unit.Pos.RangeTo(target.Pos)
		switch {
		case ranged && r <= rangedRange:
			plan.Actions = append(plan.Actions, Action{Action: ActionRangedAttack, TargetID: target.ID})
		case melee && r <= meleeRange:
			plan.Actions = append(plan.Actions, Action{Action: ActionAttack, TargetID: target.ID})
		}
	}

	slog.Debug("plan composed", "unit", unit.Name, "phase", phase, "range", plan.Range, "actions", len(plan.Actions))
	return plan
}
