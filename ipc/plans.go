package ipc

import (
	"github.com/nstehr/vimy/assault-core/assault"
	"github.com/nstehr/vimy/assault-core/model"
)

// UnitPlan is the plan the mod executes for one unit this tick.
type UnitPlan struct {
	Mission string             `json:"mission"`
	UnitID  string             `json:"unitId"`
	Role    assault.Role       `json:"role"`
	Phase   model.Phase        `json:"phase"`
	Target  *assault.Target    `json:"target,omitempty"`
	Plan    assault.ActionPlan `json:"plan"`
}

// PlansMessage answers a tick: one plan per governed unit and one report
// per mission.
type PlansMessage struct {
	Tick     int             `json:"tick"`
	Plans    []UnitPlan      `json:"plans"`
	Missions []MissionReport `json:"missions"`
}

// MissionReport is the mission status plus the phase after this tick's
// evaluations.
type MissionReport struct {
	assault.MissionStatus
	Phase model.Phase `json:"phase"`
}

// PlanFromDecision converts a governor decision to its wire form.
func PlanFromDecision(d assault.Decision) UnitPlan {
	return UnitPlan{
		Mission: d.Mission,
		UnitID:  d.UnitID,
		Role:    d.Role,
		Phase:   d.Phase,
		Target:  d.Target,
		Plan:    d.Plan,
	}
}
