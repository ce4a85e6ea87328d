package assault

import (
	"encoding/json"
	"math"

	"github.com/nstehr/vimy/assault-core/model"
)

// ThreatAssessment summarises hostile danger around the squad. Level is 0
// only when no hostiles are present.
type ThreatAssessment struct {
	Level                int     `json:"level"`
	NearMelee            bool    `json:"nearMelee"`
	NearRanged           bool    `json:"nearRanged"`
	MaxIncomingPotential int     `json:"maxIncomingPotential"`
	ClosestHostileRange  float64 `json:"closestHostileRange"`
	Hostiles             int     `json:"hostiles"`
}

// NoThreat is the assessment for an empty hostile set.
func NoThreat() ThreatAssessment {
	return ThreatAssessment{ClosestHostileRange: math.Inf(1)}
}

// MarshalJSON encodes an infinite closest range as null; encoding/json
// refuses infinities.
func (t ThreatAssessment) MarshalJSON() ([]byte, error) {
	type alias ThreatAssessment
	out := struct {
		alias
		ClosestHostileRange *float64 `json:"closestHostileRange"`
	}{alias: alias(t)}
	if !math.IsInf(t.ClosestHostileRange, 0) {
		out.ClosestHostileRange = &t.ClosestHostileRange
	}
	return json.Marshal(out)
}

// EvaluateThreat scores the hostiles in the rooms occupied by leader and
// support. Either unit may be nil.
func EvaluateThreat(w *model.World, leader, support *model.Unit) ThreatAssessment {
	if w == nil {
		return NoThreat()
	}
	var rooms []string
	for _, u := range []*model.Unit{leader, support} {
		if u == nil {
			continue
		}
		if len(rooms) == 0 || rooms[0] != u.Room() {
			rooms = append(rooms, u.Room())
		}
	}

	seen := make(map[string]bool)
	var hostiles []model.Unit
	for _, room := range rooms {
		for _, h := range w.HostilesIn(room) {
			if seen[h.ID] {
				continue
			}
			seen[h.ID] = true
			hostiles = append(hostiles, h)
		}
	}
	if len(hostiles) == 0 {
		return NoThreat()
	}

	t := ThreatAssessment{
		Hostiles:            len(hostiles),
		ClosestHostileRange: math.Inf(1),
	}
	totalParts := 0
	for _, h := range hostiles {
		melee := h.Active(model.PartAttack)
		ranged := h.Active(model.PartRanged)
		totalParts += melee + ranged
		t.MaxIncomingPotential = max(t.MaxIncomingPotential, melee+ranged)

		r := rangeToSquad(h, leader, support)
		t.ClosestHostileRange = math.Min(t.ClosestHostileRange, r)
		if melee > 0 && r <= 1 {
			t.NearMelee = true
		}
		if ranged > 0 && r <= 3 {
			t.NearRanged = true
		}
	}

	score := 0
	if t.NearMelee || t.NearRanged {
		score += 2
	}
	if totalParts >= 10 {
		score++
	}
	if t.Hostiles >= 3 {
		score++
	}
	if t.ClosestHostileRange <= 2 {
		score++
	}

	switch {
	case score >= 4:
		t.Level = 3
	case score >= 2:
		t.Level = 2
	default:
		t.Level = 1
	}
	return t
}

// rangeToSquad is the distance from h to whichever squad member shares its
// room, or +Inf when none does.
func rangeToSquad(h model.Unit, leader, support *model.Unit) float64 {
	best := math.Inf(1)
	for _, u := range []*model.Unit{leader, support} {
		if u == nil || u.Room() != h.Room() {
			continue
		}
		best = math.Min(best, float64(u.Pos.RangeTo(h.Pos)))
	}
	return best
}
