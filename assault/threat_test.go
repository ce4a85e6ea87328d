package assault

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/nstehr/vimy/assault-core/model"
)

func TestEvaluateThreatNoHostiles(t *testing.T) {
	leader := member("a", "Alpha", "m", at(10, 10))
	w := &model.World{Units: []model.Unit{leader}}

	got := EvaluateThreat(w, &leader, nil)
	if got.Level != 0 || got.Hostiles != 0 {
		t.Errorf("level = %d hostiles = %d, want 0 0", got.Level, got.Hostiles)
	}
	if !math.IsInf(got.ClosestHostileRange, 1) {
		t.Errorf("closest = %v, want +Inf", got.ClosestHostileRange)
	}
}

func TestEvaluateThreatLevels(t *testing.T) {
	leader := member("a", "Alpha", "m", at(10, 10))

	tests := []struct {
		name      string
		hostiles  []model.Unit
		wantLevel int
		nearMelee bool
		nearRange bool
	}{
		{
			name:      "distant melee only",
			hostiles:  []model.Unit{hostile("h1", at(20, 20), model.PartAttack)},
			wantLevel: 1,
		},
		{
			name:      "ranged at two tiles",
			hostiles:  []model.Unit{hostile("h1", at(12, 10), model.PartRanged)},
			wantLevel: 2,
			nearRange: true,
		},
		{
			name: "swarm adjacent",
			hostiles: []model.Unit{
				hostile("h1", at(11, 10), model.PartAttack, model.PartAttack, model.PartAttack, model.PartAttack),
				hostile("h2", at(11, 11), model.PartRanged, model.PartRanged, model.PartRanged),
				hostile("h3", at(12, 12), model.PartRanged, model.PartRanged, model.PartRanged),
			},
			wantLevel: 3,
			nearMelee: true,
			nearRange: true,
		},
		{
			name:      "other room ignored",
			hostiles:  []model.Unit{hostile("h1", model.Position{X: 10, Y: 11, Room: "W2N1"}, model.PartAttack)},
			wantLevel: 0,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := &model.World{Units: []model.Unit{leader}, Hostiles: tc.hostiles}
			got := EvaluateThreat(w, &leader, nil)
			if got.Level != tc.wantLevel {
				t.Errorf("level = %d, want %d (%+v)", got.Level, tc.wantLevel, got)
			}
			if got.NearMelee != tc.nearMelee || got.NearRanged != tc.nearRange {
				t.Errorf("nearMelee=%v nearRanged=%v, want %v %v", got.NearMelee, got.NearRanged, tc.nearMelee, tc.nearRange)
			}
		})
	}
}

func TestEvaluateThreatDedupAcrossSameRoom(t *testing.T) {
	leader := member("a", "Alpha", "m", at(10, 10))
	support := member("b", "Bravo", "m", at(11, 10))
	w := &model.World{
		Units:    []model.Unit{leader, support},
		Hostiles: []model.Unit{hostile("h1", at(30, 30), model.PartAttack, model.PartRanged)},
	}
	got := EvaluateThreat(w, &leader, &support)
	if got.Hostiles != 1 {
		t.Errorf("hostiles = %d, want 1", got.Hostiles)
	}
	if got.MaxIncomingPotential != 2 {
		t.Errorf("maxIncomingPotential = %d, want 2", got.MaxIncomingPotential)
	}
	if got.ClosestHostileRange != 19 {
		t.Errorf("closest = %v, want 19", got.ClosestHostileRange)
	}
}

func TestThreatJSONInfinity(t *testing.T) {
	data, err := json.Marshal(NoThreat())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"closestHostileRange":null`) {
		t.Errorf("got %s, want null closest range", data)
	}
}
