package assault

import (
	"strings"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		v, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-0.5, 0, 1, 0.0},
		{1.5, 0, 1, 1.0},
	}
	for _, tc := range tests {
		got := clamp(tc.v, tc.min, tc.max)
		if got != tc.want {
			t.Errorf("clamp(%f, %f, %f) = %f, want %f", tc.v, tc.min, tc.max, got, tc.want)
		}
	}
}

func TestTuningValidate(t *testing.T) {
	tests := []struct {
		name string
		in   Tuning
		want Tuning
	}{
		{"defaults untouched", DefaultTuning(), DefaultTuning()},
		{"zero value", Tuning{}, Tuning{RetreatAt: 0.05, ReengageAt: 0.1, SquadLockTicks: 0}},
		{"inverted band", Tuning{RetreatAt: 0.6, ReengageAt: 0.4, SquadLockTicks: 10}, Tuning{RetreatAt: 0.6, ReengageAt: 0.65, SquadLockTicks: 10}},
		{"excessive lock", Tuning{RetreatAt: 0.3, ReengageAt: 0.7, SquadLockTicks: 99999}, Tuning{RetreatAt: 0.3, ReengageAt: 0.7, SquadLockTicks: 1500}},
	}
	for _, tc := range tests {
		got := tc.in
		got.Validate()
		if !closeTo(got.RetreatAt, tc.want.RetreatAt) || !closeTo(got.ReengageAt, tc.want.ReengageAt) || got.SquadLockTicks != tc.want.SquadLockTicks {
			t.Errorf("%s: Validate() = %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func closeTo(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}

func TestCompileTransitionsInterpolatesTuning(t *testing.T) {
	ts := CompileTransitions(Tuning{RetreatAt: 0.25, ReengageAt: 0.8, SquadLockTicks: 5})
	var retreat, reengage string
	for _, tr := range ts {
		switch tr.Name {
		case "engage-to-retreat":
			retreat = tr.ConditionSrc
		case "retreat-to-stage":
			reengage = tr.ConditionSrc
		}
	}
	if !strings.Contains(retreat, "Health() <= 0.25") {
		t.Errorf("retreat condition = %q", retreat)
	}
	if !strings.Contains(reengage, "Health() >= 0.8") || !strings.Contains(reengage, "NearWait(2)") || !strings.Contains(reengage, "NearCenter(3)") {
		t.Errorf("re-engage condition = %q", reengage)
	}
	if _, err := NewPhaseMachine(ts); err != nil {
		t.Errorf("tuned transitions failed to compile: %v", err)
	}
}

func TestBadConditionFailsCompile(t *testing.T) {
	_, err := NewPhaseMachine([]*Transition{{Name: "broken", ConditionSrc: "NearWait("}})
	if err == nil {
		t.Fatal("expected compile error")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error %q does not name the transition", err)
	}
}
