package agent

import (
	"testing"

	"github.com/nstehr/vimy/assault-core/assault"
	"github.com/nstehr/vimy/assault-core/model"
)

func baseStatus() assault.MissionStatus {
	return assault.MissionStatus{Mission: "m", Members: 2, LeaderID: "a", SupportID: "b"}
}

func kinds(events []Event) []EventKind {
	var out []EventKind
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

func TestDetectEvents_NoEvents(t *testing.T) {
	status := baseStatus()
	prev := takeSnapshot(status, model.PhaseStage)
	cur := takeSnapshot(status, model.PhaseStage)
	if events := detectEvents("m", 101, status, cur, &prev); len(events) != 0 {
		t.Errorf("expected 0 events, got %+v", events)
	}
}

func TestDetectEvents_NilPrev(t *testing.T) {
	status := baseStatus()
	if events := detectEvents("m", 100, status, takeSnapshot(status, model.PhaseStage), nil); events != nil {
		t.Errorf("expected nil events for nil prev, got %+v", events)
	}
}

func TestDetectEvents_PhaseChanged(t *testing.T) {
	status := baseStatus()
	prev := takeSnapshot(status, model.PhaseStage)
	events := detectEvents("m", 101, status, takeSnapshot(status, model.PhaseEngage), &prev)
	if len(events) != 1 || events[0].Kind != EventPhaseChanged {
		t.Fatalf("events = %+v", events)
	}
	if events[0].Detail != "STAGE → ENGAGE" {
		t.Errorf("detail = %q", events[0].Detail)
	}
}

func TestDetectEvents_MemberLostAndReassigned(t *testing.T) {
	prev := takeSnapshot(baseStatus(), model.PhaseEngage)
	status := assault.MissionStatus{Mission: "m", Members: 1, LeaderID: "b"}
	events := detectEvents("m", 101, status, takeSnapshot(status, model.PhaseEngage), &prev)

	got := kinds(events)
	want := []EventKind{EventMemberLost, EventSquadReassigned}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("kinds = %v, want %v", got, want)
	}
}

func TestDetectEvents_Wiped(t *testing.T) {
	prev := takeSnapshot(baseStatus(), model.PhaseEngage)
	status := assault.MissionStatus{Mission: "m", Wiped: true}
	events := detectEvents("m", 300, status, takeSnapshot(status, model.PhaseAssemble), &prev)
	if got := kinds(events); len(got) != 1 || got[0] != EventWiped {
		t.Errorf("kinds = %v, want only wiped", got)
	}
}

func TestDetectEvents_Threat(t *testing.T) {
	tests := []struct {
		name      string
		prev, cur int
		want      EventKind
	}{
		{"first contact", 0, 1, EventFirstContact},
		{"escalation", 1, 3, EventThreatEscalated},
		{"minor rise", 0, 2, EventFirstContact},
		{"easing", 3, 1, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status := baseStatus()
			status.Threat.Level = tc.prev
			prev := takeSnapshot(status, model.PhaseEngage)
			status.Threat.Level = tc.cur
			events := detectEvents("m", 10, status, takeSnapshot(status, model.PhaseEngage), &prev)
			if tc.want == "" {
				if len(events) != 0 {
					t.Errorf("events = %+v, want none", events)
				}
				return
			}
			if len(events) != 1 || events[0].Kind != tc.want {
				t.Errorf("events = %+v, want %s", events, tc.want)
			}
		})
	}
}
