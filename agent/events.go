package agent

import (
	"fmt"

	"github.com/nstehr/vimy/assault-core/assault"
	"github.com/nstehr/vimy/assault-core/model"
)

// EventKind identifies a notable change in a mission between two ticks.
type EventKind string

const (
	EventPhaseChanged    EventKind = "phase_changed"
	EventSquadReassigned EventKind = "squad_reassigned"
	EventMemberLost      EventKind = "member_lost"
	EventWiped           EventKind = "wiped"
	EventThreatEscalated EventKind = "threat_escalated"
	EventFirstContact    EventKind = "first_contact"
)

// Event is detected by diffing consecutive mission snapshots.
type Event struct {
	Kind    EventKind
	Mission string
	Tick    int
	Detail  string
}

// missionSnapshot captures the diffable fields of a mission after a tick.
type missionSnapshot struct {
	phase     model.Phase
	leaderID  string
	supportID string
	members   int
	threat    int
}

func takeSnapshot(status assault.MissionStatus, phase model.Phase) missionSnapshot {
	return missionSnapshot{
		phase:     phase,
		leaderID:  status.LeaderID,
		supportID: status.SupportID,
		members:   status.Members,
		threat:    status.Threat.Level,
	}
}

// detectEvents compares the mission's state against the previous snapshot.
// Returns nil if prev is nil (first tick the mission is seen), except for a
// wipe, which the status itself reports.
func detectEvents(mission string, tick int, status assault.MissionStatus, cur missionSnapshot, prev *missionSnapshot) []Event {
	var events []Event
	if status.Wiped {
		events = append(events, Event{
			Kind:    EventWiped,
			Mission: mission,
			Tick:    tick,
			Detail:  "all members lost, mission restarted",
		})
	}
	if prev == nil {
		return events
	}

	// A wipe resets the phase; the reset is already reported.
	if prev.phase != cur.phase && !status.Wiped {
		events = append(events, Event{
			Kind:    EventPhaseChanged,
			Mission: mission,
			Tick:    tick,
			Detail:  fmt.Sprintf("%s → %s", prev.phase, cur.phase),
		})
	}

	if cur.members < prev.members && cur.members > 0 {
		events = append(events, Event{
			Kind:    EventMemberLost,
			Mission: mission,
			Tick:    tick,
			Detail:  fmt.Sprintf("members %d → %d", prev.members, cur.members),
		})
	}

	if cur.leaderID != "" && (prev.leaderID != cur.leaderID || prev.supportID != cur.supportID) {
		events = append(events, Event{
			Kind:    EventSquadReassigned,
			Mission: mission,
			Tick:    tick,
			Detail:  fmt.Sprintf("leader %s support %s (was %s/%s)", cur.leaderID, orNone(cur.supportID), orNone(prev.leaderID), orNone(prev.supportID)),
		})
	}

	switch {
	case prev.threat == 0 && cur.threat > 0:
		events = append(events, Event{
			Kind:    EventFirstContact,
			Mission: mission,
			Tick:    tick,
			Detail:  fmt.Sprintf("hostiles sighted, threat level %d", cur.threat),
		})
	case cur.threat > prev.threat && cur.threat >= 2:
		events = append(events, Event{
			Kind:    EventThreatEscalated,
			Mission: mission,
			Tick:    tick,
			Detail:  fmt.Sprintf("threat level %d → %d", prev.threat, cur.threat),
		})
	}

	return events
}

func orNone(id string) string {
	if id == "" {
		return "none"
	}
	return id
}
