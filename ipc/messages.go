package ipc

import "github.com/nstehr/vimy/assault-core/model"

// These constants must stay in sync with the mod's message dispatcher.
const (
	TypeHello = "hello"
	TypeAck   = "ack"
	TypeTick  = "tick"
	TypePlans = "plans"
	TypeReset = "reset"
)

type HelloMessage struct {
	Player string `json:"player"`
	Shard  string `json:"shard,omitempty"`
}

type AckMessage struct {
	Status  string `json:"status"`
	Session string `json:"session,omitempty"`
}

// TickMessage is the per-tick snapshot plus the assault missions the mod
// wants governed. SentAt is the mod's wall clock in unix milliseconds.
type TickMessage struct {
	World    model.World     `json:"world"`
	Missions []model.Mission `json:"missions"`
	SentAt   int64           `json:"sentAt,omitempty"`
}

// ResetMessage asks the sidecar to restart a mission from a fresh entry.
type ResetMessage struct {
	Mission model.Mission `json:"mission"`
}
