package model

// Phase is the stage of an assault mission's behaviour state machine.
type Phase string

const (
	PhaseAssemble   Phase = "ASSEMBLE" // duo entry phase
	PhaseRendezvous Phase = "RENDEZVOUS"
	PhaseStage      Phase = "STAGE"
	PhaseEngage     Phase = "ENGAGE"
	PhaseRetreat    Phase = "RETREAT"
)

// Valid reports whether p is one of the known phases.
func (p Phase) Valid() bool {
	switch p {
	case PhaseAssemble, PhaseRendezvous, PhaseStage, PhaseEngage, PhaseRetreat:
		return true
	}
	return false
}
