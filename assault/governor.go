package assault

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"

	"github.com/nstehr/vimy/assault-core/model"
	"github.com/nstehr/vimy/assault-core/store"
)

// ErrNoUnit is returned when the unit to evaluate is not in the snapshot.
var ErrNoUnit = errors.New("unit not in snapshot")

// Decision is everything the governor produced for one unit this tick.
type Decision struct {
	Mission string      `json:"mission"`
	UnitID  string      `json:"unitId"`
	Role    Role        `json:"role"`
	Phase   model.Phase `json:"phase"`
	Fired   []string    `json:"fired,omitempty"`
	Target  *Target     `json:"target,omitempty"`
	Plan    ActionPlan  `json:"plan"`
}

// MissionStatus is the mission-level view computed once per tick.
type MissionStatus struct {
	Mission   string           `json:"mission"`
	Threat    ThreatAssessment `json:"threat"`
	Members   int              `json:"members"`
	LeaderID  string           `json:"leaderId"`
	SupportID string           `json:"supportId"`
	Wiped     bool             `json:"wiped"`

	// SpawnAllowed tells the mod's spawner the squad is short of members.
	SpawnAllowed bool `json:"spawnAllowed"`
}

// Governor sequences squad resolution, phase advancement, routing, target
// selection and planning for the units of assault missions.
type Governor struct {
	store   *store.Store
	machine *PhaseMachine
	tuning  Tuning
	sink    DebugSink
}

// NewGovernor compiles the phase machine for t. sink may be nil.
func NewGovernor(st *store.Store, t Tuning, sink DebugSink) (*Governor, error) {
	t.Validate()
	machine, err := NewPhaseMachine(CompileTransitions(t))
	if err != nil {
		return nil, fmt.Errorf("build phase machine: %w", err)
	}
	return &Governor{store: st, machine: machine, tuning: t, sink: sink}, nil
}

// missionState points into whichever runtime entry schema the mission uses.
type missionState struct {
	squad    *store.Squad
	phase    *model.Phase
	waypoint *int
	debug    map[string]any
	duo      *store.DuoEntry
}

func (g *Governor) state(m model.Mission) missionState {
	if m.IsDuo() {
		d := g.store.DuoRuntime(m.Name)
		return missionState{squad: &d.Squad, phase: &d.Phase, waypoint: &d.Route.WaypointIndex, debug: d.Debug, duo: d}
	}
	e := g.store.Runtime(m.Name)
	return missionState{squad: &e.Squad, phase: &e.Phase, waypoint: &e.WaypointIndex, debug: e.Debug}
}

// Reset overwrites the mission's runtime entry with a fresh default.
func (g *Governor) Reset(m model.Mission) {
	if m.IsDuo() {
		g.store.ResetDuoRuntime(m.Name)
		return
	}
	g.store.ResetRuntime(m.Name)
}

type prepared struct {
	st      missionState
	flags   FlagPositions
	ao      AreaOfOperation
	leader  *model.Unit
	support *model.Unit
	members int
}

// prepare resolves markers and the squad and keeps the duo bookkeeping
// current. It is idempotent for a given snapshot, so leader and support may
// both run it in the same tick.
func (g *Governor) prepare(w *model.World, m model.Mission) prepared {
	flags := ResolveFlags(WorldMarkers{World: w}, m)
	p := prepared{
		st:    g.state(m),
		flags: flags,
		ao:    ResolveArea(m, flags),
	}
	p.leader, p.support = AssignSquad(w, m, p.st.squad, w.Tick, g.tuning.SquadLockTicks)
	p.members = len(EligibleMembers(w, m))
	if p.st.duo != nil {
		maintainDuo(p.st.duo, p, w.Tick)
	}
	return p
}

func maintainDuo(d *store.DuoEntry, p prepared, tick int) {
	d.Spawn.Allow = p.members < 2
	if d.Spawn.Allow {
		d.Spawn.LastAllowAt = tick
	}

	d.Regroup = p.leader != nil && p.support != nil && ShouldRendezvous(p.leader, p.support)
	if p.leader != nil && p.support != nil {
		sep := p.leader.Pos.RangeTo(p.support.Pos)
		if sep == model.Unreachable {
			sep = -1
		}
		d.Formation = store.Formation{LeaderID: p.leader.ID, SupportID: p.support.ID, Separation: sep, At: tick}
	}

	if d.Assembled.Done {
		return
	}
	switch {
	case p.flags.Assembly == nil && p.leader != nil:
		d.Assembled = &store.Assembled{Done: true, At: tick}
	case IsAssembled(p.leader, p.support, p.flags.Assembly):
		pos := *p.flags.Assembly
		d.Assembled = &store.Assembled{Done: true, At: tick, Pos: &pos}
	}
}

// Observe computes the mission-level status: squad, threat, and wipe
// handling. A duo whose members are all gone restarts from a fresh entry.
func (g *Governor) Observe(w *model.World, m model.Mission) MissionStatus {
	p := g.prepare(w, m)
	status := MissionStatus{
		Mission:   m.Name,
		Threat:    EvaluateThreat(w, p.leader, p.support),
		Members:   p.members,
		LeaderID:  p.st.squad.LeaderID,
		SupportID: p.st.squad.SupportID,
	}

	if d := p.st.duo; d != nil && p.members == 0 {
		progressed := d.Phase != model.PhaseAssemble || d.Assembled.Done || d.Route.WaypointIndex > 0
		if progressed {
			slog.Info("duo wiped, restarting mission", "mission", m.Name, "phase", d.Phase, "tick", w.Tick)
			d = g.store.ResetDuoRuntime(m.Name)
			status.Wiped = true
		}
		d.Wipe.LastFullMissingAt = w.Tick
		d.Spawn = store.Spawn{Allow: true, LastAllowAt: w.Tick}
	}

	if p.st.duo != nil {
		status.SpawnAllowed = g.store.DuoRuntime(m.Name).Spawn.Allow
	} else {
		status.SpawnAllowed = p.members == 0
	}
	return status
}

// Phase returns the mission's current shared phase.
func (g *Governor) Phase(m model.Mission) model.Phase {
	return *g.state(m).phase
}

// Evaluate produces the decision for one unit of mission m. A unit missing
// from the snapshot yields ErrNoUnit and a neutral plan.
func (g *Governor) Evaluate(w *model.World, m model.Mission, unitID string) (Decision, error) {
	dec := Decision{Mission: m.Name, UnitID: unitID, Plan: NeutralPlan()}
	unit, ok := w.UnitByID(unitID)
	if !ok {
		return dec, fmt.Errorf("%w: %s", ErrNoUnit, unitID)
	}

	p := g.prepare(w, m)
	sq := *p.st.squad
	dec.Role = ResolveRole(m, sq, unitID)

	// The squad leader drives the shared phase; the support follows it.
	if *p.st.waypoint < 0 {
		*p.st.waypoint = 0
	}
	if sq.LeaderID == "" || sq.LeaderID == unitID {
		ps := PhaseState{Phase: *p.st.phase, WaypointIndex: *p.st.waypoint}
		assembled := p.st.duo == nil || p.st.duo.Assembled.Done
		dec.Fired = g.machine.Advance(&ps, PhaseInput{Unit: unit, Flags: p.flags, AO: p.ao, Assembled: assembled})
		*p.st.phase, *p.st.waypoint = ps.Phase, ps.WaypointIndex
	}
	dec.Phase = *p.st.phase

	goal := ResolveRoute(dec.Phase, p.flags, p.ao, *p.st.waypoint)
	if dec.Phase == model.PhaseEngage {
		dec.Target = SelectTarget(w, unit, p.flags, p.ao)
	}
	dec.Plan = PlanActions(unit, dec.Phase, dec.Target, goal)

	if d := p.st.duo; d != nil && d.Regroup && dec.Role == RoleSupport && p.leader != nil && p.leader.ID != unitID {
		engaging := dec.Phase == model.PhaseEngage && dec.Target != nil
		if !engaging && dec.Phase != model.PhaseRetreat {
			pos := p.leader.Pos
			dec.Plan.MoveTarget = &pos
			dec.Plan.Range = pairRange
		}
	}

	g.recordDebug(w, m, p, dec)
	return dec, nil
}

func (g *Governor) recordDebug(w *model.World, m model.Mission, p prepared, dec Decision) {
	targetID := ""
	if dec.Target != nil {
		targetID = dec.Target.ID
	}
	p.st.debug["phase"] = string(dec.Phase)
	p.st.debug["waypointIndex"] = *p.st.waypoint
	p.st.debug["leaderId"] = p.st.squad.LeaderID
	p.st.debug["supportId"] = p.st.squad.SupportID
	p.st.debug["lastTick"] = w.Tick
	p.st.debug["lastUnit"] = dec.UnitID
	p.st.debug["target"] = targetID
	if len(dec.Fired) > 0 {
		p.st.debug["lastTransition"] = dec.Fired[len(dec.Fired)-1]
	}
	if g.sink != nil {
		g.sink.Publish(m.Name, maps.Clone(p.st.debug))
	}
}

// Machine exposes the compiled phase machine.
func (g *Governor) Machine() *PhaseMachine { return g.machine }
