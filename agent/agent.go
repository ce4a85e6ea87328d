package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nstehr/vimy/assault-core/assault"
	"github.com/nstehr/vimy/assault-core/ipc"
	"github.com/nstehr/vimy/assault-core/model"
	"github.com/nstehr/vimy/assault-core/observability"
	"github.com/nstehr/vimy/assault-core/store"
)

// saveEvery is how many processed ticks pass between runtime state flushes.
const saveEvery = 100

var errEvalPanic = errors.New("evaluation panicked")

// Options configure a Session.
type Options struct {
	Tuning         assault.Tuning
	Namespace      string
	MaxSnapshotAge int
	StateDir       string // empty keeps runtime state in memory only
	Sink           assault.DebugSink
}

// Session owns the decision-making for a single player connection.
type Session struct {
	ID     string
	Conn   *ipc.Connection
	Player string

	opts     Options
	store    *store.Store
	governor *assault.Governor

	lastTick  int
	seenTick  bool
	processed int
	prev      map[string]missionSnapshot
}

// New builds a session. conn may be nil when ticks are fed directly, as the
// replay command does.
func New(conn *ipc.Connection, opts Options) (*Session, error) {
	st := store.New(opts.Namespace)
	gov, err := assault.NewGovernor(st, opts.Tuning, opts.Sink)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	return &Session{
		ID:       uuid.New().String()[:8],
		Conn:     conn,
		opts:     opts,
		store:    st,
		governor: gov,
		prev:     make(map[string]missionSnapshot),
	}, nil
}

// Register wires the session's handlers onto its connection.
func (s *Session) Register() {
	s.Conn.RegisterHandler(ipc.TypeHello, s.HandleHello)
	s.Conn.RegisterHandler(ipc.TypeTick, s.HandleTick)
	s.Conn.RegisterHandler(ipc.TypeReset, s.HandleReset)
}

// Store exposes the session's runtime store.
func (s *Session) Store() *store.Store { return s.store }

// HandleHello completes the handshake so the mod knows the sidecar is ready.
// Persisted runtime state for the player is restored here.
func (s *Session) HandleHello(_ context.Context, env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := env.Decode(&hello); err != nil {
		return nil, err
	}

	s.Player = hello.Player
	if s.Conn != nil {
		s.Conn.Player = hello.Player
	}
	slog.Info("player identified", "session", s.ID, "player", s.Player, "shard", hello.Shard)

	if path := s.statePath(); path != "" {
		if err := s.store.LoadFile(path); err != nil {
			slog.Warn("discarding unreadable runtime state", "session", s.ID, "path", path, "error", err)
		} else if names := s.store.Names(); len(names) > 0 {
			slog.Info("runtime state restored", "session", s.ID, "missions", len(names))
		}
	}

	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{Status: "ok", Session: s.ID})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

func (s *Session) HandleTick(_ context.Context, env ipc.Envelope) (*ipc.Envelope, error) {
	var msg ipc.TickMessage
	if err := env.Decode(&msg); err != nil {
		return nil, err
	}

	plans, ok := s.ProcessTick(msg)
	if !ok {
		return nil, nil
	}
	resp, err := ipc.NewEnvelope(ipc.TypePlans, plans)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Session) HandleReset(_ context.Context, env ipc.Envelope) (*ipc.Envelope, error) {
	var msg ipc.ResetMessage
	if err := env.Decode(&msg); err != nil {
		return nil, err
	}
	if msg.Mission.Name == "" {
		return nil, fmt.Errorf("reset: mission name is required")
	}
	s.governor.Reset(msg.Mission)
	delete(s.prev, msg.Mission.Name)
	slog.Info("mission reset", "session", s.ID, "mission", msg.Mission.Name)

	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{Status: "ok", Session: s.ID})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

// ProcessTick evaluates every governed unit of every mission in msg. It
// returns false when the snapshot is older than the staleness window allows.
func (s *Session) ProcessTick(msg ipc.TickMessage) (ipc.PlansMessage, bool) {
	start := time.Now()
	w := msg.World
	if dropped := w.Normalize(); dropped > 0 {
		slog.Warn("snapshot records dropped", "session", s.ID, "tick", w.Tick, "dropped", dropped)
	}

	if s.stale(w.Tick) {
		observability.RecordStaleTick()
		slog.Warn("dropping stale snapshot", "session", s.ID, "tick", w.Tick, "last", s.lastTick, "maxAge", s.opts.MaxSnapshotAge)
		return ipc.PlansMessage{}, false
	}

	reply := ipc.PlansMessage{Tick: w.Tick, Plans: []ipc.UnitPlan{}, Missions: []ipc.MissionReport{}}
	seen := make(map[string]bool, len(msg.Missions))
	for _, m := range msg.Missions {
		if m.Name == "" || seen[m.Name] {
			slog.Warn("skipping mission without a unique name", "session", s.ID, "mission", m.Name)
			continue
		}
		seen[m.Name] = true
		reply.Plans = append(reply.Plans, s.runMission(&w, m, &reply)...)
	}

	for name := range s.prev {
		if !seen[name] {
			delete(s.prev, name)
			observability.ForgetMission(name)
		}
	}

	s.processed++
	if s.processed%saveEvery == 0 {
		s.save()
	}
	observability.RecordTick(time.Since(start))
	slog.Debug("tick processed", "session", s.ID, "tick", w.Tick, "missions", len(reply.Missions), "plans", len(reply.Plans))
	return reply, true
}

func (s *Session) stale(tick int) bool {
	if !s.seenTick || tick >= s.lastTick {
		s.lastTick, s.seenTick = tick, true
		return false
	}
	return s.lastTick-tick > s.opts.MaxSnapshotAge
}

func (s *Session) runMission(w *model.World, m model.Mission, reply *ipc.PlansMessage) []ipc.UnitPlan {
	status := s.governor.Observe(w, m)

	// Evaluate the leader first so the support reads this tick's phase.
	members := assault.EligibleMembers(w, m)
	slices.SortStableFunc(members, func(a, b model.Unit) int {
		switch {
		case a.ID == status.LeaderID:
			return -1
		case b.ID == status.LeaderID:
			return 1
		}
		return 0
	})

	var plans []ipc.UnitPlan
	for _, u := range members {
		dec, err := s.evaluate(w, m, u.ID)
		if err != nil {
			reason := "panic"
			if errors.Is(err, assault.ErrNoUnit) {
				reason = "no_unit"
			}
			observability.RecordEvalFailure(reason)
			slog.Error("no plan this tick", "session", s.ID, "mission", m.Name, "unit", u.Name, "error", err)
			continue
		}
		observability.RecordTransitions(dec.Fired)
		observability.RecordPlan(string(dec.Role), string(dec.Phase))
		plans = append(plans, ipc.PlanFromDecision(dec))
	}

	phase := s.governor.Phase(m)
	observability.RecordMission(m.Name, status.Threat.Level, status.Members)
	reply.Missions = append(reply.Missions, ipc.MissionReport{MissionStatus: status, Phase: phase})

	cur := takeSnapshot(status, phase)
	var prev *missionSnapshot
	if p, ok := s.prev[m.Name]; ok {
		prev = &p
	}
	for _, e := range detectEvents(m.Name, w.Tick, status, cur, prev) {
		observability.RecordEvent(string(e.Kind))
		slog.Info("mission event", "session", s.ID, "mission", e.Mission, "kind", e.Kind, "tick", e.Tick, "detail", e.Detail)
	}
	s.prev[m.Name] = cur
	return plans
}

// evaluate runs the governor for one unit. A panic is contained to the unit
// and reported as an error.
func (s *Session) evaluate(w *model.World, m model.Mission, unitID string) (dec assault.Decision, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errEvalPanic, r)
		}
	}()
	return s.governor.Evaluate(w, m, unitID)
}

// Close flushes runtime state to disk.
func (s *Session) Close() error {
	return s.save()
}

func (s *Session) save() error {
	path := s.statePath()
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(s.opts.StateDir, 0o755); err != nil {
		slog.Error("failed to create state dir", "session", s.ID, "dir", s.opts.StateDir, "error", err)
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := s.store.SaveFile(path); err != nil {
		slog.Error("failed to save runtime state", "session", s.ID, "path", path, "error", err)
		return err
	}
	return nil
}

func (s *Session) statePath() string {
	if s.opts.StateDir == "" || s.Player == "" {
		return ""
	}
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s.Player)
	return filepath.Join(s.opts.StateDir, name+".json")
}
