// Package scenario loads YAML fixtures of recorded ticks and checks the
// plans produced for them against expectations.
package scenario

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/nstehr/vimy/assault-core/ipc"
	"github.com/nstehr/vimy/assault-core/model"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// ErrEmptyScenario is returned for fixtures without ticks.
var ErrEmptyScenario = errors.New("scenario has no ticks")

const loadConcurrency = 4

type Scenario struct {
	Name     string          `yaml:"name"`
	Path     string          `yaml:"-"`
	Missions []model.Mission `yaml:"missions"`
	Ticks    []Tick          `yaml:"ticks"`
}

// Tick is one recorded snapshot. Missions, when present, replaces the
// scenario-level mission list for this tick only.
type Tick struct {
	World    model.World     `yaml:"world"`
	Missions []model.Mission `yaml:"missions,omitempty"`
	Expect   []Expect        `yaml:"expect,omitempty"`
	Threat   map[string]int  `yaml:"threat,omitempty"`
}

// Expect describes what one unit's plan must look like. Unset fields are
// not checked. Target "-" means no target.
type Expect struct {
	Mission string      `yaml:"mission"`
	Unit    string      `yaml:"unit"`
	Phase   model.Phase `yaml:"phase,omitempty"`
	Role    string      `yaml:"role,omitempty"`
	Target  string      `yaml:"target,omitempty"`
	Actions []string    `yaml:"actions,omitempty"`
}

// Load decodes a scenario file strictly and normalizes every world.
func Load(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scenario %s: %w", path, err)
	}
	if len(s.Ticks) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyScenario)
	}

	s.Path = path
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	for i := range s.Ticks {
		if n := s.Ticks[i].World.Normalize(); n > 0 {
			slog.Warn("scenario records dropped", "scenario", s.Name, "tick", s.Ticks[i].World.Tick, "dropped", n)
		}
	}
	return &s, nil
}

// LoadAll loads every path concurrently. Results keep the order of paths;
// the first failure cancels the rest.
func LoadAll(ctx context.Context, paths []string) ([]*Scenario, error) {
	out := make([]*Scenario, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)

	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := Load(p)
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Message builds the tick message the mod would have sent.
func (s *Scenario) Message(i int) ipc.TickMessage {
	t := s.Ticks[i]
	missions := s.Missions
	if len(t.Missions) > 0 {
		missions = t.Missions
	}
	return ipc.TickMessage{World: t.World, Missions: missions}
}

// Check compares a plans reply against the tick's expectations and returns
// one line per mismatch.
func (t Tick) Check(plans ipc.PlansMessage) []string {
	var mismatches []string
	for _, e := range t.Expect {
		i := slices.IndexFunc(plans.Plans, func(p ipc.UnitPlan) bool {
			return p.UnitID == e.Unit && (e.Mission == "" || p.Mission == e.Mission)
		})
		if i < 0 {
			mismatches = append(mismatches, fmt.Sprintf("%s/%s: no plan", e.Mission, e.Unit))
			continue
		}
		mismatches = append(mismatches, e.check(plans.Plans[i])...)
	}

	for mission, want := range t.Threat {
		i := slices.IndexFunc(plans.Missions, func(r ipc.MissionReport) bool { return r.Mission == mission })
		switch {
		case i < 0:
			mismatches = append(mismatches, fmt.Sprintf("%s: no mission report", mission))
		case plans.Missions[i].Threat.Level != want:
			mismatches = append(mismatches, fmt.Sprintf("%s: threat level %d, want %d", mission, plans.Missions[i].Threat.Level, want))
		}
	}
	slices.Sort(mismatches)
	return mismatches
}

func (e Expect) check(p ipc.UnitPlan) []string {
	var out []string
	prefix := p.Mission + "/" + p.UnitID
	if e.Phase != "" && p.Phase != e.Phase {
		out = append(out, fmt.Sprintf("%s: phase %s, want %s", prefix, p.Phase, e.Phase))
	}
	if e.Role != "" && string(p.Role) != e.Role {
		out = append(out, fmt.Sprintf("%s: role %s, want %s", prefix, p.Role, e.Role))
	}
	switch {
	case e.Target == "-" && p.Target != nil:
		out = append(out, fmt.Sprintf("%s: target %s, want none", prefix, p.Target.ID))
	case e.Target != "" && e.Target != "-" && (p.Target == nil || p.Target.ID != e.Target):
		got := "none"
		if p.Target != nil {
			got = p.Target.ID
		}
		out = append(out, fmt.Sprintf("%s: target %s, want %s", prefix, got, e.Target))
	}
	if e.Actions != nil {
		var got []string
		for _, a := range p.Plan.Actions {
			got = append(got, a.Action)
		}
		if !slices.Equal(got, e.Actions) {
			out = append(out, fmt.Sprintf("%s: actions %v, want %v", prefix, got, e.Actions))
		}
	}
	return out
}
