package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"sync"
)

// DefaultNamespace is the root key runtime entries live under.
const DefaultNamespace = "assault"

// ErrUnknownMission is returned by Snapshot for names with no entry.
var ErrUnknownMission = errors.New("unknown mission")

// Store keeps one runtime record per mission name under a namespaced root.
// Entries are handed out by pointer; callers mutate them in place and never
// write them back.
type Store struct {
	mu        sync.Mutex
	namespace string
	memory    map[string]any
}

func New(namespace string) *Store {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Store{
		namespace: namespace,
		memory:    map[string]any{namespace: make(map[string]any)},
	}
}

func (s *Store) Namespace() string { return s.namespace }

// root must be called with mu held.
func (s *Store) root() map[string]any {
	if v, ok := s.memory[s.namespace].(map[string]any); ok {
		return v
	}
	r := make(map[string]any)
	s.memory[s.namespace] = r
	return r
}

// Runtime returns the legacy entry for name, creating it on first access.
func (s *Store) Runtime(name string) *Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	root := s.root()
	existing, present := root[name]
	if e, ok := existing.(*Entry); ok && e.valid() {
		return e
	}
	if present {
		slog.Warn("replacing invalid runtime entry", "mission", name)
	}
	e := newEntry()
	root[name] = e
	slog.Debug("runtime entry initialized", "mission", name, "schema", "legacy")
	return e
}

// ResetRuntime overwrites the legacy entry for name with a fresh default.
func (s *Store) ResetRuntime(name string) *Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := newEntry()
	s.root()[name] = e
	slog.Info("runtime entry reset", "mission", name, "schema", "legacy")
	return e
}

// DuoRuntime returns the duo entry for name. A missing record, or one that
// fails the version/structure check, is replaced with the default schema.
func (s *Store) DuoRuntime(name string) *DuoEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	root := s.root()
	existing, present := root[name]
	if d, ok := existing.(*DuoEntry); ok && d.valid() {
		return d
	}
	if present {
		slog.Warn("replacing invalid duo runtime entry", "mission", name)
	}
	d := newDuoEntry()
	root[name] = d
	return d
}

// ResetDuoRuntime overwrites the duo entry for name with a fresh default.
func (s *Store) ResetDuoRuntime(name string) *DuoEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := newDuoEntry()
	s.root()[name] = d
	slog.Info("runtime entry reset", "mission", name, "schema", "duo")
	return d
}

// Delete drops the record for a finished mission.
func (s *Store) Delete(name string) {
	s.mu.Lock()
	delete(s.root(), name)
	s.mu.Unlock()
}

// Names lists the missions that currently have a record, sorted.
func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.root()))
}

// Snapshot returns a copy of the debug field of the named record.
func (s *Store) Snapshot(name string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var debug map[string]any
	switch e := s.root()[name].(type) {
	case *Entry:
		debug = e.Debug
	case *DuoEntry:
		debug = e.Debug
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMission, name)
	}
	return maps.Clone(debug), nil
}

// MarshalJSON writes the namespace root so it can survive a sidecar restart.
func (s *Store) MarshalJSON() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Marshal(s.root())
}

// Restore loads records written by MarshalJSON. Records carrying any duo
// field are decoded as DuoEntry. Records that fail validation are dropped
// so the next access starts from the default schema.
func (s *Store) Restore(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode runtime root: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	root := s.root()
	for name, rec := range raw {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(rec, &probe); err != nil {
			return fmt.Errorf("decode runtime entry %q: %w", name, err)
		}
		if isDuoRecord(probe) {
			var d DuoEntry
			if err := json.Unmarshal(rec, &d); err != nil {
				return fmt.Errorf("decode duo entry %q: %w", name, err)
			}
			if !d.valid() {
				slog.Warn("dropping invalid duo runtime entry", "mission", name)
				delete(root, name)
				continue
			}
			if d.Debug == nil {
				d.Debug = make(map[string]any)
			}
			root[name] = &d
			continue
		}
		var e Entry
		if err := json.Unmarshal(rec, &e); err != nil {
			return fmt.Errorf("decode entry %q: %w", name, err)
		}
		if !e.valid() {
			slog.Warn("dropping invalid runtime entry", "mission", name)
			delete(root, name)
			continue
		}
		if e.Debug == nil {
			e.Debug = make(map[string]any)
		}
		root[name] = &e
	}
	return nil
}

func isDuoRecord(probe map[string]json.RawMessage) bool {
	for _, k := range []string{"version", "assembled", "route", "spawn", "wipe", "formation"} {
		if _, ok := probe[k]; ok {
			return true
		}
	}
	return false
}

// SaveFile writes the store to path.
func (s *Store) SaveFile(path string) error {
	data, err := s.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode runtime root: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write runtime state %s: %w", path, err)
	}
	return nil
}

// LoadFile restores from path. A missing file is not an error.
func (s *Store) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read runtime state %s: %w", path, err)
	}
	return s.Restore(data)
}
