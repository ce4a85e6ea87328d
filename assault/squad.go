package assault

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/nstehr/vimy/assault-core/model"
	"github.com/nstehr/vimy/assault-core/store"
)

// Role is a unit's position in its squad.
type Role string

const (
	RoleLeader  Role = "leader"
	RoleSupport Role = "support"
)

// EligibleMembers returns the owned assault units that belong to mission m,
// sorted by name so every caller sees the same order regardless of spawn
// time or id.
func EligibleMembers(w *model.World, m model.Mission) []model.Unit {
	if w == nil {
		return nil
	}
	key := m.Data.SquadKey
	var out []model.Unit
	for _, u := range w.Units {
		if u.Memory.Role != model.RoleAssault {
			continue
		}
		switch {
		case u.Memory.MissionName == m.Name:
		case key != "" && strings.Contains(u.Memory.MissionName, key):
		case key != "" && u.Memory.AssaultSquad == key:
		default:
			continue
		}
		out = append(out, u)
	}
	slices.SortStableFunc(out, func(a, b model.Unit) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// AssignSquad resolves the live leader and support for mission m and writes
// the chosen ids into sq. Persisted ids are reused while they still point at
// eligible units. A live leader is always kept and only the support slot
// refilled. When the leader is lost inside the lock window a live support
// is promoted; otherwise members are re-picked by name order.
// Either return value may be nil.
func AssignSquad(w *model.World, m model.Mission, sq *store.Squad, tick, lockTicks int) (leader, support *model.Unit) {
	members := EligibleMembers(w, m)
	find := func(id string) *model.Unit {
		if id == "" {
			return nil
		}
		for i := range members {
			if members[i].ID == id {
				return &members[i]
			}
		}
		return nil
	}

	leader = find(sq.LeaderID)
	support = find(sq.SupportID)
	if support != nil && leader != nil && support.ID == leader.ID {
		support = nil
	}

	stable := leader != nil && (support != nil || (sq.SupportID == "" && len(members) == 1))
	if stable {
		return leader, support
	}

	prev := *sq
	if leader == nil && support != nil && tick < sq.LockUntil {
		leader, support = support, nil
	}
	if leader != nil {
		support = nil
		for i := range members {
			if members[i].ID != leader.ID {
				support = &members[i]
				break
			}
		}
	} else {
		leader, support = nil, nil
		if len(members) > 0 {
			leader = &members[0]
		}
		if len(members) > 1 {
			support = &members[1]
		}
		if leader != nil {
			sq.LockUntil = tick + lockTicks
		}
	}

	sq.LeaderID, sq.SupportID = unitID(leader), unitID(support)
	if sq.LeaderID != prev.LeaderID || sq.SupportID != prev.SupportID {
		slog.Debug("squad assigned", "mission", m.Name, "leader", sq.LeaderID, "support", sq.SupportID, "members", len(members))
	}
	return leader, support
}

// ResolveRole decides which role unitID plays. A mission-level override wins,
// then an id match, and a unit the squad state does not know is treated as
// leader.
func ResolveRole(m model.Mission, sq store.Squad, unitID string) Role {
	switch Role(m.Data.AssaultRole) {
	case RoleLeader, RoleSupport:
		return Role(m.Data.AssaultRole)
	}
	switch {
	case unitID != "" && unitID == sq.LeaderID:
		return RoleLeader
	case unitID != "" && unitID == sq.SupportID:
		return RoleSupport
	}
	return RoleLeader
}

func unitID(u *model.Unit) string {
	if u == nil {
		return ""
	}
	return u.ID
}
