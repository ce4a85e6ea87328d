package assault

import (
	"testing"

	"github.com/nstehr/vimy/assault-core/model"
	"github.com/nstehr/vimy/assault-core/store"
)

func squadWorld(units ...model.Unit) *model.World {
	return &model.World{Units: units}
}

func TestEligibleMembers(t *testing.T) {
	m := model.Mission{Name: "strike", Data: model.MissionData{SquadKey: "sq7"}}

	byName := member("1", "Delta", "strike", at(1, 1))
	byKey := member("2", "Charlie", "strike-sq7-b", at(1, 1))
	bySquad := member("3", "Bravo", "other", at(1, 1))
	bySquad.Memory.AssaultSquad = "sq7"
	wrongRole := member("4", "Alpha", "strike", at(1, 1))
	wrongRole.Memory.Role = "harvester"
	stranger := member("5", "Echo", "elsewhere", at(1, 1))

	got := EligibleMembers(squadWorld(byName, byKey, bySquad, wrongRole, stranger), m)
	var names []string
	for _, u := range got {
		names = append(names, u.Name)
	}
	want := []string{"Bravo", "Charlie", "Delta"}
	if len(names) != len(want) {
		t.Fatalf("members = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("members[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestAssignSquadSortsByName(t *testing.T) {
	m := model.Mission{Name: "m"}
	w := squadWorld(member("b", "Bravo", "m", at(1, 1)), member("a", "Alpha", "m", at(2, 2)))

	var sq store.Squad
	leader, support := AssignSquad(w, m, &sq, 10, 50)
	if leader == nil || leader.Name != "Alpha" {
		t.Fatalf("leader = %v, want Alpha", leader)
	}
	if support == nil || support.Name != "Bravo" {
		t.Fatalf("support = %v, want Bravo", support)
	}
	if sq.LeaderID != "a" || sq.SupportID != "b" || sq.LockUntil != 60 {
		t.Errorf("squad = %+v, want a/b locked until 60", sq)
	}

	// Idempotent within a tick and across ticks while both live.
	before := sq
	AssignSquad(w, m, &sq, 11, 50)
	if sq != before {
		t.Errorf("squad changed on repeat: %+v -> %+v", before, sq)
	}
}

func TestAssignSquadChurn(t *testing.T) {
	m := model.Mission{Name: "m"}
	alpha := member("a", "Alpha", "m", at(1, 1))
	bravo := member("b", "Bravo", "m", at(1, 1))
	charlie := member("c", "Charlie", "m", at(1, 1))

	tests := []struct {
		name        string
		squad       store.Squad
		units       []model.Unit
		tick        int
		wantLeader  string
		wantSupport string
	}{
		{
			name:        "locked keeps leader and refills support",
			squad:       store.Squad{LeaderID: "c", SupportID: "b", LockUntil: 100},
			units:       []model.Unit{alpha, charlie},
			tick:        50,
			wantLeader:  "c",
			wantSupport: "a",
		},
		{
			name:        "unlocked keeps live leader on support loss",
			squad:       store.Squad{LeaderID: "c", SupportID: "b", LockUntil: 10},
			units:       []model.Unit{alpha, charlie},
			tick:        50,
			wantLeader:  "c",
			wantSupport: "a",
		},
		{
			name:        "live leader kept when a new member joins",
			squad:       store.Squad{LeaderID: "b", SupportID: "c", LockUntil: 10},
			units:       []model.Unit{alpha, bravo},
			tick:        100,
			wantLeader:  "b",
			wantSupport: "a",
		},
		{
			name:        "leader loss while locked promotes support",
			squad:       store.Squad{LeaderID: "a", SupportID: "c", LockUntil: 100},
			units:       []model.Unit{bravo, charlie},
			tick:        50,
			wantLeader:  "c",
			wantSupport: "b",
		},
		{
			name:        "leader loss after lock re-sorts",
			squad:       store.Squad{LeaderID: "a", SupportID: "c", LockUntil: 10},
			units:       []model.Unit{bravo, charlie},
			tick:        50,
			wantLeader:  "b",
			wantSupport: "c",
		},
		{
			name:        "single survivor leads",
			squad:       store.Squad{LeaderID: "a", SupportID: "b"},
			units:       []model.Unit{bravo},
			tick:        50,
			wantLeader:  "b",
			wantSupport: "",
		},
		{
			name:        "no members clears ids",
			squad:       store.Squad{LeaderID: "a", SupportID: "b"},
			tick:        50,
			wantLeader:  "",
			wantSupport: "",
		},
		{
			name:        "same id in both slots",
			squad:       store.Squad{LeaderID: "a", SupportID: "a"},
			units:       []model.Unit{alpha, bravo},
			tick:        50,
			wantLeader:  "a",
			wantSupport: "b",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sq := tc.squad
			leader, support := AssignSquad(squadWorld(tc.units...), m, &sq, tc.tick, 50)
			if unitID(leader) != tc.wantLeader || unitID(support) != tc.wantSupport {
				t.Errorf("got %q/%q, want %q/%q", unitID(leader), unitID(support), tc.wantLeader, tc.wantSupport)
			}
			if sq.LeaderID != tc.wantLeader || sq.SupportID != tc.wantSupport {
				t.Errorf("persisted %+v, want %q/%q", sq, tc.wantLeader, tc.wantSupport)
			}
		})
	}
}

func TestAssignSquadSingleMemberStable(t *testing.T) {
	m := model.Mission{Name: "m"}
	w := squadWorld(member("a", "Alpha", "m", at(1, 1)))
	var sq store.Squad
	AssignSquad(w, m, &sq, 0, 50)
	lock := sq.LockUntil
	AssignSquad(w, m, &sq, 200, 50)
	if sq.LockUntil != lock {
		t.Errorf("lone leader was reassigned: lockUntil %d -> %d", lock, sq.LockUntil)
	}
}

func TestResolveRole(t *testing.T) {
	sq := store.Squad{LeaderID: "a", SupportID: "b"}
	tests := []struct {
		override string
		unit     string
		want     Role
	}{
		{"", "a", RoleLeader},
		{"", "b", RoleSupport},
		{"", "z", RoleLeader},
		{"support", "a", RoleSupport},
		{"leader", "b", RoleLeader},
		{"medic", "b", RoleSupport},
	}
	for _, tc := range tests {
		m := model.Mission{Name: "m", Data: model.MissionData{AssaultRole: tc.override}}
		if got := ResolveRole(m, sq, tc.unit); got != tc.want {
			t.Errorf("ResolveRole(override=%q, %q) = %s, want %s", tc.override, tc.unit, got, tc.want)
		}
	}
}
