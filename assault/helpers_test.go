package assault

import "github.com/nstehr/vimy/assault-core/model"

const testRoom = "W1N1"

func at(x, y int) model.Position {
	return model.Position{X: x, Y: y, Room: testRoom}
}

func ptr(p model.Position) *model.Position { return &p }

func body(parts ...string) []model.BodyPart {
	out := make([]model.BodyPart, len(parts))
	for i, p := range parts {
		out[i] = model.BodyPart{Type: p, Hits: 100}
	}
	return out
}

// member builds a full-health assault unit attached to mission.
func member(id, name, mission string, pos model.Position, parts ...string) model.Unit {
	return model.Unit{
		ID:      id,
		Name:    name,
		Pos:     pos,
		RawPos:  pos.Raw(),
		Hits:    100,
		HitsMax: 100,
		Body:    body(parts...),
		Memory:  model.UnitMemory{Role: model.RoleAssault, MissionName: mission},
	}
}

func hostile(id string, pos model.Position, parts ...string) model.Unit {
	return model.Unit{ID: id, Name: id, Owner: "enemy", Pos: pos, RawPos: pos.Raw(), Hits: 100, HitsMax: 100, Body: body(parts...)}
}

func structure(id, typ string, pos model.Position, owner string) model.Structure {
	return model.Structure{ID: id, Type: typ, Owner: owner, Pos: pos, RawPos: pos.Raw(), Hits: 1000}
}
