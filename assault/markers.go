package assault

import (
	"log/slog"

	"github.com/nstehr/vimy/assault-core/model"
)

// MarkerResolver maps operator-placed markers to positions. Both methods
// return nil when nothing usable exists.
type MarkerResolver interface {
	Marker(name string) *model.Position
	Anchor(room string) *model.Position
}

// WorldMarkers resolves markers from the tick's world snapshot. Malformed
// records are logged and treated as absent.
type WorldMarkers struct {
	World *model.World
}

func (r WorldMarkers) Marker(name string) *model.Position {
	if r.World == nil {
		return nil
	}
	pos, err := r.World.Flag(name)
	if err != nil {
		slog.Warn("ignoring malformed marker", "marker", name, "error", err)
		return nil
	}
	return pos
}

func (r WorldMarkers) Anchor(room string) *model.Position {
	if r.World == nil {
		return nil
	}
	pos, err := r.World.Anchor(room)
	if err != nil {
		slog.Warn("ignoring malformed anchor", "room", room, "error", err)
		return nil
	}
	return pos
}

// FlagPositions are a mission's markers resolved for one tick.
type FlagPositions struct {
	Wait      *model.Position  `json:"waitPos"`
	Attack    *model.Position  `json:"attackPos"`
	Assembly  *model.Position  `json:"assemblyPos"`
	Waypoints []model.Position `json:"waypointPositions"`
	Anchor    *model.Position  `json:"anchorPos"`
}

// AreaOfOperation describes where the objective lies.
type AreaOfOperation struct {
	TargetRoom string          `json:"targetRoom"`
	Center     *model.Position `json:"centerPos"`
	Radius     int             `json:"radius"`
}

// ResolveFlags resolves every marker a mission names. Missing waypoints are
// skipped so the route still ends at the ones that exist.
func ResolveFlags(r MarkerResolver, m model.Mission) FlagPositions {
	refs := m.Data.Flags
	fp := FlagPositions{
		Wait:     r.Marker(refs.Wait),
		Attack:   r.Marker(refs.Attack),
		Assembly: r.Marker(refs.Assembly),
		Anchor:   r.Anchor(m.HomeRoom()),
	}
	for _, name := range refs.Waypoints {
		pos := r.Marker(name)
		if pos == nil {
			slog.Debug("waypoint marker missing", "mission", m.Name, "marker", name)
			continue
		}
		fp.Waypoints = append(fp.Waypoints, *pos)
	}
	return fp
}

// ResolveArea builds the AO from mission hints. The target room falls back
// to the attack marker's room; the center falls back to the room center of
// the target room. Radius defaults to 0.
func ResolveArea(m model.Mission, flags FlagPositions) AreaOfOperation {
	ao := AreaOfOperation{TargetRoom: m.Data.AO.TargetRoom}
	if ao.TargetRoom == "" && flags.Attack != nil {
		ao.TargetRoom = flags.Attack.Room
	}
	if m.Data.AO.Radius != nil {
		ao.Radius = max(*m.Data.AO.Radius, 0)
	}

	if raw := m.Data.AO.CenterPos; raw != nil {
		pos, err := model.ParsePosition(*raw)
		if err == nil {
			ao.Center = &pos
			if ao.TargetRoom == "" {
				ao.TargetRoom = pos.Room
			}
			return ao
		}
		slog.Warn("ignoring malformed AO center", "mission", m.Name, "error", err)
	}
	if ao.TargetRoom != "" {
		c := model.RoomCenter(ao.TargetRoom)
		ao.Center = &c
	}
	return ao
}
