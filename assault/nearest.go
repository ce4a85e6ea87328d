package assault

import "github.com/nstehr/vimy/assault-core/model"

// located is a generic constraint for any model type with a map position.
type located interface {
	Location() model.Position
}

// nearest returns the item closest to from, skipping items in other rooms.
// Ties keep the earliest item so results follow snapshot order.
func nearest[T located](items []T, from model.Position) (T, bool) {
	var best T
	bestRange := model.Unreachable
	found := false
	for _, item := range items {
		r := from.RangeTo(item.Location())
		if r == model.Unreachable {
			continue
		}
		if !found || r < bestRange {
			best, bestRange, found = item, r, true
		}
	}
	return best, found
}

// filter keeps the items keep accepts.
func filter[T any](items []T, keep func(T) bool) []T {
	var out []T
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
