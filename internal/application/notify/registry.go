package notify

import (
	"sort"

	"github.com/example/fumoto-monitor/internal/domain/reservation"
)

// Registry is the set of ids that were eligible, and therefore already
// announced, at the end of the previous cycle.
type Registry struct {
	ids map[reservation.SetID]struct{}
}

func NewRegistry(seed ...reservation.SetID) *Registry {
	r := &Registry{ids: make(map[reservation.SetID]struct{}, len(seed))}
	for _, id := range seed {
		r.ids[id] = struct{}{}
	}
	return r
}

func (r *Registry) Contains(id reservation.SetID) bool {
	_, ok := r.ids[id]
	return ok
}

// IDs returns the members in ascending order.
func (r *Registry) IDs() []reservation.SetID {
	out := make([]reservation.SetID, 0, len(r.ids))
	for id := range r.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *Registry) Len() int { return len(r.ids) }

func (r *Registry) replace(eligible map[reservation.SetID]bool) {
	next := make(map[reservation.SetID]struct{}, len(eligible))
	for id, ok := range eligible {
		if ok {
			next[id] = struct{}{}
		}
	}
	r.ids = next
}
