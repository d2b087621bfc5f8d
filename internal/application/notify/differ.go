package notify

import (
	"strings"

	"github.com/example/fumoto-monitor/internal/domain/availability"
	"github.com/example/fumoto-monitor/internal/domain/reservation"
)

type Kind int

const (
	NewlyAvailable Kind = iota
	AutoReserveStart
)

type Entry struct {
	Kind    Kind
	Set     reservation.NotificationSet
	Details []string
}

// Decision is what one cycle should announce and book. Nothing in it has
// been applied to the registry yet.
type Decision struct {
	Entries     []Entry
	AutoReserve *reservation.NotificationSet
	Eligible    map[reservation.SetID]bool
}

func (d Decision) Messages() []string {
	out := make([]string, 0, len(d.Entries))
	for _, e := range d.Entries {
		out = append(out, e.Message())
	}
	return out
}

// Body joins every message of the cycle into one push with the reservation
// link as footer. It is empty when there is nothing to say.
func (d Decision) Body(reserveURL string) string {
	msgs := d.Messages()
	if len(msgs) == 0 {
		return ""
	}
	return strings.Join(msgs, "\n\n") + "\n\n予約はこちら:\n" + reserveURL
}

func (e Entry) Message() string {
	head := "【空きが出ました！】"
	if e.Kind == AutoReserveStart {
		head = "【空き発見！自動予約を開始します】"
	}
	return head + "\nセット: " + e.Set.Name + "\n" + strings.Join(e.Details, "\n")
}

// Differ suppresses repeat announcements across cycles. The auto-reserve
// target is announced every cycle it stays eligible, because the booking is
// attempted again every cycle.
type Differ struct {
	Registry *Registry
}

func NewDiffer(r *Registry) *Differ {
	if r == nil {
		r = NewRegistry()
	}
	return &Differ{Registry: r}
}

// Diff expects results in the same order as sets.
func (d *Differ) Diff(sets []reservation.NotificationSet, results []availability.Result) Decision {
	dec := Decision{Eligible: make(map[reservation.SetID]bool, len(results))}
	details := make(map[reservation.SetID][]string, len(results))
	for _, r := range results {
		if r.Eligible {
			dec.Eligible[r.SetID] = true
			details[r.SetID] = r.Details
		}
	}

	target, ok := reservation.ChooseAutoReserveTarget(sets, dec.Eligible)
	if ok {
		dec.AutoReserve = &target
	}
	for _, s := range sets {
		if !dec.Eligible[s.ID] {
			continue
		}
		switch {
		case ok && s.ID == target.ID:
			dec.Entries = append(dec.Entries, Entry{Kind: AutoReserveStart, Set: s, Details: details[s.ID]})
		case !d.Registry.Contains(s.ID):
			dec.Entries = append(dec.Entries, Entry{Kind: NewlyAvailable, Set: s, Details: details[s.ID]})
		}
	}
	return dec
}

// Commit makes the decision's eligible ids the new registry contents.
func (d *Differ) Commit(dec Decision) {
	d.Registry.replace(dec.Eligible)
}
