package availability

import (
	"fmt"

	"github.com/example/fumoto-monitor/internal/domain/reservation"
)

var weekdays = [...]string{"日", "月", "火", "水", "木", "金", "土"}

// UnknownText is shown in detail lines for dates missing from the map.
const UnknownText = "不明"

type Result struct {
	SetID    reservation.SetID
	Eligible bool
	Details  []string
}

// Evaluate checks every night of the set against m. It has no side effects.
func Evaluate(set reservation.NotificationSet, m Map) Result {
	res := Result{SetID: set.ID}
	nights, err := set.Nightly()
	if err != nil {
		return res
	}
	eligible := true
	for _, d := range nights {
		key := d.Format(reservation.DateLayout)
		raw := UnknownText
		st, ok := m[key]
		if ok {
			raw = st.Raw
		}
		if !ok || !st.Bookable() {
			eligible = false
		}
		res.Details = append(res.Details, fmt.Sprintf("%s(%s): %s", key, weekdays[d.Weekday()], raw))
	}
	res.Eligible = eligible
	return res
}

// EvaluateAll keeps configuration order.
func EvaluateAll(sets []reservation.NotificationSet, m Map) []Result {
	out := make([]Result, 0, len(sets))
	for _, s := range sets {
		out = append(out, Evaluate(s, m))
	}
	return out
}
