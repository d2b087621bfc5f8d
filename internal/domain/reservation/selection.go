package reservation

import "time"

// ChooseAutoReserveTarget returns the first set, in configuration order, that
// is both eligible and flagged for auto-reservation. At most one set is booked
// per cycle.
func ChooseAutoReserveTarget(sets []NotificationSet, eligible map[SetID]bool) (NotificationSet, bool) {
	for _, s := range sets {
		if s.AutoReserve && eligible[s.ID] {
			return s, true
		}
	}
	return NotificationSet{}, false
}

// DaysUntil counts calendar days from today's date to the set's first night.
// The result is negative for stays that already started.
func DaysUntil(s NotificationSet, now time.Time) (int, error) {
	start, err := s.Start()
	if err != nil {
		return 0, err
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(start.Sub(today).Hours() / 24), nil
}
