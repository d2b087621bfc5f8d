package reservation

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
)

const DateLayout = "2006-01-02"

// SetID is the stable identity of a notification set. Config files carry it
// as a number or a string; both normalise to the same text.
type SetID string

// NotificationSet is one watched stay. It is immutable for a cycle.
type NotificationSet struct {
	ID           SetID  `validate:"required"`
	Name         string `validate:"required"`
	StartDate    string `validate:"required,datetime=2006-01-02"`
	Nights       int    `validate:"min=1"`
	Adults       int    `validate:"min=0"`
	Children     int    `validate:"min=0"`
	Preschoolers int    `validate:"min=0"`
	AutoReserve  bool
}

var validate = validator.New()

func (s NotificationSet) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("notification set %q: %w", s.ID, err)
	}
	return nil
}

// Start returns the first night as a UTC midnight.
func (s NotificationSet) Start() (time.Time, error) {
	t, err := time.Parse(DateLayout, s.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("notification set %q: invalid start_date: %w", s.ID, err)
	}
	return t, nil
}

// Nightly returns the dates of every night in [start, start+nights).
func (s NotificationSet) Nightly() ([]time.Time, error) {
	start, err := s.Start()
	if err != nil {
		return nil, err
	}
	n := s.Nights
	if n < 1 {
		n = 1
	}
	out := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, start.AddDate(0, 0, i))
	}
	return out, nil
}

type YearMonth struct {
	Year  int
	Month time.Month
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

func (ym YearMonth) Before(o YearMonth) bool {
	if ym.Year != o.Year {
		return ym.Year < o.Year
	}
	return ym.Month < o.Month
}

// Days returns every date of the month.
func (ym YearMonth) Days() []time.Time {
	first := time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
	var out []time.Time
	for d := first; d.Month() == ym.Month; d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// TargetMonths is the sorted union of months touched by any set's nights.
// Sets whose start date does not parse are ignored.
func TargetMonths(sets []NotificationSet) []YearMonth {
	seen := map[YearMonth]struct{}{}
	for _, s := range sets {
		nights, err := s.Nightly()
		if err != nil {
			continue
		}
		for _, d := range nights {
			seen[YearMonth{Year: d.Year(), Month: d.Month()}] = struct{}{}
		}
	}
	out := make([]YearMonth, 0, len(seen))
	for ym := range seen {
		out = append(out, ym)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
