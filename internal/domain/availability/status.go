// Package availability turns calendar cell text into statuses and decides
// whether a notification set can be booked.
package availability

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/example/fumoto-monitor/internal/domain/reservation"
	"github.com/example/fumoto-monitor/internal/domain/site"
)

type Mark int

const (
	Unknown Mark = iota
	Open
	Limited
	Closed
)

func (m Mark) String() string {
	switch m {
	case Open:
		return "open"
	case Limited:
		return "limited"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// DateStatus is one calendar cell. Remaining is only meaningful for Limited
// and is always at least 1 there.
type DateStatus struct {
	Mark      Mark
	Remaining int
	Raw       string
}

func (d DateStatus) Bookable() bool {
	return d.Mark == Open || d.Mark == Limited
}

// ParseStatus classifies the text of a lodging cell.
func ParseStatus(raw string, l site.Layout) DateStatus {
	text := strings.TrimSpace(raw)
	for _, g := range l.OpenGlyphs {
		if strings.Contains(text, g) {
			return DateStatus{Mark: Open, Raw: text}
		}
	}
	if l.LimitedGlyph != "" && strings.Contains(text, l.LimitedGlyph) {
		return DateStatus{Mark: Limited, Remaining: remaining(text, l.RemainingLabel), Raw: text}
	}
	return DateStatus{Mark: Closed, Raw: text}
}

// remainingPatterns caches one compiled pattern per remaining-count label.
var remainingPatterns sync.Map

func remainingPattern(label string) *regexp.Regexp {
	if re, ok := remainingPatterns.Load(label); ok {
		return re.(*regexp.Regexp)
	}
	re, _ := remainingPatterns.LoadOrStore(label, regexp.MustCompile(regexp.QuoteMeta(label)+`\s*(\d+)`))
	return re.(*regexp.Regexp)
}

func remaining(text, label string) int {
	if label == "" {
		return 1
	}
	m := remainingPattern(label).FindStringSubmatch(text)
	if m == nil {
		return 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Map is keyed by ISO date (YYYY-MM-DD).
type Map map[string]DateStatus

// MarkUnknown records every date of ym that is still absent as Unknown.
func (m Map) MarkUnknown(ym reservation.YearMonth, text string) {
	for _, d := range ym.Days() {
		k := d.Format(reservation.DateLayout)
		if _, ok := m[k]; ok {
			continue
		}
		m[k] = DateStatus{Mark: Unknown, Raw: text}
	}
}

func (m Map) Merge(other map[string]DateStatus) {
	for k, v := range other {
		m[k] = v
	}
}

// Dates returns the keys in ascending order.
func (m Map) Dates() []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
