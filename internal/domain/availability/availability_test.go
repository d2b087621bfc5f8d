package availability

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/fumoto-monitor/internal/domain/reservation"
	"github.com/example/fumoto-monitor/internal/domain/site"
)

func TestParseStatus(t *testing.T) {
	l := site.Fumotoppara()
	cases := []struct {
		raw  string
		want DateStatus
	}{
		{"〇", DateStatus{Mark: Open, Raw: "〇"}},
		{" ○ ", DateStatus{Mark: Open, Raw: "○"}},
		{"△残3", DateStatus{Mark: Limited, Remaining: 3, Raw: "△残3"}},
		{"△残 12", DateStatus{Mark: Limited, Remaining: 12, Raw: "△残 12"}},
		{"△", DateStatus{Mark: Limited, Remaining: 1, Raw: "△"}},
		{"×", DateStatus{Mark: Closed, Raw: "×"}},
		{"", DateStatus{Mark: Closed, Raw: ""}},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseStatus(tc.raw, l))
		})
	}
}

func TestEvaluateLimitedSingleNight(t *testing.T) {
	set := reservation.NotificationSet{ID: "1", Name: "test", StartDate: "2025-03-27", Nights: 1, Adults: 2}
	m := Map{"2025-03-27": ParseStatus("△残2", site.Fumotoppara())}

	got := Evaluate(set, m)
	want := Result{SetID: "1", Eligible: true, Details: []string{"2025-03-27(木): △残2"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluateAnyClosedNightIsIneligible(t *testing.T) {
	set := reservation.NotificationSet{ID: "2", StartDate: "2025-03-28", Nights: 2}
	m := Map{
		"2025-03-28": {Mark: Open, Raw: "〇"},
		"2025-03-29": {Mark: Closed, Raw: "×"},
	}
	got := Evaluate(set, m)
	assert.False(t, got.Eligible)
	assert.Equal(t, []string{"2025-03-28(金): 〇", "2025-03-29(土): ×"}, got.Details)
}

func TestEvaluateAbsentAndUnknownAreIneligible(t *testing.T) {
	set := reservation.NotificationSet{ID: "3", StartDate: "2025-04-01", Nights: 2}

	got := Evaluate(set, Map{"2025-04-01": {Mark: Open, Raw: "〇"}})
	assert.False(t, got.Eligible)
	assert.Equal(t, "2025-04-02(水): 不明", got.Details[1])

	m := Map{}
	m.MarkUnknown(reservation.YearMonth{Year: 2025, Month: time.April}, UnknownText)
	got = Evaluate(set, m)
	assert.False(t, got.Eligible)
	assert.Equal(t, []string{"2025-04-01(火): 不明", "2025-04-02(水): 不明"}, got.Details)
}

func TestEvaluateIsPure(t *testing.T) {
	set := reservation.NotificationSet{ID: "4", StartDate: "2025-03-27", Nights: 3}
	m := Map{
		"2025-03-27": {Mark: Open, Raw: "〇"},
		"2025-03-28": {Mark: Limited, Remaining: 1, Raw: "△"},
		"2025-03-29": {Mark: Open, Raw: "〇"},
	}
	before := len(m)
	first := Evaluate(set, m)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, Evaluate(set, m))
	}
	assert.True(t, first.Eligible)
	assert.Len(t, m, before)
}

func TestMarkUnknownKeepsExtractedDates(t *testing.T) {
	m := Map{"2025-02-03": {Mark: Open, Raw: "〇"}}
	m.MarkUnknown(reservation.YearMonth{Year: 2025, Month: time.February}, UnknownText)

	require.Len(t, m, 28)
	assert.Equal(t, Open, m["2025-02-03"].Mark)
	assert.Equal(t, Unknown, m["2025-02-04"].Mark)
	assert.Equal(t, "2025-02-01", m.Dates()[0])
	assert.Equal(t, "2025-02-28", m.Dates()[27])
}

func TestRemainingPatternIsCompiledOncePerLabel(t *testing.T) {
	a := remainingPattern("残")
	assert.Same(t, a, remainingPattern("残"))
	assert.NotSame(t, a, remainingPattern("あと"))

	l := site.Fumotoppara()
	l.RemainingLabel = "あと"
	assert.Equal(t, 4, ParseStatus("△あと4", l).Remaining)
}
