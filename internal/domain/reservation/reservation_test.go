package reservation

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNightlySpansMonthBoundary(t *testing.T) {
	s := NotificationSet{ID: "1", Name: "a", StartDate: "2025-03-31", Nights: 2, Adults: 1}
	nights, err := s.Nightly()
	require.NoError(t, err)
	require.Len(t, nights, 2)
	assert.Equal(t, "2025-03-31", nights[0].Format(DateLayout))
	assert.Equal(t, "2025-04-01", nights[1].Format(DateLayout))
}

func TestTargetMonths(t *testing.T) {
	sets := []NotificationSet{
		{ID: "1", StartDate: "2025-04-30", Nights: 2},
		{ID: "2", StartDate: "2025-03-10", Nights: 1},
		{ID: "3", StartDate: "not-a-date", Nights: 1},
		{ID: "4", StartDate: "2024-12-31", Nights: 2},
	}
	got := TargetMonths(sets)
	want := []YearMonth{
		{Year: 2024, Month: time.December},
		{Year: 2025, Month: time.January},
		{Year: 2025, Month: time.March},
		{Year: 2025, Month: time.April},
		{Year: 2025, Month: time.May},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("months mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	ok := NotificationSet{ID: "1", Name: "GW", StartDate: "2025-05-03", Nights: 1, Adults: 2}
	require.NoError(t, ok.Validate())

	bad := ok
	bad.StartDate = "2025/05/03"
	assert.Error(t, bad.Validate())

	bad = ok
	bad.Nights = 0
	assert.Error(t, bad.Validate())

	bad = ok
	bad.Children = -1
	assert.Error(t, bad.Validate())
}

func TestChooseAutoReserveTargetFirstInConfigOrder(t *testing.T) {
	sets := []NotificationSet{
		{ID: "a", AutoReserve: false},
		{ID: "b", AutoReserve: true},
		{ID: "c", AutoReserve: true},
	}
	got, ok := ChooseAutoReserveTarget(sets, map[SetID]bool{"a": true, "b": false, "c": true})
	require.True(t, ok)
	assert.Equal(t, SetID("c"), got.ID)

	_, ok = ChooseAutoReserveTarget(sets, map[SetID]bool{"a": true})
	assert.False(t, ok)
}

func TestDaysUntil(t *testing.T) {
	s := NotificationSet{ID: "1", StartDate: "2025-03-27"}
	now := time.Date(2025, 3, 20, 23, 30, 0, 0, time.FixedZone("JST", 9*3600))
	n, err := DaysUntil(s, now)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = DaysUntil(s, time.Date(2025, 3, 28, 1, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, -1, n)
}

func TestYearMonthDays(t *testing.T) {
	assert.Len(t, YearMonth{Year: 2024, Month: time.February}.Days(), 29)
	assert.Equal(t, "2025-03", YearMonth{Year: 2025, Month: time.March}.String())
}
