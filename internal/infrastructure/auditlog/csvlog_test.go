package auditlog

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/fumoto-monitor/internal/domain/availability"
)

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return recs
}

func TestAppendGrowsHeader(t *testing.T) {
	dir := t.TempDir()
	log := CSV{Dir: dir}
	day := time.Date(2025, 3, 1, 9, 0, 0, 0, time.Local)

	require.NoError(t, log.Append(context.Background(), day, availability.Map{
		"2025-03-28": {Mark: availability.Open, Raw: "〇"},
		"2025-03-27": {Mark: availability.Limited, Remaining: 2, Raw: "△残2"},
	}))
	require.NoError(t, log.Append(context.Background(), day.Add(10*time.Minute), availability.Map{
		"2025-03-27": {Mark: availability.Closed, Raw: "×"},
	}))
	require.NoError(t, log.Append(context.Background(), day.Add(20*time.Minute), availability.Map{
		"2025-03-26": {Mark: availability.Open, Raw: "〇"},
		"2025-03-27": {Mark: availability.Open, Raw: "〇"},
	}))

	recs := readAll(t, filepath.Join(dir, "2025-03-01.csv"))
	assert.Equal(t, [][]string{
		{"Timestamp", "2025-03-26", "2025-03-27", "2025-03-28"},
		{"09:00:00", "", "△残2", "〇"},
		{"09:10:00", "", "×", ""},
		{"09:20:00", "〇", "〇", ""},
	}, recs)
}

func TestAppendUsesOneFilePerDay(t *testing.T) {
	dir := t.TempDir()
	log := CSV{Dir: dir}
	m := availability.Map{"2025-03-27": {Raw: "×"}}

	require.NoError(t, log.Append(context.Background(), time.Date(2025, 3, 1, 23, 59, 0, 0, time.Local), m))
	require.NoError(t, log.Append(context.Background(), time.Date(2025, 3, 2, 0, 1, 0, 0, time.Local), m))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
