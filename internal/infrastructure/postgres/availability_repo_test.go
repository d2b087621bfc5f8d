package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/fumoto-monitor/internal/domain/availability"
)

func testPool(t *testing.T) *AvailabilityRepo {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := Open(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `DELETE FROM availability_snapshots WHERE stay_date='2031-03-27'`)
	require.NoError(t, err)
	return NewAvailabilityRepo(pool)
}

func TestAppendAndHistory(t *testing.T) {
	repo := testPool(t)
	ctx := context.Background()
	first := time.Date(2031, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, first, availability.Map{
		"2031-03-27": {Mark: availability.Closed, Raw: "×"},
	}))
	require.NoError(t, repo.Append(ctx, first.Add(10*time.Minute), availability.Map{
		"2031-03-27": {Mark: availability.Limited, Remaining: 2, Raw: "△残2"},
	}))

	got, err := repo.History(ctx, time.Date(2031, 3, 27, 0, 0, 0, 0, time.UTC), 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "limited", got[0].Mark)
	assert.Equal(t, 2, got[0].Remaining)
	assert.Equal(t, "×", got[1].Raw)
}

func TestOpenRejectsBadURL(t *testing.T) {
	_, err := Open(context.Background(), "::not a url")
	assert.Error(t, err)
}
