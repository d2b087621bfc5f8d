package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/fumoto-monitor/internal/domain/availability"
	"github.com/example/fumoto-monitor/internal/domain/reservation"
)

// AvailabilityRepo mirrors the audit log: one row per date per cycle.
type AvailabilityRepo struct{ pool *pgxpool.Pool }

func NewAvailabilityRepo(pool *pgxpool.Pool) *AvailabilityRepo { return &AvailabilityRepo{pool: pool} }

func (r *AvailabilityRepo) Append(ctx context.Context, at time.Time, m availability.Map) error {
	if len(m) == 0 {
		return nil
	}
	b := &pgx.Batch{}
	for _, d := range m.Dates() {
		day, err := time.Parse(reservation.DateLayout, d)
		if err != nil {
			return fmt.Errorf("snapshot date %q: %w", d, err)
		}
		st := m[d]
		b.Queue(`
			INSERT INTO availability_snapshots (observed_at, stay_date, mark, remaining, raw)
			VALUES ($1,$2,$3,$4,$5)
			ON CONFLICT (observed_at, stay_date) DO NOTHING
		`, at.UTC(), day, st.Mark.String(), st.Remaining, st.Raw)
	}
	return r.pool.SendBatch(ctx, b).Close()
}

type Observation struct {
	ObservedAt time.Time
	Mark       string
	Remaining  int
	Raw        string
}

// History returns the newest observations of one stay date first.
func (r *AvailabilityRepo) History(ctx context.Context, date time.Time, limit int) ([]Observation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT observed_at, mark, remaining, raw
		FROM availability_snapshots
		WHERE stay_date=$1
		ORDER BY observed_at DESC
		LIMIT $2
	`, date, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Observation, error) {
		var o Observation
		err := row.Scan(&o.ObservedAt, &o.Mark, &o.Remaining, &o.Raw)
		return o, err
	})
}
