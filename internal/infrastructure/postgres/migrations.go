package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS availability_snapshots (
	observed_at TIMESTAMPTZ NOT NULL,
	stay_date DATE NOT NULL,
	mark TEXT NOT NULL,
	remaining INT NOT NULL DEFAULT 0,
	raw TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (observed_at, stay_date)
);

CREATE INDEX IF NOT EXISTS idx_availability_snapshots_stay_date ON availability_snapshots(stay_date, observed_at DESC);
`

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schemaSQL)
	return err
}
