package store

import "context"

const migrationSQL = `
CREATE TABLE IF NOT EXISTS alerts (
    id UUID PRIMARY KEY,
    pool_address TEXT NOT NULL,
    protocol TEXT NOT NULL,
    chain INT NOT NULL,
    alert_type TEXT NOT NULL,
    metric TEXT NOT NULL,
    threshold_percent DOUBLE PRECISION NOT NULL,
    actual_change_percent DOUBLE PRECISION NOT NULL,
    previous_value DOUBLE PRECISION NOT NULL,
    current_value DOUBLE PRECISION NOT NULL,
    severity TEXT NOT NULL,
    triggered_at TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS alerts_pool_idx ON alerts (chain, pool_address, triggered_at DESC);
CREATE INDEX IF NOT EXISTS alerts_triggered_idx ON alerts (triggered_at DESC);
`

func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, migrationSQL)
	return err
}
