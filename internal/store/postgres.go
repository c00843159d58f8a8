// Package store persists fired alerts to Postgres as an audit log.
// The snapshot history itself stays in memory; only alerts are durable.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deganai/yield-pool-watcher/internal/watch"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Close() { s.pool.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// StoredAlert is an alert row as read back from the audit log.
type StoredAlert struct {
	ID uuid.UUID `json:"id"`
	watch.Alert
}

// InsertAlerts writes a batch of fired alerts in one transaction.
// A watch request with no fired alerts writes nothing.
func (s *Store) InsertAlerts(ctx context.Context, alerts []watch.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, a := range alerts {
		_, err := tx.Exec(ctx, `
			INSERT INTO alerts (id, pool_address, protocol, chain, alert_type, metric,
				threshold_percent, actual_change_percent, previous_value, current_value,
				severity, triggered_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			uuid.New(), strings.ToLower(a.PoolAddress), a.Protocol, a.Chain,
			a.AlertType, a.Metric, a.ThresholdPercent, a.ActualChangePercent,
			a.PreviousValue, a.CurrentValue, a.Severity, a.TriggeredAt)
		if err != nil {
			return fmt.Errorf("insert alert: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// ListAlerts returns the most recent alerts, newest first. poolAddress
// filters to one pool when non-empty; limit caps the page size.
func (s *Store) ListAlerts(ctx context.Context, poolAddress string, limit int) ([]StoredAlert, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var rows pgx.Rows
	var err error
	if poolAddress != "" {
		rows, err = s.pool.Query(ctx, `
			SELECT id, pool_address, protocol, chain, alert_type, metric,
				threshold_percent, actual_change_percent, previous_value, current_value,
				severity, triggered_at
			FROM alerts WHERE pool_address = $1
			ORDER BY triggered_at DESC LIMIT $2`, strings.ToLower(poolAddress), limit)
	} else {
		rows, err = s.pool.Query(ctx, `
			SELECT id, pool_address, protocol, chain, alert_type, metric,
				threshold_percent, actual_change_percent, previous_value, current_value,
				severity, triggered_at
			FROM alerts ORDER BY triggered_at DESC LIMIT $1`, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []StoredAlert
	for rows.Next() {
		var a StoredAlert
		if err := rows.Scan(&a.ID, &a.PoolAddress, &a.Protocol, &a.Chain, &a.AlertType,
			&a.Metric, &a.ThresholdPercent, &a.ActualChangePercent, &a.PreviousValue,
			&a.CurrentValue, &a.Severity, &a.TriggeredAt); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// CountAlerts returns the total number of audit rows, optionally for
// one pool.
func (s *Store) CountAlerts(ctx context.Context, poolAddress string) (int64, error) {
	var count int64
	var err error
	if poolAddress != "" {
		err = s.pool.QueryRow(ctx,
			`SELECT count(*) FROM alerts WHERE pool_address = $1`,
			strings.ToLower(poolAddress)).Scan(&count)
	} else {
		err = s.pool.QueryRow(ctx, `SELECT count(*) FROM alerts`).Scan(&count)
	}
	return count, err
}

// PruneBefore deletes audit rows older than cutoff. Meant for a
// periodic janitor, not the request path.
func (s *Store) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM alerts WHERE triggered_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
