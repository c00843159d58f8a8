// Package handler holds the HTTP endpoints. Handlers validate, call
// into the watch engine, and shape responses; they own no domain logic.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/deganai/yield-pool-watcher/internal/metrics"
	"github.com/deganai/yield-pool-watcher/internal/registry"
	"github.com/deganai/yield-pool-watcher/internal/watch"
)

// Fetcher produces the current reading for one pool. Implemented by
// monitor.Monitor; stubbed in tests.
type Fetcher interface {
	FetchReading(ctx context.Context, poolAddress, protocolID string, chain int) (watch.MetricReading, error)
}

// AlertWriter persists fired alerts. Implemented by store.Store; nil
// when no database is configured.
type AlertWriter interface {
	InsertAlerts(ctx context.Context, alerts []watch.Alert) error
}

// WatchRequest is the body of POST /pools/watch.
type WatchRequest struct {
	ProtocolIDs    []string              `json:"protocol_ids"`
	Pools          []string              `json:"pools"`
	Chain          int                   `json:"chain"`
	ThresholdRules []watch.ThresholdRule `json:"threshold_rules"`
}

// WatchResponse aggregates metrics, deltas, and alerts across every
// requested (pool, protocol) pair.
type WatchResponse struct {
	PoolMetrics []watch.MetricReading `json:"pool_metrics"`
	Deltas      []watch.Delta         `json:"deltas"`
	Alerts      []watch.Alert         `json:"alerts"`
	Timestamp   string                `json:"timestamp"`
}

func (r *WatchRequest) validate() error {
	if len(r.Pools) == 0 {
		return fmt.Errorf("pools must not be empty")
	}
	if len(r.ProtocolIDs) == 0 {
		return fmt.Errorf("protocol_ids must not be empty")
	}
	if registry.ChainName(r.Chain) == "Unknown" {
		return fmt.Errorf("unsupported chain %d", r.Chain)
	}
	for _, id := range r.ProtocolIDs {
		if _, ok := registry.Lookup(id); !ok {
			return fmt.Errorf("unsupported protocol %q", id)
		}
	}
	for _, rule := range r.ThresholdRules {
		if !rule.Type.Valid() {
			return fmt.Errorf("unknown alert type %q", rule.Type)
		}
		if rule.ThresholdPercent <= 0 {
			return fmt.Errorf("threshold_percent must be positive, got %v", rule.ThresholdPercent)
		}
		if rule.TimeframeMinutes <= 0 {
			return fmt.Errorf("timeframe_minutes must be positive, got %d", rule.TimeframeMinutes)
		}
	}
	return nil
}

// Watch handles POST /pools/watch: fetch current metrics for every
// (pool, protocol) pair, record them, and report deltas and fired
// alerts. Individual fetch failures are skipped, not fatal; a request
// where every fetch fails still returns an empty 200.
func Watch(watcher *watch.Watcher, fetcher Fetcher, audit AlertWriter, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req WatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		logger.Info("watch request",
			"protocols", req.ProtocolIDs,
			"pools", len(req.Pools),
			"chain", req.Chain,
			"rules", len(req.ThresholdRules),
		)

		resp := WatchResponse{
			PoolMetrics: []watch.MetricReading{},
			Deltas:      []watch.Delta{},
			Alerts:      []watch.Alert{},
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		}

		for _, pool := range req.Pools {
			for _, protocolID := range req.ProtocolIDs {
				start := time.Now()
				reading, err := fetcher.FetchReading(r.Context(), pool, protocolID, req.Chain)
				metrics.FetchDuration.WithLabelValues(protocolID).Observe(time.Since(start).Seconds())
				if err != nil {
					metrics.FetchTotal.WithLabelValues(protocolID, "error").Inc()
					logger.Error("reading fetch failed",
						"pool", pool, "protocol", protocolID, "chain", req.Chain, "error", err)
					continue
				}
				metrics.FetchTotal.WithLabelValues(protocolID, "ok").Inc()

				result := watcher.Watch(watch.Key(req.Chain, pool), reading, req.ThresholdRules)
				resp.PoolMetrics = append(resp.PoolMetrics, result.Reading)
				resp.Deltas = append(resp.Deltas, result.Deltas...)
				resp.Alerts = append(resp.Alerts, result.Alerts...)
			}
		}

		for _, a := range resp.Alerts {
			metrics.AlertsFiredTotal.WithLabelValues(string(a.AlertType), string(a.Severity)).Inc()
		}
		metrics.WatchedPools.Set(float64(watcher.Store().Pools()))
		metrics.SnapshotCount.Set(float64(watcher.Store().Size()))

		if audit != nil && len(resp.Alerts) > 0 {
			if err := audit.InsertAlerts(r.Context(), resp.Alerts); err != nil {
				metrics.AlertsPersistFailedTotal.Inc()
				logger.Error("alert audit write failed", "count", len(resp.Alerts), "error", err)
			}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
