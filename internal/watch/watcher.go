package watch

import (
	"log/slog"
	"sort"
	"time"
)

// defaultWindows are the reporting timeframes (minutes) surfaced on every
// watch even without a matching rule.
var defaultWindows = []int{5, 15, 60}

// Result is the assembled outcome of one watch call: the echoed reading,
// every computed delta (fired or not, for observability), and the alerts.
type Result struct {
	Reading MetricReading `json:"reading"`
	Deltas  []Delta       `json:"deltas"`
	Alerts  []Alert       `json:"alerts"`
}

// Watcher ties the snapshot store, delta calculator, and threshold
// evaluator together for single watch requests. It is safe for
// concurrent use across pools.
type Watcher struct {
	store   *Store
	calc    *Calculator
	windows []int
	logger  *slog.Logger
}

// NewWatcher creates a Watcher with the given retention window. The
// retention bounds how far back a timeframe can find a baseline.
func NewWatcher(retention time.Duration, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	store := NewStore(retention)
	return &Watcher{
		store:   store,
		calc:    NewCalculator(store),
		windows: defaultWindows,
		logger:  logger,
	}
}

// Watch records the current reading, computes deltas for every timeframe
// the rules and default windows need, and evaluates all rules. Recording
// the reading is the only side effect; a pool with no prior history gets
// zero deltas and zero alerts.
func (w *Watcher) Watch(key string, reading MetricReading, rules []ThresholdRule) Result {
	w.store.Record(key, reading)

	var deltas []Delta
	for _, tf := range w.timeframes(rules) {
		deltas = append(deltas, w.calc.Compute(key, reading, tf)...)
	}

	alerts := Evaluate(reading, deltas, rules)
	if len(alerts) > 0 {
		w.logger.Info("alerts triggered",
			"pool", reading.PoolAddress,
			"protocol", reading.Protocol,
			"chain", reading.Chain,
			"count", len(alerts),
		)
	}

	return Result{Reading: reading, Deltas: deltas, Alerts: alerts}
}

// timeframes returns the sorted union of the default reporting windows
// and every rule's timeframe.
func (w *Watcher) timeframes(rules []ThresholdRule) []int {
	seen := make(map[int]bool, len(w.windows)+len(rules))
	var out []int
	for _, tf := range w.windows {
		if tf > 0 && !seen[tf] {
			seen[tf] = true
			out = append(out, tf)
		}
	}
	for _, r := range rules {
		if r.TimeframeMinutes > 0 && !seen[r.TimeframeMinutes] {
			seen[r.TimeframeMinutes] = true
			out = append(out, r.TimeframeMinutes)
		}
	}
	sort.Ints(out)
	return out
}

// SupportedTimeframes lists the default reporting windows in minutes.
func (w *Watcher) SupportedTimeframes() []int {
	out := make([]int, len(w.windows))
	copy(out, w.windows)
	return out
}

// Store exposes the underlying snapshot store for observability gauges.
func (w *Watcher) Store() *Store {
	return w.store
}
