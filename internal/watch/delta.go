package watch

import "time"

// Calculator computes percentage changes against the snapshot history.
type Calculator struct {
	store *Store
}

// NewCalculator creates a Calculator reading from the given store.
func NewCalculator(store *Store) *Calculator {
	return &Calculator{store: store}
}

// Compute returns the TVL and APY deltas for one lookback window, or nil
// when no baseline reading exists at or before the window start. A missing
// baseline is a legitimate "no history yet" state, not an error.
func (c *Calculator) Compute(key string, current MetricReading, timeframeMinutes int) []Delta {
	target := current.Timestamp.Add(-time.Duration(timeframeMinutes) * time.Minute)
	prev := c.store.FindAtOrBefore(key, target)
	if prev == nil {
		return nil
	}

	var deltas []Delta
	for _, m := range []Metric{MetricTVL, MetricAPY} {
		if d, ok := makeDelta(m, prev.metric(m), current.metric(m), timeframeMinutes); ok {
			deltas = append(deltas, d)
		}
	}
	return deltas
}

// makeDelta computes one metric's change percent. A zero baseline with a
// nonzero current value is undefined and suppresses the delta entirely,
// so it can never trigger a rule.
func makeDelta(m Metric, prev, cur float64, timeframeMinutes int) (Delta, bool) {
	var change float64
	switch {
	case prev == 0 && cur == 0:
		change = 0
	case prev == 0:
		return Delta{}, false
	default:
		change = (cur - prev) / prev * 100
	}
	return Delta{
		Metric:           m,
		PreviousValue:    prev,
		CurrentValue:     cur,
		ChangePercent:    change,
		TimeframeMinutes: timeframeMinutes,
	}, true
}
