package watch

import "time"

// Metric identifies which pool measurement a delta or rule refers to.
type Metric string

const (
	MetricTVL Metric = "tvl"
	MetricAPY Metric = "apy"
)

// Direction is the side of a change a rule watches for.
type Direction string

const (
	DirectionDrop  Direction = "drop"
	DirectionSpike Direction = "spike"
)

// AlertType is the caller-facing rule name, e.g. "tvl_drop".
// It encodes both the base metric and the direction.
type AlertType string

const (
	TVLDrop  AlertType = "tvl_drop"
	TVLSpike AlertType = "tvl_spike"
	APYDrop  AlertType = "apy_drop"
	APYSpike AlertType = "apy_spike"
)

// Metric returns the base metric the alert type watches.
func (t AlertType) Metric() Metric {
	switch t {
	case TVLDrop, TVLSpike:
		return MetricTVL
	case APYDrop, APYSpike:
		return MetricAPY
	}
	return ""
}

// Direction returns the change direction the alert type watches.
// The direction comes from the declared type only, never from the
// sign of an observed change.
func (t AlertType) Direction() Direction {
	switch t {
	case TVLDrop, APYDrop:
		return DirectionDrop
	case TVLSpike, APYSpike:
		return DirectionSpike
	}
	return ""
}

// Valid reports whether t is one of the known alert types.
func (t AlertType) Valid() bool {
	return t.Metric() != ""
}

// Severity grades how far past its threshold an alert fired.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// MetricReading is one observation for one pool at one instant.
// Readings are immutable once recorded.
type MetricReading struct {
	PoolAddress string    `json:"pool_address"`
	Protocol    string    `json:"protocol"`
	Chain       int       `json:"chain"`
	APY         float64   `json:"apy"`
	TVLUSD      float64   `json:"tvl_usd"`
	SupplyAPY   *float64  `json:"supply_apy,omitempty"`
	BorrowAPY   *float64  `json:"borrow_apy,omitempty"`
	Fees24h     *float64  `json:"fees_24h,omitempty"`
	Volume24h   *float64  `json:"volume_24h,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// metric returns the reading's value for a base metric.
func (r MetricReading) metric(m Metric) float64 {
	if m == MetricAPY {
		return r.APY
	}
	return r.TVLUSD
}

// ThresholdRule is a caller-supplied alert condition. The wire field
// is named "metric" but carries the full alert type ("tvl_drop" etc.),
// matching the public request schema.
type ThresholdRule struct {
	Type             AlertType `json:"metric"`
	ThresholdPercent float64   `json:"threshold_percent"`
	TimeframeMinutes int       `json:"timeframe_minutes"`
}

// Delta is the computed change of one metric over one timeframe.
// Derived per request, never persisted.
type Delta struct {
	Metric           Metric  `json:"metric"`
	PreviousValue    float64 `json:"previous_value"`
	CurrentValue     float64 `json:"current_value"`
	ChangePercent    float64 `json:"change_percent"`
	TimeframeMinutes int     `json:"timeframe_minutes"`
}

// Alert is one fired threshold rule.
type Alert struct {
	PoolAddress         string    `json:"pool_address"`
	Protocol            string    `json:"protocol"`
	Chain               int       `json:"chain"`
	AlertType           AlertType `json:"alert_type"`
	Metric              Metric    `json:"metric"`
	ThresholdPercent    float64   `json:"threshold_percent"`
	ActualChangePercent float64   `json:"actual_change_percent"`
	PreviousValue       float64   `json:"previous_value"`
	CurrentValue        float64   `json:"current_value"`
	TriggeredAt         time.Time `json:"triggered_at"`
	Severity            Severity  `json:"severity"`
}
