package watch

// Evaluate checks every rule against the computed deltas and returns an
// alert per fired rule. Rules are independent: several rules on the same
// metric and timeframe each produce their own alert. A rule whose
// (metric, timeframe) pair has no delta silently does not fire.
func Evaluate(current MetricReading, deltas []Delta, rules []ThresholdRule) []Alert {
	var alerts []Alert
	for _, rule := range rules {
		if !rule.Type.Valid() {
			continue
		}
		d, ok := findDelta(deltas, rule.Type.Metric(), rule.TimeframeMinutes)
		if !ok {
			continue
		}
		if !fires(rule, d.ChangePercent) {
			continue
		}
		alerts = append(alerts, Alert{
			PoolAddress:         current.PoolAddress,
			Protocol:            current.Protocol,
			Chain:               current.Chain,
			AlertType:           rule.Type,
			Metric:              rule.Type.Metric(),
			ThresholdPercent:    rule.ThresholdPercent,
			ActualChangePercent: d.ChangePercent,
			PreviousValue:       d.PreviousValue,
			CurrentValue:        d.CurrentValue,
			TriggeredAt:         current.Timestamp,
			Severity:            severity(d.ChangePercent, rule.ThresholdPercent),
		})
	}
	return alerts
}

func findDelta(deltas []Delta, m Metric, timeframeMinutes int) (Delta, bool) {
	for _, d := range deltas {
		if d.Metric == m && d.TimeframeMinutes == timeframeMinutes {
			return d, true
		}
	}
	return Delta{}, false
}

// fires applies the inclusive threshold boundary: a 20% drop rule fires
// at exactly -20.0.
func fires(rule ThresholdRule, changePercent float64) bool {
	switch rule.Type.Direction() {
	case DirectionDrop:
		return changePercent <= -rule.ThresholdPercent
	case DirectionSpike:
		return changePercent >= rule.ThresholdPercent
	}
	return false
}

// severity grades an alert by how far the change overshot its threshold.
func severity(changePercent, thresholdPercent float64) Severity {
	r := changePercent / thresholdPercent
	if r < 0 {
		r = -r
	}
	switch {
	case r >= 2.5:
		return SeverityHigh
	case r >= 1.5:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
