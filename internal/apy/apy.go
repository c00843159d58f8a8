// Package apy holds the yield math shared by DEX and lending pools.
package apy

import "math"

const secondsPerYear = 365.25 * 24 * 60 * 60

// DexAPY estimates a DEX pool's yield from its 24h fee income:
// (fees / TVL) × 365 × 100, simple annualization without compounding.
// Returns 0 when either input is non-positive.
func DexAPY(fees24h, tvlUSD float64) float64 {
	if tvlUSD <= 0 || fees24h <= 0 {
		return 0
	}
	return fees24h / tvlUSD * 365 * 100
}

// AnnualizeRate converts a fractional per-second rate (lending markets
// quote these) to a simple annual percentage.
func AnnualizeRate(perSecond float64) float64 {
	return perSecond * secondsPerYear * 100
}

// CompoundAPY converts a fractional daily rate to a compounded annual
// percentage: ((1 + r)^n − 1) × 100.
func CompoundAPY(dailyRate float64, compoundsPerYear int) float64 {
	if compoundsPerYear <= 0 {
		compoundsPerYear = 365
	}
	return (math.Pow(1+dailyRate, float64(compoundsPerYear)) - 1) * 100
}
