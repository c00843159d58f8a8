package apy

import (
	"math"
	"testing"
)

func TestDexAPY(t *testing.T) {
	tests := []struct {
		name string
		fees float64
		tvl  float64
		want float64
	}{
		{"typical pool", 10_000, 5_000_000, 10_000.0 / 5_000_000 * 365 * 100},
		{"zero tvl", 10_000, 0, 0},
		{"zero fees", 0, 5_000_000, 0},
		{"negative tvl", 10_000, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DexAPY(tt.fees, tt.tvl)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("DexAPY(%v, %v) = %v, want %v", tt.fees, tt.tvl, got, tt.want)
			}
		})
	}
}

func TestAnnualizeRate(t *testing.T) {
	// A per-second rate equivalent to ~3.15% APR.
	perSec := 1e-9
	want := perSec * 365.25 * 24 * 60 * 60 * 100
	if got := AnnualizeRate(perSec); math.Abs(got-want) > 1e-9 {
		t.Errorf("AnnualizeRate = %v, want %v", got, want)
	}
	if got := AnnualizeRate(0); got != 0 {
		t.Errorf("AnnualizeRate(0) = %v", got)
	}
}

func TestCompoundAPY(t *testing.T) {
	// 0.01% daily compounded ≈ 3.72% annually.
	got := CompoundAPY(0.0001, 365)
	if got < 3.7 || got > 3.8 {
		t.Errorf("CompoundAPY = %v, want ~3.72", got)
	}
	// Compounding beats simple annualization for positive rates.
	if CompoundAPY(0.001, 365) <= 0.001*365*100 {
		t.Error("compounded APY should exceed simple annualization")
	}
	// Zero compounds falls back to daily.
	if CompoundAPY(0.0001, 0) != CompoundAPY(0.0001, 365) {
		t.Error("compoundsPerYear fallback broken")
	}
}
