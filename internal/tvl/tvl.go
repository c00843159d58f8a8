// Package tvl values pool holdings in USD from raw on-chain state.
package tvl

import (
	"math"
	"math/big"
)

// q96 is the Uniswap V3 fixed-point base for sqrtPriceX96.
var q96 = math.Pow(2, 96)

// V2 values a constant-product pool: normalize both reserves by token
// decimals and sum them at their USD prices.
func V2(reserve0, reserve1 *big.Int, decimals0, decimals1 uint8, price0, price1 float64) float64 {
	r0 := normalize(reserve0, decimals0)
	r1 := normalize(reserve1, decimals1)
	return r0*price0 + r1*price1
}

// V3 estimates a concentrated-liquidity pool's value from its active
// liquidity and sqrtPriceX96. A full valuation would iterate every
// position's tick range; this estimate prices the in-range liquidity
// only and is clamped to zero.
func V3(liquidity, sqrtPriceX96 *big.Int, decimals0, decimals1 uint8, price0, price1 float64) float64 {
	if liquidity == nil || sqrtPriceX96 == nil {
		return 0
	}

	sqrtPrice, _ := new(big.Float).SetInt(sqrtPriceX96).Float64()
	priceRatio := math.Pow(sqrtPrice/q96, 2)
	adjusted := priceRatio * math.Pow(10, float64(decimals1)-float64(decimals0))

	liq := normalize(liquidity, decimals0)
	estimate := liq * (price0 + price1*adjusted)
	return math.Max(estimate, 0)
}

func normalize(v *big.Int, decimals uint8) float64 {
	if v == nil {
		return 0
	}
	f, _ := new(big.Float).Quo(
		new(big.Float).SetInt(v),
		new(big.Float).SetFloat64(math.Pow(10, float64(decimals))),
	).Float64()
	return f
}
