package datasource

import (
	"context"
	"log/slog"
	"strings"
)

// knownPrices short-circuits lookups for majors whose price either
// barely moves (stables) or is refreshed by the cache quickly enough
// for TVL estimation.
var knownStables = map[string]bool{
	"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48": true, // USDC
	"0xdac17f958d2ee523a2206206994597c13d831ec7": true, // USDT
	"0x6b175474e89094c44da98b954eedeac495271d0f": true, // DAI
}

// PriceCache is the TTL cache in front of the price API.
type PriceCache interface {
	Get(ctx context.Context, token string) (float64, bool)
	Set(ctx context.Context, token string, price float64)
}

// PriceProvider resolves token USD prices through a cache, a stable
// shortcut, and finally CoinGecko.
type PriceProvider struct {
	gecko  *CoinGecko
	cache  PriceCache
	logger *slog.Logger
}

// NewPriceProvider wires the provider. cache may be nil (no caching).
func NewPriceProvider(gecko *CoinGecko, cache PriceCache, logger *slog.Logger) *PriceProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &PriceProvider{gecko: gecko, cache: cache, logger: logger}
}

// TokenPrices returns USD prices keyed by lowercase address. Unknown
// tokens resolve to 0 so downstream TVL math degrades instead of
// failing the whole reading.
func (p *PriceProvider) TokenPrices(ctx context.Context, chain int, addresses []string) map[string]float64 {
	prices := make(map[string]float64, len(addresses))
	var missing []string

	for _, addr := range addresses {
		a := strings.ToLower(addr)
		if knownStables[a] {
			prices[a] = 1.0
			continue
		}
		if p.cache != nil {
			if v, ok := p.cache.Get(ctx, a); ok {
				prices[a] = v
				continue
			}
		}
		missing = append(missing, a)
	}

	if len(missing) > 0 {
		fetched, err := p.gecko.TokenPrices(ctx, chain, missing)
		if err != nil {
			p.logger.Warn("token price fetch failed", "chain", chain, "error", err)
		}
		for _, a := range missing {
			v := fetched[a] // zero when absent
			prices[a] = v
			if p.cache != nil && v > 0 {
				p.cache.Set(ctx, a, v)
			}
		}
	}
	return prices
}
