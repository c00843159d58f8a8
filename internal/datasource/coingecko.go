// Package datasource wraps the external aggregator APIs (CoinGecko,
// DeFi Llama) that supply token prices and pool statistics.
package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const coingeckoAPI = "https://api.coingecko.com/api/v3"

// coingeckoPlatforms maps chain IDs to CoinGecko asset platform slugs.
var coingeckoPlatforms = map[int]string{
	1:     "ethereum",
	10:    "optimistic-ethereum",
	56:    "binance-smart-chain",
	137:   "polygon-pos",
	8453:  "base",
	42161: "arbitrum-one",
	43114: "avalanche",
}

// CoinGecko fetches token prices from the CoinGecko API.
type CoinGecko struct {
	client  *http.Client
	baseURL string
}

func NewCoinGecko() *CoinGecko {
	return &CoinGecko{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: coingeckoAPI,
	}
}

// TokenPrices returns USD prices keyed by lowercase contract address.
// Tokens CoinGecko doesn't know are absent from the result.
func (c *CoinGecko) TokenPrices(ctx context.Context, chain int, addresses []string) (map[string]float64, error) {
	platform, ok := coingeckoPlatforms[chain]
	if !ok {
		return nil, fmt.Errorf("no coingecko platform for chain %d", chain)
	}
	if len(addresses) == 0 {
		return map[string]float64{}, nil
	}

	q := url.Values{}
	q.Set("contract_addresses", strings.Join(addresses, ","))
	q.Set("vs_currencies", "usd")

	reqURL := fmt.Sprintf("%s/simple/token_price/%s?%s", c.baseURL, platform, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coingecko API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coingecko API status: %d", resp.StatusCode)
	}

	var raw map[string]struct {
		USD float64 `json:"usd"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode coingecko: %w", err)
	}

	prices := make(map[string]float64, len(raw))
	for addr, v := range raw {
		prices[strings.ToLower(addr)] = v.USD
	}
	return prices, nil
}
