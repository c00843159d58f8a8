package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defillamaAPI = "https://api.llama.fi"
	yieldsAPI    = "https://yields.llama.fi"
)

// PoolStats is the aggregator view of one pool's activity.
type PoolStats struct {
	TVLUSD    float64
	APY       float64
	Fees24h   float64
	Volume24h float64
}

// DefiLlama fetches protocol TVL and per-pool yield statistics.
type DefiLlama struct {
	client    *http.Client
	baseURL   string
	yieldsURL string
}

func NewDefiLlama() *DefiLlama {
	return &DefiLlama{
		client:    &http.Client{Timeout: 15 * time.Second},
		baseURL:   defillamaAPI,
		yieldsURL: yieldsAPI,
	}
}

// ProtocolTVL returns the current TVL of a protocol slug
// (e.g. "aave-v3", "curve-dex").
func (d *DefiLlama) ProtocolTVL(ctx context.Context, slug string) (float64, error) {
	reqURL := fmt.Sprintf("%s/tvl/%s", d.baseURL, slug)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("defillama API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("defillama API status: %d", resp.StatusCode)
	}

	var tvl float64
	if err := json.NewDecoder(resp.Body).Decode(&tvl); err != nil {
		return 0, fmt.Errorf("decode defillama tvl: %w", err)
	}
	return tvl, nil
}

type yieldsResponse struct {
	Data []struct {
		Pool        string  `json:"pool"`
		PoolOld     string  `json:"pool_old"`
		Project     string  `json:"project"`
		Chain       string  `json:"chain"`
		TVLUSD      float64 `json:"tvlUsd"`
		APY         float64 `json:"apy"`
		APYBase     float64 `json:"apyBase"`
		VolumeUSD1d float64 `json:"volumeUsd1d"`
	} `json:"data"`
}

// PoolStats looks up a pool on the DeFi Llama yields feed by contract
// address. Fees are derived from the base APY when the feed does not
// report them directly.
func (d *DefiLlama) PoolStats(ctx context.Context, poolAddress string, chainName string) (*PoolStats, error) {
	reqURL := d.yieldsURL + "/pools"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("defillama yields API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("defillama yields API status: %d", resp.StatusCode)
	}

	var yr yieldsResponse
	if err := json.NewDecoder(resp.Body).Decode(&yr); err != nil {
		return nil, fmt.Errorf("decode defillama yields: %w", err)
	}

	addr := strings.ToLower(poolAddress)
	for _, p := range yr.Data {
		if !strings.EqualFold(p.Chain, chainName) {
			continue
		}
		if !strings.Contains(strings.ToLower(p.PoolOld), addr) {
			continue
		}
		stats := &PoolStats{
			TVLUSD:    p.TVLUSD,
			APY:       p.APY,
			Volume24h: p.VolumeUSD1d,
		}
		// apyBase tracks fee income; invert the simple annualization
		// to recover an approximate daily fee figure.
		if p.APYBase > 0 && p.TVLUSD > 0 {
			stats.Fees24h = p.APYBase / 100 / 365 * p.TVLUSD
		}
		return stats, nil
	}
	return nil, fmt.Errorf("pool %s not found on defillama yields feed", poolAddress)
}
