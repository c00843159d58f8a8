// Package monitor fetches current pool metrics. It is the data
// acquisition layer in front of the watch engine: all chain RPC and
// aggregator I/O happens here, before the engine runs.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/deganai/yield-pool-watcher/internal/apy"
	"github.com/deganai/yield-pool-watcher/internal/datasource"
	"github.com/deganai/yield-pool-watcher/internal/protocol"
	"github.com/deganai/yield-pool-watcher/internal/registry"
	"github.com/deganai/yield-pool-watcher/internal/tvl"
	"github.com/deganai/yield-pool-watcher/internal/watch"
)

// ChainReader reads raw pool and token state from one chain.
type ChainReader interface {
	PoolData(ctx context.Context, protocolID string, pool common.Address) (*protocol.PoolData, error)
	TokenInfo(ctx context.Context, token common.Address) (*protocol.TokenInfo, error)
}

// PoolStatser supplies aggregator statistics for a pool.
type PoolStatser interface {
	PoolStats(ctx context.Context, poolAddress, chainName string) (*datasource.PoolStats, error)
}

// Pricer resolves token USD prices.
type Pricer interface {
	TokenPrices(ctx context.Context, chain int, addresses []string) map[string]float64
}

// chainReader is the production ChainReader backed by an RPC client.
type chainReader struct {
	client *protocol.Client
}

func (r *chainReader) PoolData(ctx context.Context, protocolID string, pool common.Address) (*protocol.PoolData, error) {
	adapter := protocol.ForProtocol(protocolID, r.client)
	if adapter == nil {
		return nil, fmt.Errorf("no adapter for protocol %s", protocolID)
	}
	return adapter.PoolData(ctx, pool)
}

func (r *chainReader) TokenInfo(ctx context.Context, token common.Address) (*protocol.TokenInfo, error) {
	return r.client.TokenInfo(ctx, token)
}

// Monitor produces MetricReadings for (pool, protocol, chain) triples.
type Monitor struct {
	chains map[int]ChainReader
	stats  PoolStatser
	prices Pricer
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Monitor with one lazily-dialed RPC client per chain.
func New(rpcURLs map[int]string, stats PoolStatser, prices Pricer, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	chains := make(map[int]ChainReader, len(rpcURLs))
	for chain, url := range rpcURLs {
		chains[chain] = &chainReader{client: protocol.NewClient(url, chain)}
	}
	return &Monitor{
		chains: chains,
		stats:  stats,
		prices: prices,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// FetchReading gathers the current metrics for one pool. Aggregator
// outages degrade the reading (zero fees/volume) rather than fail it;
// RPC failures fail it, since without chain state there is nothing to
// report.
func (m *Monitor) FetchReading(ctx context.Context, poolAddress, protocolID string, chain int) (watch.MetricReading, error) {
	var zero watch.MetricReading

	proto, ok := registry.Lookup(protocolID)
	if !ok {
		return zero, fmt.Errorf("unsupported protocol %s", protocolID)
	}
	if !proto.SupportsChain(chain) {
		return zero, fmt.Errorf("protocol %s not deployed on chain %d", protocolID, chain)
	}
	reader, ok := m.chains[chain]
	if !ok {
		return zero, fmt.Errorf("no RPC configured for chain %d", chain)
	}

	data, err := reader.PoolData(ctx, protocolID, common.HexToAddress(poolAddress))
	if err != nil {
		return zero, fmt.Errorf("pool data %s: %w", poolAddress, err)
	}

	reading := watch.MetricReading{
		PoolAddress: poolAddress,
		Protocol:    protocolID,
		Chain:       chain,
		Timestamp:   m.now(),
	}

	switch data.Kind {
	case "v2", "v3":
		m.fillDEX(ctx, &reading, reader, data)
	case "lending":
		m.fillLending(ctx, &reading, data)
	default:
		m.fillAggregated(ctx, &reading)
	}
	return reading, nil
}

// fillDEX values the pool from on-chain reserves and layers fee/volume
// stats from the aggregator on top.
func (m *Monitor) fillDEX(ctx context.Context, reading *watch.MetricReading, reader ChainReader, data *protocol.PoolData) {
	info0, err0 := reader.TokenInfo(ctx, data.Token0)
	info1, err1 := reader.TokenInfo(ctx, data.Token1)
	if err0 != nil || err1 != nil {
		m.logger.Warn("token info fetch failed",
			"pool", reading.PoolAddress, "err0", err0, "err1", err1)
	} else {
		prices := m.prices.TokenPrices(ctx, reading.Chain, []string{
			data.Token0.Hex(), data.Token1.Hex(),
		})
		p0 := prices[lower(data.Token0)]
		p1 := prices[lower(data.Token1)]
		if data.Kind == "v2" {
			reading.TVLUSD = tvl.V2(data.Reserve0, data.Reserve1, info0.Decimals, info1.Decimals, p0, p1)
		} else {
			reading.TVLUSD = tvl.V3(data.Liquidity, data.SqrtPriceX96, info0.Decimals, info1.Decimals, p0, p1)
		}
	}

	stats, err := m.stats.PoolStats(ctx, reading.PoolAddress, registry.ChainName(reading.Chain))
	if err != nil {
		m.logger.Warn("pool stats unavailable", "pool", reading.PoolAddress, "error", err)
		return
	}
	reading.Fees24h = &stats.Fees24h
	reading.Volume24h = &stats.Volume24h
	if reading.TVLUSD == 0 {
		reading.TVLUSD = stats.TVLUSD
	}
	if stats.APY > 0 {
		reading.APY = stats.APY
	} else {
		reading.APY = apy.DexAPY(stats.Fees24h, reading.TVLUSD)
	}
}

// fillLending annualizes the market's per-second rates; the supply APY
// doubles as the pool's headline APY.
func (m *Monitor) fillLending(ctx context.Context, reading *watch.MetricReading, data *protocol.PoolData) {
	supply := apy.AnnualizeRate(data.SupplyRate)
	borrow := apy.AnnualizeRate(data.BorrowRate)
	reading.APY = supply
	reading.SupplyAPY = &supply
	reading.BorrowAPY = &borrow

	stats, err := m.stats.PoolStats(ctx, reading.PoolAddress, registry.ChainName(reading.Chain))
	if err != nil {
		m.logger.Warn("lending tvl unavailable", "pool", reading.PoolAddress, "error", err)
		return
	}
	reading.TVLUSD = stats.TVLUSD
}

// fillAggregated serves pools with no reliable on-chain valuation
// (curve) entirely from the aggregator.
func (m *Monitor) fillAggregated(ctx context.Context, reading *watch.MetricReading) {
	stats, err := m.stats.PoolStats(ctx, reading.PoolAddress, registry.ChainName(reading.Chain))
	if err != nil {
		m.logger.Warn("aggregated stats unavailable", "pool", reading.PoolAddress, "error", err)
		return
	}
	reading.TVLUSD = stats.TVLUSD
	reading.APY = stats.APY
	reading.Fees24h = &stats.Fees24h
	reading.Volume24h = &stats.Volume24h
}

func lower(a common.Address) string {
	s := a.Hex()
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'F' {
			b[i] = c + 32
		}
	}
	return string(b)
}
