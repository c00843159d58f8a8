package monitor

import (
	"context"
	"errors"
	"log/slog"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/deganai/yield-pool-watcher/internal/datasource"
	"github.com/deganai/yield-pool-watcher/internal/protocol"
)

type fakeReader struct {
	data    *protocol.PoolData
	dataErr error
	infos   map[common.Address]*protocol.TokenInfo
}

func (f *fakeReader) PoolData(_ context.Context, _ string, _ common.Address) (*protocol.PoolData, error) {
	return f.data, f.dataErr
}

func (f *fakeReader) TokenInfo(_ context.Context, token common.Address) (*protocol.TokenInfo, error) {
	info, ok := f.infos[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return info, nil
}

type fakeStats struct {
	stats *datasource.PoolStats
	err   error
}

func (f *fakeStats) PoolStats(_ context.Context, _, _ string) (*datasource.PoolStats, error) {
	return f.stats, f.err
}

type fakePrices struct {
	prices map[string]float64
}

func (f *fakePrices) TokenPrices(_ context.Context, _ int, _ []string) map[string]float64 {
	return f.prices
}

var (
	weth = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	usdc = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
)

func testMonitor(reader ChainReader, stats PoolStatser, prices Pricer) *Monitor {
	return &Monitor{
		chains: map[int]ChainReader{1: reader},
		stats:  stats,
		prices: prices,
		logger: slog.New(slog.DiscardHandler),
		now:    func() time.Time { return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC) },
	}
}

func pow10(exp int64, mult int64) *big.Int {
	v := new(big.Int).Exp(big.NewInt(10), big.NewInt(exp), nil)
	return v.Mul(v, big.NewInt(mult))
}

func TestFetchReadingV2(t *testing.T) {
	reader := &fakeReader{
		data: &protocol.PoolData{
			Kind:     "v2",
			Token0:   weth,
			Token1:   usdc,
			Reserve0: pow10(18, 1000),
			Reserve1: pow10(6, 3_000_000),
		},
		infos: map[common.Address]*protocol.TokenInfo{
			weth: {Symbol: "WETH", Decimals: 18},
			usdc: {Symbol: "USDC", Decimals: 6},
		},
	}
	stats := &fakeStats{stats: &datasource.PoolStats{Fees24h: 12_000, Volume24h: 4_000_000}}
	prices := &fakePrices{prices: map[string]float64{
		lower(weth): 3000,
		lower(usdc): 1,
	}}

	m := testMonitor(reader, stats, prices)
	got, err := m.FetchReading(context.Background(), "0xb4e16d0168e52d35cacd2c6185b44281ec28c9dc", "uniswap-v2", 1)
	if err != nil {
		t.Fatalf("FetchReading: %v", err)
	}
	if got.TVLUSD < 5_999_999 || got.TVLUSD > 6_000_001 {
		t.Errorf("TVLUSD = %v, want ~6000000", got.TVLUSD)
	}
	// Fee-derived APY: 12k/day on $6M is 73% annualized.
	if got.APY < 72 || got.APY > 74 {
		t.Errorf("APY = %v, want ~73", got.APY)
	}
	if got.Fees24h == nil || *got.Fees24h != 12_000 {
		t.Errorf("Fees24h = %v, want 12000", got.Fees24h)
	}
	if got.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
}

func TestFetchReadingV2StatsDown(t *testing.T) {
	reader := &fakeReader{
		data: &protocol.PoolData{
			Kind:     "v2",
			Token0:   weth,
			Token1:   usdc,
			Reserve0: pow10(18, 1000),
			Reserve1: pow10(6, 3_000_000),
		},
		infos: map[common.Address]*protocol.TokenInfo{
			weth: {Symbol: "WETH", Decimals: 18},
			usdc: {Symbol: "USDC", Decimals: 6},
		},
	}
	stats := &fakeStats{err: errors.New("llama down")}
	prices := &fakePrices{prices: map[string]float64{lower(weth): 3000, lower(usdc): 1}}

	m := testMonitor(reader, stats, prices)
	got, err := m.FetchReading(context.Background(), "0xb4e16d0168e52d35cacd2c6185b44281ec28c9dc", "uniswap-v2", 1)
	if err != nil {
		t.Fatalf("FetchReading: %v", err)
	}
	// On-chain TVL survives an aggregator outage; fee stats do not.
	if got.TVLUSD < 5_999_999 {
		t.Errorf("TVLUSD = %v, want on-chain valuation", got.TVLUSD)
	}
	if got.Fees24h != nil || got.APY != 0 {
		t.Errorf("degraded reading should omit fees/APY, got fees=%v apy=%v", got.Fees24h, got.APY)
	}
}

func TestFetchReadingLending(t *testing.T) {
	// Per-second rate equivalent to ~4.7% supply APY.
	reader := &fakeReader{
		data: &protocol.PoolData{
			Kind:       "lending",
			SupplyRate: 1.5e-9,
			BorrowRate: 2.5e-9,
		},
	}
	stats := &fakeStats{stats: &datasource.PoolStats{TVLUSD: 250_000_000}}

	m := testMonitor(reader, stats, &fakePrices{})
	got, err := m.FetchReading(context.Background(), "0x87870bca3f3fd6335c3f4ce8392d69350b4fa4e2", "aave", 1)
	if err != nil {
		t.Fatalf("FetchReading: %v", err)
	}
	if got.SupplyAPY == nil || got.BorrowAPY == nil {
		t.Fatal("lending reading missing rate fields")
	}
	if got.APY != *got.SupplyAPY {
		t.Errorf("headline APY %v != supply APY %v", got.APY, *got.SupplyAPY)
	}
	if *got.BorrowAPY <= *got.SupplyAPY {
		t.Error("borrow APY should exceed supply APY")
	}
	if got.TVLUSD != 250_000_000 {
		t.Errorf("TVLUSD = %v, want 250000000", got.TVLUSD)
	}
}

func TestFetchReadingCurve(t *testing.T) {
	reader := &fakeReader{data: &protocol.PoolData{Kind: "curve"}}
	stats := &fakeStats{stats: &datasource.PoolStats{TVLUSD: 90_000_000, APY: 2.1}}

	m := testMonitor(reader, stats, &fakePrices{})
	got, err := m.FetchReading(context.Background(), "0xbebc44782c7db0a1a60cb6fe97d0b483032ff1c7", "curve", 1)
	if err != nil {
		t.Fatalf("FetchReading: %v", err)
	}
	if got.TVLUSD != 90_000_000 || got.APY != 2.1 {
		t.Errorf("reading = tvl %v apy %v, want aggregator values", got.TVLUSD, got.APY)
	}
}

func TestFetchReadingErrors(t *testing.T) {
	m := testMonitor(&fakeReader{dataErr: errors.New("rpc timeout")}, &fakeStats{}, &fakePrices{})

	if _, err := m.FetchReading(context.Background(), "0xabc", "nope", 1); err == nil {
		t.Error("unknown protocol should fail")
	}
	if _, err := m.FetchReading(context.Background(), "0xabc", "uniswap-v2", 7777); err == nil {
		t.Error("unsupported chain should fail")
	}
	if _, err := m.FetchReading(context.Background(), "0xabc", "uniswap-v2", 1); err == nil {
		t.Error("RPC failure should fail the reading")
	}
}
