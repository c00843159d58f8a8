package protocol

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// Curve pools expose heterogeneous ABIs, so only the native balance is
// read on-chain; TVL and APY for curve pools come from the aggregator
// data sources instead.
type Curve struct {
	client *Client
}

func (c *Curve) PoolData(ctx context.Context, pool common.Address) (*PoolData, error) {
	balance, err := c.client.balanceAt(ctx, pool)
	if err != nil {
		return nil, err
	}
	return &PoolData{
		Kind:          "curve",
		NativeBalance: balance,
	}, nil
}
