package protocol

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PoolData is the raw on-chain state of one pool, shaped by its kind.
type PoolData struct {
	Kind string // "v2", "v3", "lending", "curve"

	// v2 / v3
	Token0 common.Address
	Token1 common.Address

	// v2
	Reserve0 *big.Int
	Reserve1 *big.Int

	// v3
	Liquidity    *big.Int
	SqrtPriceX96 *big.Int

	// lending (fractional per-second rates, ray-normalized)
	SupplyRate float64
	BorrowRate float64
	AToken     common.Address

	// curve
	NativeBalance *big.Int
}

// Adapter reads pool state for one protocol family.
type Adapter interface {
	// PoolData fetches the current on-chain state of a pool.
	PoolData(ctx context.Context, pool common.Address) (*PoolData, error)
}

// ForProtocol returns the adapter for a protocol ID, or nil when the
// protocol has no on-chain adapter. SushiSwap, PancakeSwap, and
// TraderJoe all speak the Uniswap V2 pair interface.
func ForProtocol(id string, client *Client) Adapter {
	switch id {
	case "uniswap-v2", "sushiswap", "pancakeswap", "traderjoe":
		return &UniswapV2{client: client}
	case "uniswap-v3":
		return &UniswapV3{client: client}
	case "aave":
		return &Aave{client: client}
	case "curve":
		return &Curve{client: client}
	}
	return nil
}
