package protocol

import (
	"context"
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const pairABIJSON = `[
{"constant":true,"inputs":[],"name":"getReserves","outputs":[{"name":"reserve0","type":"uint112"},{"name":"reserve1","type":"uint112"},{"name":"blockTimestampLast","type":"uint32"}],"stateMutability":"view","type":"function"},
{"constant":true,"inputs":[],"name":"token0","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
{"constant":true,"inputs":[],"name":"token1","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"}
]`

var pairABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(pairABIJSON))
	if err != nil {
		panic("parse uniswap v2 pair ABI: " + err.Error())
	}
	pairABI = parsed
}

// UniswapV2 reads constant-product pairs. It also serves SushiSwap,
// PancakeSwap, and TraderJoe, which share the pair interface.
type UniswapV2 struct {
	client *Client
}

func (u *UniswapV2) PoolData(ctx context.Context, pool common.Address) (*PoolData, error) {
	reserves, err := u.client.call(ctx, pool, pairABI, "getReserves")
	if err != nil {
		return nil, err
	}
	if len(reserves) != 3 {
		return nil, errors.New("unexpected getReserves response")
	}
	reserve0, ok0 := reserves[0].(*big.Int)
	reserve1, ok1 := reserves[1].(*big.Int)
	if !ok0 || !ok1 {
		return nil, errors.New("decode reserves")
	}

	token0, err := u.tokenAt(ctx, pool, "token0")
	if err != nil {
		return nil, err
	}
	token1, err := u.tokenAt(ctx, pool, "token1")
	if err != nil {
		return nil, err
	}

	return &PoolData{
		Kind:     "v2",
		Token0:   token0,
		Token1:   token1,
		Reserve0: reserve0,
		Reserve1: reserve1,
	}, nil
}

func (u *UniswapV2) tokenAt(ctx context.Context, pool common.Address, method string) (common.Address, error) {
	out, err := u.client.call(ctx, pool, pairABI, method)
	if err != nil {
		return common.Address{}, err
	}
	if len(out) != 1 {
		return common.Address{}, errors.New("unexpected " + method + " response")
	}
	addr, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, errors.New("decode " + method)
	}
	return addr, nil
}
