package protocol

import (
	"context"
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const v3PoolABIJSON = `[
{"inputs":[],"name":"slot0","outputs":[{"name":"sqrtPriceX96","type":"uint160"},{"name":"tick","type":"int24"},{"name":"observationIndex","type":"uint16"},{"name":"observationCardinality","type":"uint16"},{"name":"observationCardinalityNext","type":"uint16"},{"name":"feeProtocol","type":"uint8"},{"name":"unlocked","type":"bool"}],"stateMutability":"view","type":"function"},
{"inputs":[],"name":"liquidity","outputs":[{"name":"","type":"uint128"}],"stateMutability":"view","type":"function"},
{"inputs":[],"name":"token0","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
{"inputs":[],"name":"token1","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"}
]`

var v3PoolABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(v3PoolABIJSON))
	if err != nil {
		panic("parse uniswap v3 pool ABI: " + err.Error())
	}
	v3PoolABI = parsed
}

// UniswapV3 reads concentrated-liquidity pools.
type UniswapV3 struct {
	client *Client
}

func (u *UniswapV3) PoolData(ctx context.Context, pool common.Address) (*PoolData, error) {
	slot0, err := u.client.call(ctx, pool, v3PoolABI, "slot0")
	if err != nil {
		return nil, err
	}
	if len(slot0) != 7 {
		return nil, errors.New("unexpected slot0 response")
	}
	sqrtPriceX96, ok := slot0[0].(*big.Int)
	if !ok {
		return nil, errors.New("decode sqrtPriceX96")
	}

	liqOut, err := u.client.call(ctx, pool, v3PoolABI, "liquidity")
	if err != nil {
		return nil, err
	}
	if len(liqOut) != 1 {
		return nil, errors.New("unexpected liquidity response")
	}
	liquidity, ok := liqOut[0].(*big.Int)
	if !ok {
		return nil, errors.New("decode liquidity")
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
		Kind:         "v3",
		Token0:       token0,
		Token1:       token1,
		Liquidity:    liquidity,
		SqrtPriceX96: sqrtPriceX96,
	}, nil
}

func (u *UniswapV3) tokenAt(ctx context.Context, pool common.Address, method string) (common.Address, error) {
	out, err := u.client.call(ctx, pool, v3PoolABI, method)
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
