package protocol

import (
	"context"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const erc20ABIJSON = `[
{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"},
{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"}
]`

var erc20ABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		panic("parse erc20 ABI: " + err.Error())
	}
	erc20ABI = parsed
}

// TokenInfo is the on-chain metadata of an ERC-20 token.
type TokenInfo struct {
	Address  common.Address
	Decimals uint8
	Symbol   string
}

// TokenInfo reads decimals and symbol for a token contract.
func (c *Client) TokenInfo(ctx context.Context, token common.Address) (*TokenInfo, error) {
	decOut, err := c.call(ctx, token, erc20ABI, "decimals")
	if err != nil {
		return nil, err
	}
	if len(decOut) != 1 {
		return nil, errors.New("unexpected decimals response")
	}
	decimals, ok := decOut[0].(uint8)
	if !ok {
		return nil, errors.New("decode decimals")
	}

	symOut, err := c.call(ctx, token, erc20ABI, "symbol")
	if err != nil {
		return nil, err
	}
	if len(symOut) != 1 {
		return nil, errors.New("unexpected symbol response")
	}
	symbol, ok := symOut[0].(string)
	if !ok {
		return nil, errors.New("decode symbol")
	}

	return &TokenInfo{Address: token, Decimals: decimals, Symbol: symbol}, nil
}
