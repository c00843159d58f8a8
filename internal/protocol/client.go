// Package protocol reads pool state directly from chain RPC for each
// supported protocol family.
package protocol

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Client is a lazily-dialed Ethereum RPC client bound to one chain.
type Client struct {
	rpcURL string
	chain  int

	mu  sync.Mutex
	eth *ethclient.Client
}

// NewClient creates a Client for the given chain. The RPC connection is
// established on first use.
func NewClient(rpcURL string, chain int) *Client {
	return &Client{rpcURL: rpcURL, chain: chain}
}

// Chain returns the chain ID this client is bound to.
func (c *Client) Chain() int { return c.chain }

func (c *Client) dial(ctx context.Context) (*ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.eth != nil {
		return c.eth, nil
	}
	eth, err := ethclient.DialContext(ctx, c.rpcURL)
	if err != nil {
		return nil, err
	}
	c.eth = eth
	return eth, nil
}

// Close releases the underlying RPC connection if one was dialed.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.eth != nil {
		c.eth.Close()
		c.eth = nil
	}
}

// call packs a view-method call, executes it, and unpacks the outputs.
func (c *Client) call(ctx context.Context, to common.Address, contractABI abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	eth, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	res, err := eth.CallContract(ctx, ethereum.CallMsg{To: &to, Data: payload}, nil)
	if err != nil {
		return nil, err
	}
	return contractABI.Unpack(method, res)
}

func callMsg(to common.Address, data []byte) ethereum.CallMsg {
	return ethereum.CallMsg{To: &to, Data: data}
}

// balanceAt returns the native-token balance of an address.
func (c *Client) balanceAt(ctx context.Context, addr common.Address) (*big.Int, error) {
	eth, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	return eth.BalanceAt(ctx, addr, nil)
}
