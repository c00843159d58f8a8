// Package registry holds the static table of supported DeFi protocols
// and chains. It is injected read-only configuration for the request
// layer; the alerting core never depends on it.
package registry

import "sort"

// PoolKind classifies how a protocol's pools are read and valued.
type PoolKind string

const (
	KindDEX     PoolKind = "dex"
	KindLending PoolKind = "lending"
)

// Protocol describes one supported protocol and where it is deployed.
type Protocol struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Kind   PoolKind `json:"type"`
	Chains []int    `json:"chains"`
}

var protocols = map[string]Protocol{
	"uniswap-v2": {
		ID: "uniswap-v2", Name: "Uniswap V2", Kind: KindDEX,
		Chains: []int{1, 137, 42161, 10, 8453, 56, 43114},
	},
	"uniswap-v3": {
		ID: "uniswap-v3", Name: "Uniswap V3", Kind: KindDEX,
		Chains: []int{1, 137, 42161, 10, 8453},
	},
	"sushiswap": {
		ID: "sushiswap", Name: "SushiSwap", Kind: KindDEX,
		Chains: []int{1, 137, 42161, 10, 8453, 56, 43114},
	},
	"aave": {
		ID: "aave", Name: "Aave", Kind: KindLending,
		Chains: []int{1, 137, 42161, 10, 8453, 43114},
	},
	"curve": {
		ID: "curve", Name: "Curve Finance", Kind: KindDEX,
		Chains: []int{1, 137, 42161, 10},
	},
	"pancakeswap": {
		ID: "pancakeswap", Name: "PancakeSwap", Kind: KindDEX,
		Chains: []int{56},
	},
	"traderjoe": {
		ID: "traderjoe", Name: "TraderJoe", Kind: KindDEX,
		Chains: []int{43114},
	},
}

// Lookup returns the protocol entry for an ID.
func Lookup(id string) (Protocol, bool) {
	p, ok := protocols[id]
	return p, ok
}

// SupportedIDs lists all supported protocol IDs, sorted.
func SupportedIDs() []string {
	ids := make([]string, 0, len(protocols))
	for id := range protocols {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All lists all supported protocols, sorted by ID.
func All() []Protocol {
	out := make([]Protocol, 0, len(protocols))
	for _, id := range SupportedIDs() {
		out = append(out, protocols[id])
	}
	return out
}

// SupportsChain reports whether the protocol is deployed on the chain.
func (p Protocol) SupportsChain(chain int) bool {
	for _, c := range p.Chains {
		if c == chain {
			return true
		}
	}
	return false
}

// ChainName returns a human-readable name for known chain IDs.
func ChainName(chain int) string {
	switch chain {
	case 1:
		return "Ethereum"
	case 10:
		return "Optimism"
	case 56:
		return "BNB Smart Chain"
	case 137:
		return "Polygon"
	case 8453:
		return "Base"
	case 42161:
		return "Arbitrum"
	case 43114:
		return "Avalanche"
	}
	return "Unknown"
}
