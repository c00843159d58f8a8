package protocol

import (
	"math/big"
	"testing"
)

func TestForProtocol(t *testing.T) {
	client := NewClient("http://localhost:8545", 1)

	tests := []struct {
		id   string
		want string
	}{
		{"uniswap-v2", "*protocol.UniswapV2"},
		{"sushiswap", "*protocol.UniswapV2"},
		{"pancakeswap", "*protocol.UniswapV2"},
		{"traderjoe", "*protocol.UniswapV2"},
		{"uniswap-v3", "*protocol.UniswapV3"},
		{"aave", "*protocol.Aave"},
		{"curve", "*protocol.Curve"},
	}
	for _, tt := range tests {
		a := ForProtocol(tt.id, client)
		if a == nil {
			t.Errorf("ForProtocol(%q) = nil", tt.id)
			continue
		}
		switch tt.want {
		case "*protocol.UniswapV2":
			if _, ok := a.(*UniswapV2); !ok {
				t.Errorf("ForProtocol(%q) = %T, want %s", tt.id, a, tt.want)
			}
		case "*protocol.UniswapV3":
			if _, ok := a.(*UniswapV3); !ok {
				t.Errorf("ForProtocol(%q) = %T, want %s", tt.id, a, tt.want)
			}
		case "*protocol.Aave":
			if _, ok := a.(*Aave); !ok {
				t.Errorf("ForProtocol(%q) = %T, want %s", tt.id, a, tt.want)
			}
		case "*protocol.Curve":
			if _, ok := a.(*Curve); !ok {
				t.Errorf("ForProtocol(%q) = %T, want %s", tt.id, a, tt.want)
			}
		}
	}

	if a := ForProtocol("compound", client); a != nil {
		t.Errorf("ForProtocol(compound) = %T, want nil", a)
	}
}

func TestRayToFloat(t *testing.T) {
	// 5% APR expressed in ray: 0.05 * 1e27
	v, _ := new(big.Int).SetString("50000000000000000000000000", 10)
	got := rayToFloat(v)
	if got < 0.0499 || got > 0.0501 {
		t.Errorf("rayToFloat = %v, want ~0.05", got)
	}
	if rayToFloat(nil) != 0 {
		t.Error("rayToFloat(nil) != 0")
	}
	if rayToFloat(big.NewInt(0)) != 0 {
		t.Error("rayToFloat(0) != 0")
	}
}

func TestABIPacking(t *testing.T) {
	// Parsed in init; a pack failure would mean a malformed ABI const.
	if _, err := pairABI.Pack("getReserves"); err != nil {
		t.Errorf("pack getReserves: %v", err)
	}
	if _, err := v3PoolABI.Pack("slot0"); err != nil {
		t.Errorf("pack slot0: %v", err)
	}
	if _, err := erc20ABI.Pack("decimals"); err != nil {
		t.Errorf("pack decimals: %v", err)
	}
}
