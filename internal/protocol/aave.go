package protocol

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const aavePoolABIJSON = `[
{"inputs":[{"name":"asset","type":"address"}],"name":"getReserveData","outputs":[{"components":[{"name":"configuration","type":"uint256"},{"name":"liquidityIndex","type":"uint128"},{"name":"currentLiquidityRate","type":"uint128"},{"name":"variableBorrowIndex","type":"uint128"},{"name":"currentVariableBorrowRate","type":"uint128"},{"name":"currentStableBorrowRate","type":"uint128"},{"name":"lastUpdateTimestamp","type":"uint40"},{"name":"id","type":"uint16"},{"name":"aTokenAddress","type":"address"},{"name":"stableDebtTokenAddress","type":"address"},{"name":"variableDebtTokenAddress","type":"address"},{"name":"interestRateStrategyAddress","type":"address"},{"name":"accruedToTreasury","type":"uint128"},{"name":"unbacked","type":"uint128"},{"name":"isolationModeTotalDebt","type":"uint128"}],"name":"","type":"tuple"}],"stateMutability":"view","type":"function"}
]`

var aavePoolABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(aavePoolABIJSON))
	if err != nil {
		panic("parse aave v3 pool ABI: " + err.Error())
	}
	aavePoolABI = parsed
}

// aavePools maps chain ID to the Aave V3 Pool contract.
var aavePools = map[int]common.Address{
	1:     common.HexToAddress("0x87870Bca3F3fD6335C3F4ce8392D69350B4fA4E2"),
	137:   common.HexToAddress("0x794a61358D6845594F94dc1DB02A252b5b4814aD"),
	42161: common.HexToAddress("0x794a61358D6845594F94dc1DB02A252b5b4814aD"),
	10:    common.HexToAddress("0x794a61358D6845594F94dc1DB02A252b5b4814aD"),
	8453:  common.HexToAddress("0xA238Dd80C259a72e81d7e4664a9801593F98d1c5"),
	43114: common.HexToAddress("0x794a61358D6845594F94dc1DB02A252b5b4814aD"),
}

// ray is Aave's fixed-point base (27 decimals).
var ray = new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(27), nil))

type aaveReserveData struct {
	Configuration               *big.Int
	LiquidityIndex              *big.Int
	CurrentLiquidityRate        *big.Int
	VariableBorrowIndex         *big.Int
	CurrentVariableBorrowRate   *big.Int
	CurrentStableBorrowRate     *big.Int
	LastUpdateTimestamp         *big.Int
	Id                          uint16
	ATokenAddress               common.Address
	StableDebtTokenAddress      common.Address
	VariableDebtTokenAddress    common.Address
	InterestRateStrategyAddress common.Address
	AccruedToTreasury           *big.Int
	Unbacked                    *big.Int
	IsolationModeTotalDebt      *big.Int
}

// Aave reads reserve data from the Aave V3 Pool contract. The "pool"
// address for a lending market is the underlying asset address.
type Aave struct {
	client *Client
}

func (a *Aave) PoolData(ctx context.Context, asset common.Address) (*PoolData, error) {
	poolAddr, ok := aavePools[a.client.Chain()]
	if !ok {
		return nil, fmt.Errorf("aave not deployed on chain %d", a.client.Chain())
	}

	eth, err := a.client.dial(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := aavePoolABI.Pack("getReserveData", asset)
	if err != nil {
		return nil, err
	}
	res, err := eth.CallContract(ctx, callMsg(poolAddr, payload), nil)
	if err != nil {
		return nil, err
	}

	var data aaveReserveData
	if err := aavePoolABI.UnpackIntoInterface(&data, "getReserveData", res); err != nil {
		return nil, fmt.Errorf("decode reserve data: %w", err)
	}

	return &PoolData{
		Kind:       "lending",
		SupplyRate: rayToFloat(data.CurrentLiquidityRate),
		BorrowRate: rayToFloat(data.CurrentVariableBorrowRate),
		AToken:     data.ATokenAddress,
	}, nil
}

// rayToFloat converts a ray-denominated rate to a plain fraction.
func rayToFloat(v *big.Int) float64 {
	if v == nil {
		return 0
	}
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(v), ray).Float64()
	return f
}
