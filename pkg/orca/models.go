package orca

import "encoding/json"

// Monetary and supply values are decimal strings exactly as the API returns them.

// ProtocolInfo holds protocol-wide totals for a chain.
type ProtocolInfo struct {
	Fees24hUSDC    string `json:"fees24hUsdc" validate:"required"`
	Revenue24hUSDC string `json:"revenue24hUsdc" validate:"required"`
	TVL            string `json:"tvl" validate:"required"`
	Volume24hUSDC  string `json:"volume24hUsdc" validate:"required"`
}

// TokenInfo describes the protocol token.
type TokenInfo struct {
	CirculatingSupply string     `json:"circulatingSupply" validate:"required"`
	Description       string     `json:"description"`
	ImageURL          string     `json:"imageUrl"`
	Name              string     `json:"name" validate:"required"`
	Price             string     `json:"price" validate:"required"`
	Stats             TokenStats `json:"stats"`
	Symbol            string     `json:"symbol" validate:"required"`
	TotalSupply       string     `json:"totalSupply" validate:"required"`
}

// TokenStats groups token statistics by window.
type TokenStats struct {
	H24 TokenVolume `json:"24h"`
}

// TokenVolume is the traded volume of a token over a window.
type TokenVolume struct {
	Volume string `json:"volume"`
}

// CirculatingSupply is the circulating supply of the protocol token.
type CirculatingSupply struct {
	CirculatingSupply string `json:"circulating_supply" validate:"required"`
}

// TotalSupply is the total minted supply of the protocol token.
type TotalSupply struct {
	TotalSupply string `json:"total_supply" validate:"required"`
}

// Page is a cursor-paginated list response.
type Page[T any] struct {
	Data []T      `json:"data" validate:"required,dive"`
	Meta PageMeta `json:"meta"`
}

// PageMeta carries the cursors for adjacent pages; nil means there is none.
type PageMeta struct {
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// NextCursor returns the next cursor, or "" on the last page.
func (m PageMeta) NextCursor() string {
	if m.Next == nil {
		return ""
	}
	return *m.Next
}

// PreviousCursor returns the previous cursor, or "" on the first page.
func (m PageMeta) PreviousCursor() string {
	if m.Previous == nil {
		return ""
	}
	return *m.Previous
}

// Token is a mint tracked by the API. Extensions, Metadata, Stats and Tags are
// passed through untouched since their shape varies per token.
type Token struct {
	Address         string          `json:"address" validate:"required"`
	Decimals        uint8           `json:"decimals"`
	Extensions      json.RawMessage `json:"extensions"`
	FreezeAuthority *string         `json:"freezeAuthority"`
	IsInitialized   bool            `json:"isInitialized"`
	Metadata        json.RawMessage `json:"metadata"`
	MintAuthority   *string         `json:"mintAuthority"`
	PriceUSDC       string          `json:"priceUsdc"`
	Stats           json.RawMessage `json:"stats"`
	Supply          string          `json:"supply"`
	Tags            json.RawMessage `json:"tags"`
	TokenProgram    string          `json:"tokenProgram"`
	UpdatedAt       string          `json:"updatedAt"`
	UpdatedEpoch    uint64          `json:"updatedEpoch"`
}

// LockInfo reports locked liquidity for a whirlpool.
type LockInfo struct {
	LockedPercentage string `json:"lockedPercentage" validate:"required"`
	Name             string `json:"name"`
}

// Whirlpool is a concentrated liquidity pool.
type Whirlpool struct {
	Address                    string                   `json:"address" validate:"required"`
	FeeGrowthGlobalA           string                   `json:"feeGrowthGlobalA"`
	FeeGrowthGlobalB           string                   `json:"feeGrowthGlobalB"`
	FeeRate                    uint32                   `json:"feeRate"`
	Liquidity                  string                   `json:"liquidity"`
	ProtocolFeeOwedA           string                   `json:"protocolFeeOwedA"`
	ProtocolFeeOwedB           string                   `json:"protocolFeeOwedB"`
	ProtocolFeeRate            uint32                   `json:"protocolFeeRate"`
	RewardLastUpdatedTimestamp string                   `json:"rewardLastUpdatedTimestamp"`
	SqrtPrice                  string                   `json:"sqrtPrice"`
	TickCurrentIndex           int32                    `json:"tickCurrentIndex"`
	TickSpacing                uint16                   `json:"tickSpacing"`
	TickSpacingSeed            string                   `json:"tickSpacingSeed"`
	TokenMintA                 string                   `json:"tokenMintA" validate:"required"`
	TokenMintB                 string                   `json:"tokenMintB" validate:"required"`
	TokenVaultA                string                   `json:"tokenVaultA"`
	TokenVaultB                string                   `json:"tokenVaultB"`
	UpdatedAt                  string                   `json:"updatedAt"`
	UpdatedSlot                uint64                   `json:"updatedSlot"`
	WhirlpoolBump              string                   `json:"whirlpoolBump"`
	WhirlpoolsConfig           string                   `json:"whirlpoolsConfig"`
	WriteVersion               string                   `json:"writeVersion"`
	AdaptiveFee                *AdaptiveFee             `json:"adaptiveFee"`
	AdaptiveFeeEnabled         bool                     `json:"adaptiveFeeEnabled"`
	AddressLookupTable         string                   `json:"addressLookupTable"`
	FeeTierIndex               uint32                   `json:"feeTierIndex"`
	HasWarning                 bool                     `json:"hasWarning"`
	LockedLiquidityPercent     []LockInfo               `json:"lockedLiquidityPercent"`
	PoolType                   string                   `json:"poolType"`
	Price                      string                   `json:"price"`
	Rewards                    []Reward                 `json:"rewards"`
	Stats                      map[TimePeriod]PoolStats `json:"stats"`
	TokenA                     SimpleTokenInfo          `json:"tokenA"`
	TokenB                     SimpleTokenInfo          `json:"tokenB"`
	TokenBalanceA              string                   `json:"tokenBalanceA"`
	TokenBalanceB              string                   `json:"tokenBalanceB"`
	TradeEnableTimestamp       string                   `json:"tradeEnableTimestamp"`
	TVLUSDC                    string                   `json:"tvlUsdc"`
	YieldOverTVL               string                   `json:"yieldOverTvl"`
}

// AdaptiveFee describes the dynamic fee state of a pool.
type AdaptiveFee struct {
	Constants   AdaptiveFeeConstants `json:"constants"`
	CurrentRate uint32               `json:"currentRate"`
	MaxRate     uint32               `json:"maxRate"`
	Variables   AdaptiveFeeVariables `json:"variables"`
}

// AdaptiveFeeConstants are the fixed parameters of the adaptive fee curve.
type AdaptiveFeeConstants struct {
	AdaptiveFeeControlFactor uint32 `json:"adaptiveFeeControlFactor"`
	DecayPeriod              uint32 `json:"decayPeriod"`
	FilterPeriod             uint32 `json:"filterPeriod"`
	MajorSwapThresholdTicks  uint32 `json:"majorSwapThresholdTicks"`
	MaxVolatilityAccumulator uint32 `json:"maxVolatilityAccumulator"`
	ReductionFactor          uint32 `json:"reductionFactor"`
	TickGroupSize            uint32 `json:"tickGroupSize"`
}

// AdaptiveFeeVariables is the mutable volatility state behind the adaptive fee.
type AdaptiveFeeVariables struct {
	LastMajorSwapTimestamp       string `json:"lastMajorSwapTimestamp"`
	LastReferenceUpdateTimestamp string `json:"lastReferenceUpdateTimestamp"`
	TickGroupIndexReference      int32  `json:"tickGroupIndexReference"`
	VolatilityAccumulator        uint32 `json:"volatilityAccumulator"`
	VolatilityReference          uint32 `json:"volatilityReference"`
}

// Reward is a liquidity mining reward slot. The API mixes key styles here.
type Reward struct {
	Authority             string `json:"authority"`
	EmissionsPerSecondX64 string `json:"emissions_per_second_x64"`
	GrowthGlobalX64       string `json:"growth_global_x64"`
	Mint                  string `json:"mint"`
	Vault                 string `json:"vault"`
	Active                bool   `json:"active"`
	EmissionsPerSecond    string `json:"emissionsPerSecond"`
}

// PoolStats are the fee, reward and volume figures of a pool for one window.
type PoolStats struct {
	Fees         string `json:"fees"`
	Rewards      string `json:"rewards"`
	Volume       string `json:"volume"`
	YieldOverTVL string `json:"yieldOverTvl"`
}

// SimpleTokenInfo is the token summary embedded in a pool.
type SimpleTokenInfo struct {
	Address   string          `json:"address"`
	Decimals  uint8           `json:"decimals"`
	ImageURL  string          `json:"imageUrl"`
	Name      string          `json:"name"`
	ProgramID string          `json:"programId"`
	Symbol    string          `json:"symbol"`
	Tags      json.RawMessage `json:"tags"`
}

// TimePeriod is a statistics window accepted by the pool endpoints.
type TimePeriod string

const (
	Period5m  TimePeriod = "5m"
	Period15m TimePeriod = "15m"
	Period30m TimePeriod = "30m"
	Period1h  TimePeriod = "1h"
	Period2h  TimePeriod = "2h"
	Period4h  TimePeriod = "4h"
	Period8h  TimePeriod = "8h"
	Period12h TimePeriod = "12h"
	Period24h TimePeriod = "24h"
)

// TimePeriods lists every supported window, shortest first.
func TimePeriods() []TimePeriod {
	return []TimePeriod{
		Period5m, Period15m, Period30m, Period1h, Period2h,
		Period4h, Period8h, Period12h, Period24h,
	}
}

// Valid reports whether p is a window the API understands.
func (p TimePeriod) Valid() bool {
	for _, known := range TimePeriods() {
		if p == known {
			return true
		}
	}
	return false
}
