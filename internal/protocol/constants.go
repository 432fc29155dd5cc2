package protocol

import (
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	// GenesisTimestamp is the start of day 0 (2020-12-13T00:00:00Z).
	GenesisTimestamp uint64 = 1607817600
	// DaySeconds is the width of one snapshot bucket.
	DaySeconds uint64 = 86400
	// TokenDecimals is the number of base-unit digits of one token.
	TokenDecimals int32 = 18
	// CutDivider converts cut parameters expressed in millionths.
	CutDivider int64 = 1_000_000
	// DelegationRatio is the delegation capacity multiplier over own stake.
	DelegationRatio int64 = 16
	// RatioPrecision is the number of fractional digits kept by divisions.
	RatioPrecision int32 = 18
)

// Constants are the fixed protocol parameters every ledger component is computed against.
// Build one at startup and pass it down; the value is never mutated.
type Constants struct {
	Genesis         uint64
	DaySeconds      uint64
	TokenDecimals   int32
	CutDivider      decimal.Decimal
	DelegationRatio decimal.Decimal
	RatioPrecision  int32
}

// Default returns the mainnet protocol constants.
func Default() Constants {
	return Constants{
		Genesis:         GenesisTimestamp,
		DaySeconds:      DaySeconds,
		TokenDecimals:   TokenDecimals,
		CutDivider:      decimal.NewFromInt(CutDivider),
		DelegationRatio: decimal.NewFromInt(DelegationRatio),
		RatioPrecision:  RatioPrecision,
	}
}

// WithGenesis returns a copy using a different genesis timestamp.
func (c Constants) WithGenesis(genesis uint64) Constants {
	c.Genesis = genesis
	return c
}

// WithDelegationRatio returns a copy using a different capacity multiplier.
func (c Constants) WithDelegationRatio(ratio int64) Constants {
	c.DelegationRatio = decimal.NewFromInt(ratio)
	return c
}

// BeforeGenesis reports whether ts precedes the first bucket.
func (c Constants) BeforeGenesis(ts uint64) bool {
	return ts < c.Genesis
}

// DayIndex maps a unix timestamp to its bucket relative to genesis.
// Timestamps before genesis floor towards negative infinity.
func (c Constants) DayIndex(ts uint64) int64 {
	day := int64(c.DaySeconds)
	if ts >= c.Genesis {
		return int64(ts-c.Genesis) / day
	}
	behind := int64(c.Genesis - ts)
	return -((behind + day - 1) / day)
}

// BucketStart returns the first second of a day bucket.
func (c Constants) BucketStart(dayIndex int64) uint64 {
	return uint64(int64(c.Genesis) + dayIndex*int64(c.DaySeconds))
}

// TokenAmount converts base units into whole tokens. The conversion is exact.
func (c Constants) TokenAmount(raw *big.Int) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -c.TokenDecimals)
}

// FeeCutRatio converts a cut parameter in millionths into a ratio.
func (c Constants) FeeCutRatio(raw uint32) decimal.Decimal {
	return c.Ratio(decimal.NewFromInt(int64(raw)), c.CutDivider)
}

// Ratio divides num by den, returning zero when den is zero.
func (c Constants) Ratio(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.DivRound(den, c.RatioPrecision)
}
