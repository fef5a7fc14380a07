// Package rarity scores and values time slices.
//
// Score weights a slice by duration and by the historical and special
// events the caller found for its interval. EstimateValue is the market
// estimate derived from an existing rarity score. The two formulas serve
// different call sites and are intentionally independent.
package rarity

import (
	"math"
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/photon-storage/stime/asset"
	"github.com/photon-storage/stime/config"
)

const (
	// Multipliers are kept in tenths so scoring stays in integers.
	historicalWeight = 1 // 0.1
	specialWeight    = 5 // 0.5
	unitWeight       = 10
)

var (
	valueStep = decimal.New(1, -1) // 0.1 per rarity point
	maxScore  = new(big.Int).SetUint64(math.MaxUint64)
)

// Engine computes rarity and value using the policy's MinDuration as the
// base unit.
type Engine struct {
	minDuration time.Duration
}

// NewEngine returns an engine bound to policy.
func NewEngine(policy config.Policy) *Engine {
	return &Engine{minDuration: policy.MinDuration}
}

// Score returns floor(d/MinDuration * (1 + 0.1*historical + 0.5*special)).
// The computation is exact; negative durations score zero and results that
// do not fit in a uint64 saturate.
func (e *Engine) Score(d time.Duration, historical, special uint64) uint64 {
	if d <= 0 {
		return 0
	}

	mult := new(big.Int).SetUint64(historical)
	mult.Mul(mult, big.NewInt(historicalWeight))
	mult.Add(mult, new(big.Int).Mul(new(big.Int).SetUint64(special), big.NewInt(specialWeight)))
	mult.Add(mult, big.NewInt(unitWeight))

	num := new(big.Int).Mul(big.NewInt(int64(d)), mult)
	den := new(big.Int).Mul(big.NewInt(int64(e.minDuration)), big.NewInt(unitWeight))
	score := num.Quo(num, den)
	if score.Cmp(maxScore) > 0 {
		return math.MaxUint64
	}

	return score.Uint64()
}

// EstimateValue returns duration/MinDuration * (1 + 0.1*RarityScore).
func (e *Engine) EstimateValue(s asset.TimeSlice) decimal.Decimal {
	base := decimal.NewFromInt(int64(s.Duration())).
		Div(decimal.NewFromInt(int64(e.minDuration)))
	mult := decimal.NewFromInt(1).
		Add(valueStep.Mul(decimal.NewFromBigInt(new(big.Int).SetUint64(s.RarityScore), 0)))

	return base.Mul(mult)
}
