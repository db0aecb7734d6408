package services

import (
	"github.com/shopspring/decimal"

	"pointsdesk/domain/interfaces"
)

// FlatMarginPolicy subtracts a fixed house margin from the raw market odds
// and floors the result at the minimum payable odds, so a winning ticket can
// never pay out less than its stake.
type FlatMarginPolicy struct {
	margin decimal.Decimal
	floor  decimal.Decimal
}

func NewFlatMarginPolicy(margin decimal.Decimal) interfaces.OddsPolicy {
	return &FlatMarginPolicy{
		margin: margin,
		floor:  decimal.NewFromInt(1),
	}
}

// DefaultOddsPolicy applies the house standard 0.10 margin.
func DefaultOddsPolicy() interfaces.OddsPolicy {
	return NewFlatMarginPolicy(decimal.NewFromFloat(0.1))
}

func (p *FlatMarginPolicy) AdjustOdds(raw decimal.Decimal) decimal.Decimal {
	adjusted := raw.Sub(p.margin)
	if adjusted.LessThan(p.floor) {
		return p.floor
	}
	return adjusted
}
