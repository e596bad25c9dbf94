// Package pricing computes share purchase prices.
//
// The effective per-share price never drops below the proceeds already
// distributed per share, so a late buyer cannot acquire shares for less
// than the dividends those shares have already carried.
package pricing

import (
	"errors"
	"math/big"
)

var (
	// ErrZeroAmount indicates a quote for zero shares.
	ErrZeroAmount = errors.New("pricing: zero share amount")

	// ErrInvalidPrice indicates a missing or non-positive base price.
	ErrInvalidPrice = errors.New("pricing: invalid base price")
)

// EffectivePrice returns max(base, cumulativePerShare).
func EffectivePrice(base, cumulativePerShare *big.Int) *big.Int {
	if cumulativePerShare != nil && cumulativePerShare.Cmp(base) > 0 {
		return new(big.Int).Set(cumulativePerShare)
	}
	return new(big.Int).Set(base)
}

// Quote returns the total price of amount shares.
func Quote(base, cumulativePerShare *big.Int, amount uint64) (*big.Int, error) {
	if base == nil || base.Sign() <= 0 {
		return nil, ErrInvalidPrice
	}
	if amount == 0 {
		return nil, ErrZeroAmount
	}
	p := EffectivePrice(base, cumulativePerShare)
	return p.Mul(p, new(big.Int).SetUint64(amount)), nil
}
