// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"

	"github.com/vechain/nftstaking/thor"
)

// Tier is a step of the APY ladder. Rate is scaled by thor.RateScale.
type Tier struct {
	Amount *big.Int `json:"amount"`
	Rate   *big.Int `json:"rate"`
}

// RateFor returns the rate of the first tier whose threshold is above amount, or the
// last tier's rate once amount reaches the last threshold.
// Amounts below the first threshold earn nothing.
func RateFor(tiers []Tier, amount *big.Int) *big.Int {
	if len(tiers) == 0 || amount.Cmp(tiers[0].Amount) < 0 {
		return new(big.Int)
	}
	for _, t := range tiers {
		if t.Amount.Cmp(amount) > 0 {
			return new(big.Int).Set(t.Rate)
		}
	}
	return new(big.Int).Set(tiers[len(tiers)-1].Rate)
}

// ValidateTiers checks thresholds and rates are positive and strictly ascending.
func ValidateTiers(tiers []Tier) error {
	var prev *Tier
	for i := range tiers {
		t := &tiers[i]
		if t.Amount == nil || t.Amount.Sign() <= 0 || thor.CheckedU256(t.Amount) != nil {
			return ErrInvalidTierAmount
		}
		if t.Rate == nil || t.Rate.Sign() <= 0 || thor.CheckedU256(t.Rate) != nil {
			return ErrInvalidTierRate
		}
		if prev != nil {
			if t.Amount.Cmp(prev.Amount) <= 0 {
				return ErrInvalidTierAmount
			}
			if t.Rate.Cmp(prev.Rate) < 0 {
				return ErrInvalidTierRate
			}
		}
		prev = t
	}
	return nil
}
