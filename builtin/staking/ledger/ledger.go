// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/vechain/nftstaking/builtin/reverts"
	"github.com/vechain/nftstaking/thor"
)

// Tier classifies a card for the per transaction quotas.
type Tier uint8

const (
	TierLower Tier = iota
	TierHigher
)

// Valid reports whether the tier is lower or higher.
func (t Tier) Valid() bool {
	return t == TierLower || t == TierHigher
}

func (t Tier) String() string {
	switch t {
	case TierLower:
		return "lower"
	case TierHigher:
		return "higher"
	}
	return "invalid"
}

var (
	ErrAlreadyStaked = reverts.NewRequireError("token is already staked")
	ErrCardNotStaked = reverts.NewRequireError("token is not staked")
	ErrInvalidCard   = reverts.NewRequireError("invalid card id")
	ErrInvalidTier   = reverts.NewRequireError("invalid tier")
)

// Stake is the custody record of a card.
type Stake struct {
	Owner     thor.Address
	Principal *big.Int
	Tier      Tier
	StakedAt  uint64
}

// Checkpoint is the reward bookkeeping of a user in a pool.
type Checkpoint struct {
	Principal   *big.Int
	Accrued     *big.Int
	LastSettled uint64
	Higher      []*big.Int
	Lower       []*big.Int
}

func (c *Checkpoint) normalize() *Checkpoint {
	if c.Principal == nil {
		c.Principal = new(big.Int)
	}
	if c.Accrued == nil {
		c.Accrued = new(big.Int)
	}
	return c
}

// IsEmpty returns whether nothing is staked nor owed.
func (c *Checkpoint) IsEmpty() bool {
	return c.Principal.Sign() == 0 && c.Accrued.Sign() == 0 && len(c.Higher) == 0 && len(c.Lower) == 0
}

// Cards returns count of staked cards.
func (c *Checkpoint) Cards() int {
	return len(c.Higher) + len(c.Lower)
}

// RateFunc returns the annual rate unlocked by a principal total.
type RateFunc func(principal *big.Int) *big.Int

var yearScale = new(big.Int).Mul(new(big.Int).SetUint64(thor.SecondsPerYear), thor.RateScale)

// Accrue computes principal * rate * elapsed / secondsPerYear, rate scaled by 1e18.
func Accrue(principal, rate *big.Int, elapsed uint64) *big.Int {
	if elapsed == 0 || principal.Sign() == 0 || rate.Sign() == 0 {
		return new(big.Int)
	}
	v := new(big.Int).Mul(principal, rate)
	v.Mul(v, new(big.Int).SetUint64(elapsed))
	return v.Quo(v, yearScale)
}

// pending returns reward earned since the last settlement.
func (c *Checkpoint) pending(rate RateFunc, now uint64) *big.Int {
	if now <= c.LastSettled {
		return new(big.Int)
	}
	return Accrue(c.Principal, rate(c.Principal), now-c.LastSettled)
}
