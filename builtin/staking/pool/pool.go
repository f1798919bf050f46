// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"

	"github.com/vechain/nftstaking/thor"
)

// Status is the lifecycle stage of a pool, driven by wall-clock time.
type Status string

const (
	StatusPending Status = "pending"
	StatusOpen    Status = "open"
	StatusClosed  Status = "closed"
)

// Pool is the configuration and capacity accounting of a staking pool.
type Pool struct {
	Name           string
	Tiers          []Tier
	Collection     thor.Address
	StakingToken   thor.Address
	RewardToken    thor.Address
	Size           *big.Int
	MaxHigherPerTx uint64
	MaxLowerPerTx  uint64
	OpenTime       uint64
	CloseTime      uint64
	TotalStaked    *big.Int
}

func (p *Pool) validate() error {
	if p.OpenTime >= p.CloseTime {
		return ErrInvalidWindow
	}
	if p.Collection.IsZero() || p.StakingToken.IsZero() || p.RewardToken.IsZero() {
		return ErrInvalidAsset
	}
	if p.Size == nil || p.Size.Sign() < 0 || thor.CheckedU256(p.Size) != nil {
		return ErrInvalidInput
	}
	return ValidateTiers(p.Tiers)
}

// Remaining returns capacity still available.
func (p *Pool) Remaining() *big.Int {
	return new(big.Int).Sub(p.Size, p.TotalStaked)
}

// RoiMin returns the rate of the first tier, zero for a flat pool.
func (p *Pool) RoiMin() *big.Int {
	if len(p.Tiers) == 0 {
		return new(big.Int)
	}
	return new(big.Int).Set(p.Tiers[0].Rate)
}

// RoiMax returns the rate of the last tier, zero for a flat pool.
func (p *Pool) RoiMax() *big.Int {
	if len(p.Tiers) == 0 {
		return new(big.Int)
	}
	return new(big.Int).Set(p.Tiers[len(p.Tiers)-1].Rate)
}

// RateFor returns the rate unlocked by amount.
func (p *Pool) RateFor(amount *big.Int) *big.Int {
	return RateFor(p.Tiers, amount)
}

// Status returns the lifecycle stage at time now.
func (p *Pool) Status(now uint64) Status {
	switch {
	case now < p.OpenTime:
		return StatusPending
	case now > p.CloseTime:
		return StatusClosed
	default:
		return StatusOpen
	}
}

// AssertOpen fails unless the pool accepts stakes at time now.
func (p *Pool) AssertOpen(now uint64) error {
	switch p.Status(now) {
	case StatusPending:
		return ErrPoolNotStarted
	case StatusClosed:
		return ErrPoolClosed
	}
	return nil
}
