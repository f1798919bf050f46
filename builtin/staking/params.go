// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/vechain/nftstaking/builtin/solidity"
	"github.com/vechain/nftstaking/thor"
)

var (
	// DefaultMinStake is the minimum aggregate principal of a stake request.
	DefaultMinStake = thor.Ether(1000)
	// DefaultLockDuration is the period, in seconds, during which a withdrawal is penalized.
	DefaultLockDuration uint64 = 30 * 24 * 3600
	// DefaultPenaltyRate is the early withdrawal fee, 2% on the 1e18 scale.
	DefaultPenaltyRate = new(big.Int).Div(thor.RateScale, big.NewInt(50))

	cfgMinStake     = solidity.NewConfigVariable("staking-min-stake", DefaultMinStake)
	cfgLockDuration = solidity.NewConfigVariable("staking-lock-duration", new(big.Int).SetUint64(DefaultLockDuration))
	cfgPenaltyRate  = solidity.NewConfigVariable("staking-penalty-rate", DefaultPenaltyRate)
)

// Params are the deployment parameters of the engine.
type Params struct {
	MinStake     *big.Int
	LockDuration uint64
	PenaltyRate  *big.Int
}

// DefaultParams returns the compiled-in parameters.
func DefaultParams() *Params {
	return &Params{
		MinStake:     new(big.Int).Set(DefaultMinStake),
		LockDuration: DefaultLockDuration,
		PenaltyRate:  new(big.Int).Set(DefaultPenaltyRate),
	}
}

func (p *Params) validate() error {
	if p.MinStake == nil || p.MinStake.Sign() < 0 || thor.CheckedU256(p.MinStake) != nil {
		return ErrInvalidInput
	}
	if p.PenaltyRate == nil || p.PenaltyRate.Sign() < 0 || p.PenaltyRate.Cmp(thor.RateScale) > 0 {
		return ErrInvalidInput
	}
	return nil
}

// Penalty returns the fee charged on principal for a card staked at stakedAt and withdrawn at now.
func (p *Params) Penalty(principal *big.Int, stakedAt, now uint64) *big.Int {
	if now >= stakedAt && now-stakedAt >= p.LockDuration {
		return new(big.Int)
	}
	fee := new(big.Int).Mul(principal, p.PenaltyRate)
	return fee.Quo(fee, thor.RateScale)
}

func loadParams(sctx *solidity.Context) (*Params, error) {
	minStake, err := cfgMinStake.Get(sctx)
	if err != nil {
		return nil, err
	}
	lock, err := cfgLockDuration.Get(sctx)
	if err != nil {
		return nil, err
	}
	penalty, err := cfgPenaltyRate.Get(sctx)
	if err != nil {
		return nil, err
	}
	return &Params{
		MinStake:     minStake,
		LockDuration: lock.Uint64(),
		PenaltyRate:  penalty,
	}, nil
}

func storeParams(sctx *solidity.Context, p *Params) error {
	if err := p.validate(); err != nil {
		return err
	}
	if err := cfgMinStake.Override(sctx, p.MinStake); err != nil {
		return err
	}
	if err := cfgLockDuration.Override(sctx, new(big.Int).SetUint64(p.LockDuration)); err != nil {
		return err
	}
	return cfgPenaltyRate.Override(sctx, p.PenaltyRate)
}
