// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/vechain/nftstaking/builtin/staking/ledger"
	"github.com/vechain/nftstaking/builtin/staking/pool"
	"github.com/vechain/nftstaking/thor"
)

// PoolData is the pool level summary.
type PoolData struct {
	TotalStaked *big.Int
	PoolSize    *big.Int
	Remaining   *big.Int
	RoiMin      *big.Int
	RoiMax      *big.Int
}

// UserData is the summary of a user in a pool.
type UserData struct {
	Rate        *big.Int
	StakedCards uint64
	Principal   *big.Int
}

// Pool returns the pool with the given id.
func (s *Staking) Pool(poolID uint64) (*pool.Pool, error) {
	return s.pools.Get(poolID)
}

// PoolCount returns the number of pools created so far.
func (s *Staking) PoolCount() (uint64, error) {
	return s.pools.Count()
}

// Params returns the deployment parameters in force.
func (s *Staking) Params() (*Params, error) {
	return loadParams(s.sctx)
}

// Signer returns the trusted attestation signer, zero if never set.
func (s *Staking) Signer() (thor.Address, error) {
	return s.signer.Get()
}

// StakeRecord returns the record of a card in custody, nil if it is not staked in the pool.
func (s *Staking) StakeRecord(poolID uint64, cardID *big.Int) (*ledger.Stake, error) {
	if _, err := s.pools.Get(poolID); err != nil {
		return nil, err
	}
	return s.ledger.GetStake(poolID, cardID)
}

// GetReward returns what the user would be paid if settled at now.
func (s *Staking) GetReward(poolID uint64, user thor.Address, now uint64) (*big.Int, error) {
	p, err := s.pools.Get(poolID)
	if err != nil {
		return nil, err
	}
	return s.ledger.Reward(poolID, user, p.RateFor, now)
}

// GetPoolData returns the pool level summary.
func (s *Staking) GetPoolData(poolID uint64) (*PoolData, error) {
	p, err := s.pools.Get(poolID)
	if err != nil {
		return nil, err
	}
	return &PoolData{
		TotalStaked: p.TotalStaked,
		PoolSize:    p.Size,
		Remaining:   p.Remaining(),
		RoiMin:      p.RoiMin(),
		RoiMax:      p.RoiMax(),
	}, nil
}

// GetPoolData2 returns the effective rate, card count and principal of the user.
func (s *Staking) GetPoolData2(poolID uint64, user thor.Address) (*UserData, error) {
	p, err := s.pools.Get(poolID)
	if err != nil {
		return nil, err
	}
	cp, err := s.ledger.GetCheckpoint(poolID, user)
	if err != nil {
		return nil, err
	}
	return &UserData{
		Rate:        p.RateFor(cp.Principal),
		StakedCards: uint64(cp.Cards()),
		Principal:   cp.Principal,
	}, nil
}

// GetUserCardsStaked returns the cards of the user, higher tier first.
func (s *Staking) GetUserCardsStaked(poolID uint64, user thor.Address) (higher, lower []*big.Int, err error) {
	if _, err := s.pools.Get(poolID); err != nil {
		return nil, nil, err
	}
	return s.ledger.CardsByTier(poolID, user)
}

// GetApyByStake returns the rate the pool applies to a balance of amount.
func (s *Staking) GetApyByStake(poolID uint64, amount *big.Int) (*big.Int, error) {
	p, err := s.pools.Get(poolID)
	if err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() < 0 {
		return nil, ErrInvalidInput
	}
	return p.RateFor(amount), nil
}
