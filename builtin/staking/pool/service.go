// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/nftstaking/builtin/solidity"
	"github.com/vechain/nftstaking/thor"
)

var (
	slotPools        = thor.BytesToBytes32([]byte("pools"))
	slotPoolsCounter = thor.BytesToBytes32([]byte("pools-counter"))
)

// Service is the pool registry.
type Service struct {
	pools   *solidity.Mapping[thor.Bytes32, *Pool]
	counter *solidity.Uint256
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		pools:   solidity.NewMapping[thor.Bytes32, *Pool](sctx, slotPools),
		counter: solidity.NewUint256(sctx, slotPoolsCounter),
	}
}

func poolKey(id uint64) thor.Bytes32 {
	return thor.Uint64ToBytes32(id)
}

// Count returns the number of pools ever created. Ids are 0 based and sequential.
func (s *Service) Count() (uint64, error) {
	n, err := s.counter.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get pools counter")
	}
	return n.Uint64(), nil
}

// Get returns the pool. ErrPoolNotFound is returned for unassigned ids.
func (s *Service) Get(id uint64) (*Pool, error) {
	count, err := s.Count()
	if err != nil {
		return nil, err
	}
	if id >= count {
		return nil, ErrPoolNotFound
	}
	p, err := s.pools.Get(poolKey(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pool")
	}
	if p.TotalStaked == nil {
		p.TotalStaked = new(big.Int)
	}
	if p.Size == nil {
		p.Size = new(big.Int)
	}
	return p, nil
}

// Create validates and stores a new pool, returning its id.
func (s *Service) Create(p *Pool) (uint64, error) {
	if err := p.validate(); err != nil {
		return 0, err
	}
	id, err := s.Count()
	if err != nil {
		return 0, err
	}
	p.TotalStaked = new(big.Int)
	if err := s.pools.Set(poolKey(id), p); err != nil {
		return 0, errors.Wrap(err, "failed to set pool")
	}
	s.counter.Set(new(big.Int).SetUint64(id + 1))
	return id, nil
}

// Rename changes the display name, the only mutable attribute.
func (s *Service) Rename(id uint64, name string) error {
	p, err := s.Get(id)
	if err != nil {
		return err
	}
	p.Name = name
	return s.pools.Set(poolKey(id), p)
}

// ReserveCapacity adds amount to the running total.
func (s *Service) ReserveCapacity(id uint64, amount *big.Int) error {
	p, err := s.Get(id)
	if err != nil {
		return err
	}
	total := new(big.Int).Add(p.TotalStaked, amount)
	if total.Cmp(p.Size) > 0 {
		return ErrPoolCapacityExceeded
	}
	p.TotalStaked = total
	return s.pools.Set(poolKey(id), p)
}

// ReleaseCapacity subtracts amount from the running total.
func (s *Service) ReleaseCapacity(id uint64, amount *big.Int) error {
	p, err := s.Get(id)
	if err != nil {
		return err
	}
	total := new(big.Int).Sub(p.TotalStaked, amount)
	if total.Sign() < 0 {
		return errors.New("released more than staked")
	}
	p.TotalStaked = total
	return s.pools.Set(poolKey(id), p)
}
