// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/nftstaking/builtin/solidity"
	"github.com/vechain/nftstaking/thor"
)

var (
	slotStakes      = thor.BytesToBytes32([]byte("stakes"))
	slotCheckpoints = thor.BytesToBytes32([]byte("checkpoints"))
)

// Service is the stake ledger.
type Service struct {
	stakes      *solidity.Mapping[thor.Bytes32, *Stake]
	checkpoints *solidity.Mapping[thor.Bytes32, *Checkpoint]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		stakes:      solidity.NewMapping[thor.Bytes32, *Stake](sctx, slotStakes),
		checkpoints: solidity.NewMapping[thor.Bytes32, *Checkpoint](sctx, slotCheckpoints),
	}
}

func poolPrefix(poolID uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], poolID)
	return b[:]
}

func stakeKey(poolID uint64, cardID *big.Int) thor.Bytes32 {
	id := thor.BytesToBytes32(cardID.Bytes())
	return thor.Blake2b(poolPrefix(poolID), id[:])
}

func checkpointKey(poolID uint64, user thor.Address) thor.Bytes32 {
	return thor.Blake2b(poolPrefix(poolID), user[:])
}

func validCard(cardID *big.Int) bool {
	return cardID != nil && cardID.Sign() > 0 && thor.CheckedU256(cardID) == nil
}

// GetStake returns the live record of a card, nil if the card is not staked.
func (s *Service) GetStake(poolID uint64, cardID *big.Int) (*Stake, error) {
	if !validCard(cardID) {
		return nil, ErrInvalidCard
	}
	st, err := s.stakes.Get(stakeKey(poolID, cardID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get stake")
	}
	if st.Owner.IsZero() {
		return nil, nil
	}
	return st, nil
}

// GetCheckpoint returns the checkpoint of user, zero valued if the user never staked.
func (s *Service) GetCheckpoint(poolID uint64, user thor.Address) (*Checkpoint, error) {
	cp, err := s.checkpoints.Get(checkpointKey(poolID, user))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get checkpoint")
	}
	return cp.normalize(), nil
}

func (s *Service) setCheckpoint(poolID uint64, user thor.Address, cp *Checkpoint) error {
	if cp.IsEmpty() {
		s.checkpoints.Delete(checkpointKey(poolID, user))
		return nil
	}
	if err := s.checkpoints.Set(checkpointKey(poolID, user), cp); err != nil {
		return errors.Wrap(err, "failed to set checkpoint")
	}
	return nil
}

// Reward returns what Settle would yield at now, without mutation.
func (s *Service) Reward(poolID uint64, user thor.Address, rate RateFunc, now uint64) (*big.Int, error) {
	cp, err := s.GetCheckpoint(poolID, user)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Add(cp.Accrued, cp.pending(rate, now)), nil
}

func (s *Service) settle(cp *Checkpoint, rate RateFunc, now uint64) {
	cp.Accrued.Add(cp.Accrued, cp.pending(rate, now))
	if now > cp.LastSettled {
		cp.LastSettled = now
	}
}

// Settle moves reward earned since the last settlement into the accrued balance
// and returns the accrued total.
func (s *Service) Settle(poolID uint64, user thor.Address, rate RateFunc, now uint64) (*big.Int, error) {
	cp, err := s.GetCheckpoint(poolID, user)
	if err != nil {
		return nil, err
	}
	s.settle(cp, rate, now)
	if err := s.setCheckpoint(poolID, user, cp); err != nil {
		return nil, err
	}
	return new(big.Int).Set(cp.Accrued), nil
}

// Claim resets the accrued balance and returns it. Callers settle first.
func (s *Service) Claim(poolID uint64, user thor.Address) (*big.Int, error) {
	cp, err := s.GetCheckpoint(poolID, user)
	if err != nil {
		return nil, err
	}
	claimed := cp.Accrued
	cp.Accrued = new(big.Int)
	if err := s.setCheckpoint(poolID, user, cp); err != nil {
		return nil, err
	}
	return claimed, nil
}

// RecordStake creates the record of a card, settling the user at the rate of the old principal first.
func (s *Service) RecordStake(
	poolID uint64,
	user thor.Address,
	cardID *big.Int,
	principal *big.Int,
	tier Tier,
	rate RateFunc,
	now uint64,
) error {
	if !tier.Valid() {
		return ErrInvalidTier
	}
	existing, err := s.GetStake(poolID, cardID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrAlreadyStaked
	}

	cp, err := s.GetCheckpoint(poolID, user)
	if err != nil {
		return err
	}
	s.settle(cp, rate, now)

	id := new(big.Int).Set(cardID)
	cp.Principal.Add(cp.Principal, principal)
	if tier == TierHigher {
		cp.Higher = append(cp.Higher, id)
	} else {
		cp.Lower = append(cp.Lower, id)
	}

	if err := s.stakes.Set(stakeKey(poolID, cardID), &Stake{
		Owner:     user,
		Principal: new(big.Int).Set(principal),
		Tier:      tier,
		StakedAt:  now,
	}); err != nil {
		return errors.Wrap(err, "failed to set stake")
	}
	return s.setCheckpoint(poolID, user, cp)
}

// RemoveStake settles the user then deletes the record of a card owned by user.
func (s *Service) RemoveStake(
	poolID uint64,
	user thor.Address,
	cardID *big.Int,
	rate RateFunc,
	now uint64,
) (*Stake, error) {
	st, err := s.GetStake(poolID, cardID)
	if err != nil {
		return nil, err
	}
	if st == nil || st.Owner != user {
		return nil, ErrCardNotStaked
	}

	cp, err := s.GetCheckpoint(poolID, user)
	if err != nil {
		return nil, err
	}
	s.settle(cp, rate, now)

	cp.Principal.Sub(cp.Principal, st.Principal)
	if st.Tier == TierHigher {
		cp.Higher = removeID(cp.Higher, cardID)
	} else {
		cp.Lower = removeID(cp.Lower, cardID)
	}

	s.stakes.Delete(stakeKey(poolID, cardID))
	if err := s.setCheckpoint(poolID, user, cp); err != nil {
		return nil, err
	}
	return st, nil
}

// CardsByTier returns ids classified higher, then ids classified lower, in staking order.
func (s *Service) CardsByTier(poolID uint64, user thor.Address) (higher, lower []*big.Int, err error) {
	cp, err := s.GetCheckpoint(poolID, user)
	if err != nil {
		return nil, nil, err
	}
	return cp.Higher, cp.Lower, nil
}

func removeID(ids []*big.Int, id *big.Int) []*big.Int {
	for i, v := range ids {
		if v.Cmp(id) == 0 {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
