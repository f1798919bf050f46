// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/nftstaking/builtin/authority"
	"github.com/vechain/nftstaking/builtin/solidity"
	"github.com/vechain/nftstaking/builtin/staking/ledger"
	"github.com/vechain/nftstaking/builtin/staking/pool"
	"github.com/vechain/nftstaking/builtin/token"
	"github.com/vechain/nftstaking/cry"
	"github.com/vechain/nftstaking/log"
	"github.com/vechain/nftstaking/state"
	"github.com/vechain/nftstaking/thor"
	"github.com/vechain/nftstaking/xenv"
)

var (
	logger = log.New("pkg", "staking")

	slotSigner = thor.BytesToBytes32([]byte("signer"))
)

// Staking implements the NFT collateralized staking engine.
// It holds staked cards and tokens in custody at its own address.
type Staking struct {
	addr     thor.Address
	state    *state.State
	sctx     *solidity.Context
	auth     *authority.Authority
	pools    *pool.Service
	ledger   *ledger.Service
	signer   *solidity.Address
	verifier *Verifier
}

// New create a new instance.
func New(addr thor.Address, state *state.State, auth *authority.Authority, signing *cry.Signing) *Staking {
	sctx := solidity.NewContext(addr, state)
	return &Staking{
		addr:     addr,
		state:    state,
		sctx:     sctx,
		auth:     auth,
		pools:    pool.New(sctx),
		ledger:   ledger.New(sctx),
		signer:   solidity.NewAddress(sctx, slotSigner),
		verifier: NewVerifier(signing),
	}
}

// Address returns the custody address.
func (s *Staking) Address() thor.Address {
	return s.addr
}

// atomic runs fn and reverts every state change it made if it fails.
func (s *Staking) atomic(fn func() error) error {
	checkpoint := s.state.NewCheckpoint()
	if err := fn(); err != nil {
		s.state.RevertTo(checkpoint)
		return err
	}
	return nil
}

func (s *Staking) requireAdmin(caller thor.Address) error {
	return s.auth.Require(authority.RoleAdmin, caller)
}

// InitParams stores deployment parameters without any caller check. Used when building genesis.
func (s *Staking) InitParams(p *Params) error {
	return storeParams(s.sctx, p)
}

// InitSigner stores the trusted signer without any caller check. Used when building genesis.
func (s *Staking) InitSigner(signer thor.Address) {
	s.signer.Set(&signer)
}

// SetParams replaces the deployment parameters.
func (s *Staking) SetParams(env *xenv.Environment, p *Params) error {
	return s.atomic(func() error {
		if err := s.requireAdmin(env.Caller()); err != nil {
			return err
		}
		if err := storeParams(s.sctx, p); err != nil {
			return err
		}
		env.Emit(&ParamsSet{
			MinStake:     p.MinStake,
			LockDuration: p.LockDuration,
			PenaltyRate:  p.PenaltyRate,
		})
		return nil
	})
}

// SetSigner rotates the trusted attestation signer, effective immediately.
func (s *Staking) SetSigner(env *xenv.Environment, signer thor.Address) error {
	return s.atomic(func() error {
		if err := s.requireAdmin(env.Caller()); err != nil {
			return err
		}
		if signer.IsZero() {
			return ErrInvalidInput
		}
		logger.Debug("setting signer", "signer", signer)
		s.signer.Set(&signer)
		env.Emit(&SignerSet{Signer: signer})
		logger.Info("signer set", "signer", signer)
		return nil
	})
}

func (s *Staking) assetDeployed(addr thor.Address, collection bool) error {
	if addr.IsZero() {
		return nil
	}
	var err error
	if collection {
		_, err = token.NewCollection(addr, s.state).Metadata()
	} else {
		_, err = token.NewFungible(addr, s.state).Metadata()
	}
	if err == token.ErrNotDeployed {
		return ErrInvalidAsset
	}
	return err
}

// CreatePool registers a pool and returns its id.
func (s *Staking) CreatePool(env *xenv.Environment, p *pool.Pool) (id uint64, err error) {
	err = s.atomic(func() error {
		if err := s.requireAdmin(env.Caller()); err != nil {
			return err
		}
		if err := s.assetDeployed(p.Collection, true); err != nil {
			return err
		}
		if err := s.assetDeployed(p.StakingToken, false); err != nil {
			return err
		}
		if err := s.assetDeployed(p.RewardToken, false); err != nil {
			return err
		}

		logger.Debug("creating pool", "name", p.Name, "collection", p.Collection, "size", p.Size)
		if id, err = s.pools.Create(p); err != nil {
			logger.Info("failed to create pool", "name", p.Name, "error", err)
			return err
		}
		env.Emit(&PoolCreated{
			PoolID:         id,
			Name:           p.Name,
			Collection:     p.Collection,
			StakingToken:   p.StakingToken,
			RewardToken:    p.RewardToken,
			PoolSize:       p.Size,
			MaxHigherPerTx: p.MaxHigherPerTx,
			MaxLowerPerTx:  p.MaxLowerPerTx,
			OpenTime:       p.OpenTime,
			CloseTime:      p.CloseTime,
		})
		env.Emit(&TiersSet{PoolID: id, Tiers: p.Tiers})
		logger.Info("pool created", "id", id, "name", p.Name)
		return nil
	})
	return
}

// UpdatePool renames the pool.
func (s *Staking) UpdatePool(env *xenv.Environment, poolID uint64, name string) error {
	return s.atomic(func() error {
		if err := s.requireAdmin(env.Caller()); err != nil {
			return err
		}
		if err := s.pools.Rename(poolID, name); err != nil {
			return err
		}
		env.Emit(&PoolUpdated{PoolID: poolID, Name: name})
		logger.Info("pool updated", "id", poolID, "name", name)
		return nil
	})
}

func (s *Staking) checkPayload(p *Payload) error {
	n := len(p.IDs)
	if n == 0 || len(p.Prices) != n || len(p.Tiers) != n {
		return ErrInvalidInput
	}
	for i := range n {
		if p.IDs[i] == nil || p.IDs[i].Sign() <= 0 || thor.CheckedU256(p.IDs[i]) != nil {
			return ErrInvalidCard
		}
		if p.Prices[i] == nil || thor.CheckedU256(p.Prices[i]) != nil {
			return ErrInvalidInput
		}
	}
	if thor.CheckedU256(p.Total()) != nil {
		return ErrInvalidInput
	}
	return nil
}

// StakeCards takes the attested cards and their declared principal into custody.
func (s *Staking) StakeCards(env *xenv.Environment, poolID uint64, payload *Payload) error {
	return s.atomic(func() error {
		p, err := s.pools.Get(poolID)
		if err != nil {
			return err
		}
		user := env.Caller()
		if payload.User != user {
			return ErrInvalidUser
		}
		if err := s.checkPayload(payload); err != nil {
			return err
		}
		if payload.Collection != p.Collection {
			return ErrInvalidCollection
		}
		trusted, err := s.signer.Get()
		if err != nil {
			return err
		}
		if err := s.verifier.Verify(poolID, payload, trusted); err != nil {
			return err
		}
		if err := p.AssertOpen(env.Time()); err != nil {
			return err
		}

		var higher, lower uint64
		for _, tier := range payload.Tiers {
			switch tier {
			case ledger.TierHigher:
				higher++
			case ledger.TierLower:
				lower++
			default:
				return ErrInvalidTier
			}
		}
		if higher > p.MaxHigherPerTx {
			return ErrHigherTierQuotaExceeded
		}
		if lower > p.MaxLowerPerTx {
			return ErrLowerTierQuotaExceeded
		}

		params, err := loadParams(s.sctx)
		if err != nil {
			return err
		}
		total := payload.Total()
		if total.Cmp(params.MinStake) < 0 {
			return ErrBelowMinimumStake
		}

		logger.Debug("staking cards", "pool", poolID, "user", user, "cards", len(payload.IDs), "amount", total)
		if err := s.pools.ReserveCapacity(poolID, total); err != nil {
			return err
		}
		for i, id := range payload.IDs {
			if err := s.ledger.RecordStake(poolID, user, id, payload.Prices[i], payload.Tiers[i], p.RateFor, env.Time()); err != nil {
				return err
			}
		}

		if err := token.NewFungible(p.StakingToken, s.state).TransferFrom(s.addr, user, s.addr, total); err != nil {
			return err
		}
		collection := token.NewCollection(p.Collection, s.state)
		for _, id := range payload.IDs {
			if err := collection.TransferFrom(s.addr, user, s.addr, id); err != nil {
				return err
			}
		}

		if p, err = s.pools.Get(poolID); err != nil {
			return err
		}
		reportPool(poolID, p, "stake", len(payload.IDs))

		env.Emit(&Staked{
			PoolID:      poolID,
			User:        user,
			TokenAmount: total,
			IDs:         payload.IDs,
		})
		logger.Info("cards staked", "pool", poolID, "user", user, "cards", len(payload.IDs), "amount", total)
		return nil
	})
}

// Withdraw returns the cards with their principal net of penalties and pays the whole accrued reward.
// The batch is all or nothing.
func (s *Staking) Withdraw(env *xenv.Environment, poolID uint64, cardIDs []*big.Int) error {
	return s.atomic(func() error {
		p, err := s.pools.Get(poolID)
		if err != nil {
			return err
		}
		if len(cardIDs) == 0 {
			return ErrInvalidInput
		}
		for _, id := range cardIDs {
			if id == nil || id.Sign() == 0 {
				return ErrInvalidInput
			}
		}
		params, err := loadParams(s.sctx)
		if err != nil {
			return err
		}

		var (
			user      = env.Caller()
			now       = env.Time()
			principal = new(big.Int)
			fee       = new(big.Int)
		)
		logger.Debug("withdrawing cards", "pool", poolID, "user", user, "cards", len(cardIDs))
		for _, id := range cardIDs {
			st, err := s.ledger.RemoveStake(poolID, user, id, p.RateFor, now)
			if err != nil {
				return err
			}
			principal.Add(principal, st.Principal)
			fee.Add(fee, params.Penalty(st.Principal, st.StakedAt, now))
		}
		reward, err := s.ledger.Claim(poolID, user)
		if err != nil {
			return err
		}
		if err := s.pools.ReleaseCapacity(poolID, principal); err != nil {
			return err
		}

		net := new(big.Int).Sub(principal, fee)
		owed := new(big.Int).Set(reward)
		if p.RewardToken == p.StakingToken {
			owed.Add(owed, net)
		}
		rewardToken := token.NewFungible(p.RewardToken, s.state)
		custody, err := rewardToken.BalanceOf(s.addr)
		if err != nil {
			return err
		}
		if custody.Cmp(owed) < 0 {
			logger.Info("failed to withdraw", "pool", poolID, "user", user, "owed", owed, "custody", custody, "error", ErrInsufficientRewardBalance)
			return ErrInsufficientRewardBalance
		}

		if err := token.NewFungible(p.StakingToken, s.state).Transfer(s.addr, user, net); err != nil {
			return err
		}
		if err := rewardToken.Transfer(s.addr, user, reward); err != nil {
			return err
		}
		collection := token.NewCollection(p.Collection, s.state)
		for _, id := range cardIDs {
			if err := collection.TransferFrom(s.addr, s.addr, user, id); err != nil {
				return err
			}
		}

		if p, err = s.pools.Get(poolID); err != nil {
			return err
		}
		reportPool(poolID, p, "withdraw", len(cardIDs))

		env.Emit(&Withdrawn{
			PoolID:      poolID,
			User:        user,
			TokenAmount: principal,
			Fee:         fee,
			Reward:      reward,
			IDs:         cardIDs,
		})
		logger.Info("cards withdrawn", "pool", poolID, "user", user, "amount", principal, "fee", fee, "reward", reward)
		return nil
	})
}

// Update checkpoints the caller.
func (s *Staking) Update(env *xenv.Environment, poolID uint64) error {
	return s.checkpoint(env, poolID, []thor.Address{env.Caller()})
}

// UpdateUsers checkpoints every named user, paying out what they accrued.
// Only admins may checkpoint users other than the caller.
func (s *Staking) UpdateUsers(env *xenv.Environment, poolID uint64, users []thor.Address) error {
	if len(users) != 1 || users[0] != env.Caller() {
		if err := s.requireAdmin(env.Caller()); err != nil {
			logger.Info("failed to update users", "pool", poolID, "caller", env.Caller(), "error", err)
			return err
		}
	}
	return s.checkpoint(env, poolID, users)
}

func (s *Staking) checkpoint(env *xenv.Environment, poolID uint64, users []thor.Address) error {
	return s.atomic(func() error {
		p, err := s.pools.Get(poolID)
		if err != nil {
			return err
		}
		for _, user := range users {
			if user.IsZero() {
				return ErrInvalidUser
			}
		}
		rewardToken := token.NewFungible(p.RewardToken, s.state)
		for _, user := range users {
			if _, err := s.ledger.Settle(poolID, user, p.RateFor, env.Time()); err != nil {
				return err
			}
			reward, err := s.ledger.Claim(poolID, user)
			if err != nil {
				return err
			}
			if reward.Sign() == 0 {
				continue
			}
			custody, err := rewardToken.BalanceOf(s.addr)
			if err != nil {
				return err
			}
			if custody.Cmp(reward) < 0 {
				return ErrInsufficientRewardBalance
			}
			if err := rewardToken.Transfer(s.addr, user, reward); err != nil {
				return errors.WithMessage(err, "pay reward")
			}
			env.Emit(&Claimed{PoolID: poolID, User: user, Reward: reward})
			logger.Debug("reward paid", "pool", poolID, "user", user, "reward", reward)
		}
		return nil
	})
}
