// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	stdmath "math"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/nftstaking/api/events"
	"github.com/vechain/nftstaking/builtin/staking"
	"github.com/vechain/nftstaking/builtin/staking/ledger"
	"github.com/vechain/nftstaking/builtin/staking/pool"
	"github.com/vechain/nftstaking/thor"
)

// Tier is a step of the APY ladder, rate scaled by 1e18.
type Tier struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
	Rate   *math.HexOrDecimal256 `json:"rate"`
}

// PoolCreation is the body of a pool creation.
type PoolCreation struct {
	Name           string                `json:"name"`
	Tiers          []Tier                `json:"tiers"`
	Collection     thor.Address          `json:"collection"`
	StakingToken   thor.Address          `json:"stakingToken"`
	RewardToken    thor.Address          `json:"rewardToken"`
	Size           *math.HexOrDecimal256 `json:"size"`
	MaxHigherPerTx uint64                `json:"maxHigherPerTx"`
	MaxLowerPerTx  uint64                `json:"maxLowerPerTx"`
	OpenTime       uint64                `json:"openTime"`
	CloseTime      uint64                `json:"closeTime"`
}

// Pool is a pool with its accounting summary.
type Pool struct {
	ID             uint64                `json:"id"`
	Name           string                `json:"name"`
	Status         pool.Status           `json:"status"`
	Tiers          []Tier                `json:"tiers"`
	Collection     thor.Address          `json:"collection"`
	StakingToken   thor.Address          `json:"stakingToken"`
	RewardToken    thor.Address          `json:"rewardToken"`
	Size           *math.HexOrDecimal256 `json:"size"`
	MaxHigherPerTx uint64                `json:"maxHigherPerTx"`
	MaxLowerPerTx  uint64                `json:"maxLowerPerTx"`
	OpenTime       uint64                `json:"openTime"`
	CloseTime      uint64                `json:"closeTime"`
	TotalStaked    *math.HexOrDecimal256 `json:"totalStaked"`
	Remaining      *math.HexOrDecimal256 `json:"remaining"`
	RoiMin         *math.HexOrDecimal256 `json:"roiMin"`
	RoiMax         *math.HexOrDecimal256 `json:"roiMax"`
}

type PoolUpdate struct {
	Name string `json:"name"`
}

// Stake is an attested stake request. Tiers are 0 for lower and 1 for higher.
type Stake struct {
	Collection thor.Address            `json:"collection"`
	User       thor.Address            `json:"user"`
	IDs        []*math.HexOrDecimal256 `json:"ids"`
	Prices     []*math.HexOrDecimal256 `json:"prices"`
	Tiers      []uint                  `json:"tiers"`
	Signature  hexutil.Bytes           `json:"signature"`
}

type Withdrawal struct {
	IDs []*math.HexOrDecimal256 `json:"ids"`
}

// Checkpoint names the users to settle. An empty list settles the caller.
type Checkpoint struct {
	Users []thor.Address `json:"users"`
}

// User is the summary of a user in a pool.
type User struct {
	Rate        *math.HexOrDecimal256 `json:"rate"`
	StakedCards uint64                `json:"stakedCards"`
	Principal   *math.HexOrDecimal256 `json:"principal"`
}

type Reward struct {
	Reward *math.HexOrDecimal256 `json:"reward"`
}

type Cards struct {
	Higher []*math.HexOrDecimal256 `json:"higher"`
	Lower  []*math.HexOrDecimal256 `json:"lower"`
}

// Card is the custody record of a staked card.
type Card struct {
	Owner     thor.Address          `json:"owner"`
	Principal *math.HexOrDecimal256 `json:"principal"`
	Tier      ledger.Tier           `json:"tier"`
	StakedAt  uint64                `json:"stakedAt"`
}

type Apy struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
	Rate   *math.HexOrDecimal256 `json:"rate"`
}

// Receipt is the outcome of a committed call.
type Receipt struct {
	PoolID *uint64         `json:"poolId,omitempty"`
	Time   uint64          `json:"time"`
	Events []*events.Event `json:"events"`
}

func hex256(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}

func bigInt(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set((*big.Int)(v))
}

func hexList(list []*big.Int) []*math.HexOrDecimal256 {
	res := make([]*math.HexOrDecimal256, 0, len(list))
	for _, v := range list {
		res = append(res, hex256(v))
	}
	return res
}

func bigList(list []*math.HexOrDecimal256) []*big.Int {
	res := make([]*big.Int, 0, len(list))
	for _, v := range list {
		res = append(res, bigInt(v))
	}
	return res
}

func (c *PoolCreation) pool() *pool.Pool {
	tiers := make([]pool.Tier, 0, len(c.Tiers))
	for _, t := range c.Tiers {
		tiers = append(tiers, pool.Tier{Amount: bigInt(t.Amount), Rate: bigInt(t.Rate)})
	}
	return &pool.Pool{
		Name:           c.Name,
		Tiers:          tiers,
		Collection:     c.Collection,
		StakingToken:   c.StakingToken,
		RewardToken:    c.RewardToken,
		Size:           bigInt(c.Size),
		MaxHigherPerTx: c.MaxHigherPerTx,
		MaxLowerPerTx:  c.MaxLowerPerTx,
		OpenTime:       c.OpenTime,
		CloseTime:      c.CloseTime,
	}
}

func convertPool(id uint64, p *pool.Pool, now uint64) *Pool {
	tiers := make([]Tier, 0, len(p.Tiers))
	for _, t := range p.Tiers {
		tiers = append(tiers, Tier{Amount: hex256(t.Amount), Rate: hex256(t.Rate)})
	}
	return &Pool{
		ID:             id,
		Name:           p.Name,
		Status:         p.Status(now),
		Tiers:          tiers,
		Collection:     p.Collection,
		StakingToken:   p.StakingToken,
		RewardToken:    p.RewardToken,
		Size:           hex256(p.Size),
		MaxHigherPerTx: p.MaxHigherPerTx,
		MaxLowerPerTx:  p.MaxLowerPerTx,
		OpenTime:       p.OpenTime,
		CloseTime:      p.CloseTime,
		TotalStaked:    hex256(p.TotalStaked),
		Remaining:      hex256(p.Remaining()),
		RoiMin:         hex256(p.RoiMin()),
		RoiMax:         hex256(p.RoiMax()),
	}
}

func (s *Stake) payload() (*staking.Payload, error) {
	tiers := make([]ledger.Tier, 0, len(s.Tiers))
	for _, t := range s.Tiers {
		if t > stdmath.MaxUint8 {
			return nil, staking.ErrInvalidTier
		}
		tiers = append(tiers, ledger.Tier(t))
	}
	return &staking.Payload{
		Collection: s.Collection,
		User:       s.User,
		IDs:        bigList(s.IDs),
		Prices:     bigList(s.Prices),
		Tiers:      tiers,
		Signature:  s.Signature,
	}, nil
}
