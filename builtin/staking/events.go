// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/vechain/nftstaking/builtin/staking/pool"
	"github.com/vechain/nftstaking/thor"
	"github.com/vechain/nftstaking/xenv"
)

// NoPool marks events not bound to a pool.
const NoPool = ^uint64(0)

// Event names.
const (
	EventPoolCreated = "pool-created"
	EventPoolUpdated = "pool-updated"
	EventTiersSet    = "tiers-set"
	EventStaked      = "staked"
	EventWithdrawn   = "withdrawn"
	EventClaimed     = "claimed"
	EventSignerSet   = "signer-set"
	EventParamsSet   = "params-set"
)

var (
	_ xenv.Event = (*PoolCreated)(nil)
	_ xenv.Event = (*PoolUpdated)(nil)
	_ xenv.Event = (*TiersSet)(nil)
	_ xenv.Event = (*Staked)(nil)
	_ xenv.Event = (*Withdrawn)(nil)
	_ xenv.Event = (*Claimed)(nil)
	_ xenv.Event = (*SignerSet)(nil)
	_ xenv.Event = (*ParamsSet)(nil)
)

type PoolCreated struct {
	PoolID         uint64       `json:"poolId"`
	Name           string       `json:"name"`
	Collection     thor.Address `json:"collection"`
	StakingToken   thor.Address `json:"stakingToken"`
	RewardToken    thor.Address `json:"rewardToken"`
	PoolSize       *big.Int     `json:"poolSize"`
	MaxHigherPerTx uint64       `json:"maxHigherPerTx"`
	MaxLowerPerTx  uint64       `json:"maxLowerPerTx"`
	OpenTime       uint64       `json:"openTime"`
	CloseTime      uint64       `json:"closeTime"`
}

type PoolUpdated struct {
	PoolID uint64 `json:"poolId"`
	Name   string `json:"name"`
}

type TiersSet struct {
	PoolID uint64      `json:"poolId"`
	Tiers  []pool.Tier `json:"tiers"`
}

type Staked struct {
	PoolID      uint64       `json:"poolId"`
	User        thor.Address `json:"user"`
	TokenAmount *big.Int     `json:"tokenAmount"`
	IDs         []*big.Int   `json:"ids"`
}

type Withdrawn struct {
	PoolID      uint64       `json:"poolId"`
	User        thor.Address `json:"user"`
	TokenAmount *big.Int     `json:"tokenAmount"`
	Fee         *big.Int     `json:"fee"`
	Reward      *big.Int     `json:"reward"`
	IDs         []*big.Int   `json:"ids"`
}

type Claimed struct {
	PoolID uint64       `json:"poolId"`
	User   thor.Address `json:"user"`
	Reward *big.Int     `json:"reward"`
}

type SignerSet struct {
	Signer thor.Address `json:"signer"`
}

type ParamsSet struct {
	MinStake     *big.Int `json:"minStake"`
	LockDuration uint64   `json:"lockDuration"`
	PenaltyRate  *big.Int `json:"penaltyRate"`
}

func (e *PoolCreated) Kind() string { return EventPoolCreated }
func (e *PoolUpdated) Kind() string { return EventPoolUpdated }
func (e *TiersSet) Kind() string    { return EventTiersSet }
func (e *Staked) Kind() string      { return EventStaked }
func (e *Withdrawn) Kind() string   { return EventWithdrawn }
func (e *Claimed) Kind() string     { return EventClaimed }
func (e *SignerSet) Kind() string   { return EventSignerSet }
func (e *ParamsSet) Kind() string   { return EventParamsSet }

func (e *PoolCreated) Topics() (uint64, thor.Address) { return e.PoolID, thor.Address{} }
func (e *PoolUpdated) Topics() (uint64, thor.Address) { return e.PoolID, thor.Address{} }
func (e *TiersSet) Topics() (uint64, thor.Address)    { return e.PoolID, thor.Address{} }
func (e *Staked) Topics() (uint64, thor.Address)      { return e.PoolID, e.User }
func (e *Withdrawn) Topics() (uint64, thor.Address)   { return e.PoolID, e.User }
func (e *Claimed) Topics() (uint64, thor.Address)     { return e.PoolID, e.User }

// Topics of global events carry the NoPool marker.
func (e *SignerSet) Topics() (uint64, thor.Address) { return NoPool, e.Signer }
func (e *ParamsSet) Topics() (uint64, thor.Address) { return NoPool, thor.Address{} }
