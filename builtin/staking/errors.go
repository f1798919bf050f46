// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/vechain/nftstaking/builtin/authority"
	"github.com/vechain/nftstaking/builtin/reverts"
	"github.com/vechain/nftstaking/builtin/staking/ledger"
	"github.com/vechain/nftstaking/builtin/staking/pool"
)

// admission errors
var (
	ErrInvalidSignature  = reverts.NewRequireError("invalid signature")
	ErrInvalidUser       = reverts.NewRequireError("invalid user")
	ErrInvalidCollection = reverts.NewRequireError("invalid nft collection")
	ErrInvalidTier       = ledger.ErrInvalidTier
	ErrInvalidInput      = pool.ErrInvalidInput
	ErrInvalidCard       = ledger.ErrInvalidCard
	ErrPoolNotFound      = pool.ErrPoolNotFound
	ErrUnauthorized      = authority.ErrUnauthorized
)

// pool configuration errors
var (
	ErrInvalidWindow     = pool.ErrInvalidWindow
	ErrInvalidAsset      = pool.ErrInvalidAsset
	ErrInvalidTierAmount = pool.ErrInvalidTierAmount
	ErrInvalidTierRate   = pool.ErrInvalidTierRate
)

// capacity and window errors
var (
	ErrPoolCapacityExceeded    = pool.ErrPoolCapacityExceeded
	ErrPoolNotStarted          = pool.ErrPoolNotStarted
	ErrPoolClosed              = pool.ErrPoolClosed
	ErrHigherTierQuotaExceeded = reverts.NewRequireError("exceed higher tier staking limit")
	ErrLowerTierQuotaExceeded  = reverts.NewRequireError("exceed lower tier staking limit")
	ErrBelowMinimumStake       = reverts.NewRequireError("total stake less than minimum")
)

// ledger consistency errors
var (
	ErrAlreadyStaked = ledger.ErrAlreadyStaked
	ErrCardNotStaked = ledger.ErrCardNotStaked
)

// settlement errors
var (
	ErrInsufficientRewardBalance = reverts.NewRequireError("contract insufficient balance")
)
