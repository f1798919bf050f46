// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import "github.com/vechain/nftstaking/builtin/reverts"

var (
	ErrPoolNotFound         = reverts.NewRequireError("pool does not exist")
	ErrInvalidWindow        = reverts.NewRequireError("invalid end join time")
	ErrInvalidAsset         = reverts.NewRequireError("asset can not be zero address")
	ErrInvalidTierAmount    = reverts.NewRequireError("invalid APY amount")
	ErrInvalidTierRate      = reverts.NewRequireError("invalid APY value")
	ErrInvalidInput         = reverts.NewRequireError("invalid input")
	ErrPoolCapacityExceeded = reverts.NewRequireError("exceed pool limit")
	ErrPoolNotStarted       = reverts.NewRequireError("pool is not started yet")
	ErrPoolClosed           = reverts.NewRequireError("pool is already closed")
)
