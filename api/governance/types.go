// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/nftstaking/api/events"
	"github.com/vechain/nftstaking/builtin/staking"
	"github.com/vechain/nftstaking/thor"
)

type Signer struct {
	Signer thor.Address `json:"signer"`
}

type Member struct {
	Account thor.Address `json:"account"`
}

type Membership struct {
	Role    string       `json:"role"`
	Account thor.Address `json:"account"`
	Member  bool         `json:"member"`
}

// Params are the deployment parameters, rates scaled by 1e18.
type Params struct {
	MinStake     *math.HexOrDecimal256 `json:"minStake"`
	LockDuration uint64                `json:"lockDuration"`
	PenaltyRate  *math.HexOrDecimal256 `json:"penaltyRate"`
}

type Receipt struct {
	Time   uint64          `json:"time"`
	Events []*events.Event `json:"events"`
}

func convertParams(p *staking.Params) *Params {
	return &Params{
		MinStake:     (*math.HexOrDecimal256)(new(big.Int).Set(p.MinStake)),
		LockDuration: p.LockDuration,
		PenaltyRate:  (*math.HexOrDecimal256)(new(big.Int).Set(p.PenaltyRate)),
	}
}

func (p *Params) params() *staking.Params {
	res := &staking.Params{LockDuration: p.LockDuration}
	if p.MinStake != nil {
		res.MinStake = (*big.Int)(p.MinStake)
	}
	if p.PenaltyRate != nil {
		res.PenaltyRate = (*big.Int)(p.PenaltyRate)
	}
	return res
}
