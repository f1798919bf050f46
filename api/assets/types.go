// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package assets

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/nftstaking/thor"
)

type Token struct {
	Address     thor.Address          `json:"address"`
	Name        string                `json:"name"`
	Symbol      string                `json:"symbol"`
	TotalSupply *math.HexOrDecimal256 `json:"totalSupply"`
}

type Balance struct {
	Owner   thor.Address          `json:"owner"`
	Balance *math.HexOrDecimal256 `json:"balance"`
}

type Approval struct {
	Spender thor.Address          `json:"spender"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
}

type Transfer struct {
	To     thor.Address          `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type Card struct {
	ID    *math.HexOrDecimal256 `json:"id"`
	Owner thor.Address          `json:"owner"`
}

// OperatorApproval allows or forbids operator to move every card of the caller.
type OperatorApproval struct {
	Operator thor.Address `json:"operator"`
	Approved bool         `json:"approved"`
}

type Receipt struct {
	Time uint64 `json:"time"`
}
