// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"
)

// Fixed-point and calendar constants.
const (
	SecondsPerYear uint64 = 365 * 24 * 3600
	Decimals              = 18
)

var (
	// RateScale is the fixed-point unit for rates and token amounts (1e18).
	RateScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(Decimals), nil)

	errOverflow = errors.New("value exceeds 256 bits")
	errNegative = errors.New("negative value")
)

// Ether returns n * 1e18, the base unit of a whole token.
func Ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), RateScale)
}

// CheckedU256 ensures v is a non-negative value that fits in 256 bits.
// Every amount written to contract storage passes through it.
func CheckedU256(v *big.Int) error {
	if v == nil {
		return nil
	}
	if v.Sign() < 0 {
		return errNegative
	}
	if _, overflow := uint256.FromBig(v); overflow {
		return errOverflow
	}
	return nil
}
