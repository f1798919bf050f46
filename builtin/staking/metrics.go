// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math"
	"math/big"
	"strconv"

	"github.com/vechain/nftstaking/builtin/staking/pool"
	"github.com/vechain/nftstaking/metrics"
	"github.com/vechain/nftstaking/thor"
)

var (
	metricPoolStaked = metrics.LazyLoadGaugeVec("pool_staked_tokens", []string{"pool"})
	metricCards      = metrics.LazyLoadCounterVec("cards_count", []string{"pool", "action"})
)

func reportPool(poolID uint64, p *pool.Pool, action string, cards int) {
	label := strconv.FormatUint(poolID, 10)
	metricPoolStaked().SetWithLabel(wholeTokens(p.TotalStaked), map[string]string{"pool": label})
	metricCards().AddWithLabel(int64(cards), map[string]string{"pool": label, "action": action})
}

// wholeTokens drops the decimals of amount, saturating at the gauge range.
func wholeTokens(amount *big.Int) int64 {
	whole := new(big.Int).Quo(amount, thor.RateScale)
	if !whole.IsInt64() {
		if whole.Sign() < 0 {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	return whole.Int64()
}
