// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/vechain/nftstaking/metrics"

var (
	metricCalls        = metrics.LazyLoadCounterVec("calls_count", []string{"call", "outcome"})
	metricReverts      = metrics.LazyLoadCounterVec("reverts_count", []string{"reason"})
	metricCallDuration = metrics.LazyLoadHistogramVec("call_duration_ms", []string{"call"}, metrics.BucketDuration)
)
