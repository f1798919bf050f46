// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"sync/atomic"

	"github.com/vechain/nftstaking/metrics"
)

var metricCacheHitMiss = metrics.LazyLoadGaugeVec("cache_hit_miss_count", []string{"type", "event"})

// Stats counts lookups of a cache.
type Stats struct {
	hit, miss atomic.Int64
	permille  atomic.Int32 // hit rate seen by the last call of Stats
}

// Hit records a hit.
func (cs *Stats) Hit() int64 { return cs.hit.Add(1) }

// Miss records a miss.
func (cs *Stats) Miss() int64 { return cs.miss.Add(1) }

// Stats returns the number of hits and misses, and whether the hit rate
// moved by at least one per mille since the previous call.
func (cs *Stats) Stats() (changed bool, hit, miss int64) {
	hit = cs.hit.Load()
	miss = cs.miss.Load()

	var permille int32
	if lookups := hit + miss; lookups > 0 {
		permille = int32(hit * 1000 / lookups)
	}
	return cs.permille.Swap(permille) != permille, hit, miss
}

// report exposes the counters under the given cache name once the hit rate moves.
func (cs *Stats) report(name string) {
	if changed, hit, miss := cs.Stats(); changed {
		metricCacheHitMiss().SetWithLabel(hit, map[string]string{"type": name, "event": "hit"})
		metricCacheHitMiss().SetWithLabel(miss, map[string]string{"type": name, "event": "miss"})
	}
}
