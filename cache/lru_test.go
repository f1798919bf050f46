// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstaking/metrics"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func TestLRUGetOrLoad(t *testing.T) {
	_, err := NewLRU("test", 0)
	assert.Error(t, err)

	c, err := NewLRU("signer", 2)
	require.NoError(t, err)

	loads := 0
	loader := func(key any) (any, error) {
		loads++
		return key.(int) * 10, nil
	}

	for range 3 {
		v, err := c.GetOrLoad(1, loader)
		require.NoError(t, err)
		assert.Equal(t, 10, v)
	}
	assert.Equal(t, 1, loads)

	failing := errors.New("load failed")
	_, err = c.GetOrLoad(2, func(any) (any, error) { return nil, failing })
	assert.Equal(t, failing, err)
	assert.False(t, c.Contains(2))

	// the last lookup already reported the counters
	changed, hit, miss := c.stats.Stats()
	assert.False(t, changed)
	assert.Equal(t, int64(2), hit)
	assert.Equal(t, int64(2), miss)

	rec := httptest.NewRecorder()
	metrics.HTTPHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `stakingd_cache_hit_miss_count{event="hit",type="signer"} 2`)
	assert.Contains(t, string(body), `stakingd_cache_hit_miss_count{event="miss",type="signer"} 2`)
}

func TestStats(t *testing.T) {
	var s Stats
	changed, hit, miss := s.Stats()
	assert.False(t, changed)
	assert.Zero(t, hit+miss)

	s.Hit()
	s.Miss()
	changed, _, _ = s.Stats()
	assert.True(t, changed)

	// 1/2 to 2/4 leaves the rate where it was
	s.Hit()
	s.Miss()
	changed, hit, miss = s.Stats()
	assert.False(t, changed)
	assert.Equal(t, int64(2), hit)
	assert.Equal(t, int64(2), miss)
}
