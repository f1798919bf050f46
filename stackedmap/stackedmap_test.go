// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/nftstaking/stackedmap"
)

func M(a ...any) []any {
	return a
}

func TestStackedMap(t *testing.T) {
	assert := assert.New(t)
	src := make(map[string]string)
	src["foo"] = "bar"

	sm := stackedmap.New(func(key string) (string, bool, error) {
		v, r := src[key]
		return v, r, nil
	})

	tests := []struct {
		f         func()
		depth     int
		putKey    string
		putValue  string
		getKey    string
		getReturn []any
	}{
		{func() { sm.Push() }, 1, "", "", "foo", M("bar", true, nil)},
		{func() { sm.Push() }, 2, "foo", "baz", "foo", M("baz", true, nil)},
		{func() {}, 2, "foo", "baz1", "foo", M("baz1", true, nil)},
		{func() { sm.Push() }, 3, "foo", "qux", "foo", M("qux", true, nil)},
		{func() { sm.Pop() }, 2, "", "", "foo", M("baz1", true, nil)},
		{func() { sm.Pop() }, 1, "", "", "foo", M("bar", true, nil)},

		{func() { sm.Push(); sm.Push() }, 3, "", "", "", nil},
		{func() { sm.PopTo(0) }, 0, "", "", "foo", M("bar", true, nil)},
	}

	for _, test := range tests {
		test.f()
		assert.Equal(test.depth, sm.Depth())
		if test.putKey != "" {
			sm.Put(test.putKey, test.putValue)
		}
		if test.getKey != "" {
			assert.Equal(test.getReturn, M(sm.Get(test.getKey)))
		}
	}
}

func TestStackedMapJournal(t *testing.T) {
	sm := stackedmap.New(func(key string) (string, bool, error) {
		return "", false, nil
	})

	kvs := []struct {
		k, v string
	}{
		{"a", "b"},
		{"a", "b"},
		{"a1", "b1"},
		{"a2", "b2"},
	}

	for _, kv := range kvs {
		sm.Push()
		sm.Put(kv.k, kv.v)
	}

	var got []string
	sm.Journal(func(k, v string) bool {
		got = append(got, k+"="+v)
		return true
	})
	assert.Equal(t, []string{"a=b", "a=b", "a1=b1", "a2=b2"}, got)

	got = got[:0]
	sm.Journal(func(k, v string) bool {
		got = append(got, k)
		return len(got) < 2
	})
	assert.Equal(t, []string{"a", "a"}, got)

	sm.PopTo(1)
	got = got[:0]
	sm.Journal(func(k, v string) bool {
		got = append(got, k)
		return true
	})
	assert.Equal(t, []string{"a"}, got)
}

func TestStackedMapRepeatedPut(t *testing.T) {
	sm := stackedmap.New(func(key string) (string, bool, error) {
		return "", false, nil
	})
	sm.Push()
	sm.Put("k", "1")
	sm.Push()
	sm.Put("k", "2")
	sm.Put("k", "3")
	sm.Pop()

	v, ok, err := sm.Get("k")
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	sm.Pop()
	_, ok, _ = sm.Get("k")
	assert.False(t, ok)
}

func TestStackedMapSourceError(t *testing.T) {
	srcErr := errors.New("broken")
	sm := stackedmap.New(func(key int) (int, bool, error) {
		return 0, false, srcErr
	})
	_, _, err := sm.Get(1)
	assert.Equal(t, srcErr, err)
}
