// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstaking/lvldb"
	"github.com/vechain/nftstaking/thor"
)

func newState(t *testing.T) (*State, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), db
}

func TestStateReadWrite(t *testing.T) {
	st, _ := newState(t)

	addr := thor.BytesToAddress([]byte("account"))
	storageKey := thor.BytesToBytes32([]byte("storageKey"))

	v, err := st.GetStorage(addr, storageKey)
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	st.SetStorage(addr, storageKey, thor.BytesToBytes32([]byte("value")))
	v, err = st.GetStorage(addr, storageKey)
	require.NoError(t, err)
	assert.Equal(t, thor.BytesToBytes32([]byte("value")), v)

	st.SetStorage(addr, storageKey, thor.Bytes32{})
	raw, err := st.GetRawStorage(addr, storageKey)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestStateRevert(t *testing.T) {
	st, _ := newState(t)

	addr := thor.BytesToAddress([]byte("account"))
	storageKey := thor.BytesToBytes32([]byte("storageKey"))

	values := []thor.Bytes32{
		thor.BytesToBytes32([]byte("v1")),
		thor.BytesToBytes32([]byte("v2")),
		thor.BytesToBytes32([]byte("v3")),
	}

	var chk []int
	for _, v := range values {
		chk = append(chk, st.NewCheckpoint())
		st.SetStorage(addr, storageKey, v)
	}

	for i := range chk {
		i = len(chk) - 1 - i
		got, err := st.GetStorage(addr, storageKey)
		require.NoError(t, err)
		assert.Equal(t, values[i], got)
		st.RevertTo(chk[i])
	}

	got, err := st.GetStorage(addr, storageKey)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	// reverting below the base level keeps pending changes intact
	st.SetStorage(addr, storageKey, values[0])
	st.RevertTo(0)
	got, err = st.GetStorage(addr, storageKey)
	require.NoError(t, err)
	assert.Equal(t, values[0], got)
}

func TestStateCommit(t *testing.T) {
	st, db := newState(t)

	addr := thor.BytesToAddress([]byte("account"))
	k1 := thor.BytesToBytes32([]byte("k1"))
	k2 := thor.BytesToBytes32([]byte("k2"))

	st.SetStorage(addr, k1, thor.BytesToBytes32([]byte("v1")))
	st.SetStorage(addr, k2, thor.BytesToBytes32([]byte("v2")))
	st.SetStorage(addr, k2, thor.Bytes32{})
	assert.Equal(t, 2, st.Stage().Len())
	require.NoError(t, st.Commit())
	assert.Equal(t, 0, st.Stage().Len())

	reopened := New(db)
	v, err := reopened.GetStorage(addr, k1)
	require.NoError(t, err)
	assert.Equal(t, thor.BytesToBytes32([]byte("v1")), v)

	v, err = reopened.GetStorage(addr, k2)
	require.NoError(t, err)
	assert.True(t, v.IsZero())
}

func TestStateCacheBounded(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	st := NewWithCacheSize(db, 8)

	addr := thor.BytesToAddress([]byte("account"))
	stored := thor.BytesToBytes32([]byte("stored"))
	st.SetStorage(addr, stored, thor.BytesToBytes32([]byte("v1")))
	require.NoError(t, st.Commit())

	// absent slots of random readers do not pile up
	for i := range uint64(1000) {
		v, err := st.GetStorage(thor.BytesToAddress([]byte("reader")), thor.Uint64ToBytes32(i))
		require.NoError(t, err)
		assert.True(t, v.IsZero())
	}
	assert.Equal(t, 8, st.cache.Len())
	assert.False(t, st.cache.Contains(storageKey{addr, stored}))

	// evicted slots load again from the store
	v, err := st.GetStorage(addr, stored)
	require.NoError(t, err)
	assert.Equal(t, thor.BytesToBytes32([]byte("v1")), v)
}

func TestEncodeDecodeStorage(t *testing.T) {
	st, _ := newState(t)

	addr := thor.BytesToAddress([]byte("contract"))
	key := thor.BytesToBytes32([]byte("key"))

	type entry struct {
		Name  string
		Count uint64
	}

	require.NoError(t, st.EncodeStorage(addr, key, func() ([]byte, error) {
		return rlp.EncodeToBytes(&entry{"foo", 2})
	}))

	var got entry
	require.NoError(t, st.DecodeStorage(addr, key, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &got)
	}))
	assert.Equal(t, entry{"foo", 2}, got)

	// list values are reported as the hash of raw data
	raw, _ := st.GetRawStorage(addr, key)
	v, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, thor.Blake2b(raw), v)

	encErr := errors.New("enc")
	err = st.EncodeStorage(addr, key, func() ([]byte, error) { return nil, encErr })
	var stErr *Error
	require.ErrorAs(t, err, &stErr)
	assert.ErrorIs(t, err, encErr)
}
