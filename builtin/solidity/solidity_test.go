// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstaking/lvldb"
	"github.com/vechain/nftstaking/state"
	"github.com/vechain/nftstaking/thor"
)

type TestStruct struct {
	Field1 uint64
	Amount *big.Int
	Addr1  thor.Address
	Ids    []*big.Int
}

func newTestContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(thor.Address{1}, state.New(db))
}

func TestMappingStruct(t *testing.T) {
	ctx := newTestContext(t)
	mapping := NewMapping[thor.Bytes32, *TestStruct](ctx, thor.Bytes32{1})
	key := thor.Bytes32{0xaa}

	empty, err := mapping.Get(key)
	require.NoError(t, err)
	require.NotNil(t, empty)
	assert.Equal(t, uint64(0), empty.Field1)

	exists, err := mapping.Exists(key)
	require.NoError(t, err)
	assert.False(t, exists)

	value := &TestStruct{
		Field1: 100,
		Amount: big.NewInt(1000),
		Addr1:  thor.Address{2},
		Ids:    []*big.Int{big.NewInt(1), big.NewInt(7)},
	}
	require.NoError(t, mapping.Set(key, value))

	got, err := mapping.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value.Field1, got.Field1)
	assert.Equal(t, 0, value.Amount.Cmp(got.Amount))
	assert.Equal(t, value.Addr1, got.Addr1)
	assert.Len(t, got.Ids, 2)

	exists, err = mapping.Exists(key)
	require.NoError(t, err)
	assert.True(t, exists)

	mapping.Delete(key)
	exists, err = mapping.Exists(key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMappingSeparatesPositions(t *testing.T) {
	ctx := newTestContext(t)
	m1 := NewMapping[thor.Bytes32, uint64](ctx, thor.Bytes32{1})
	m2 := NewMapping[thor.Bytes32, uint64](ctx, thor.Bytes32{2})

	require.NoError(t, m1.Set(thor.Bytes32{}, 10))
	v, err := m2.Get(thor.Bytes32{})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)
}

func TestUint256(t *testing.T) {
	ctx := newTestContext(t)
	u := NewUint256(ctx, thor.Bytes32{9})

	v, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	require.NoError(t, u.Add(big.NewInt(5)))
	require.NoError(t, u.Add(big.NewInt(7)))
	require.NoError(t, u.Sub(big.NewInt(2)))
	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), v)
}

func TestAddress(t *testing.T) {
	ctx := newTestContext(t)
	a := NewAddress(ctx, thor.Bytes32{3})

	v, err := a.Get()
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	addr := thor.MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	a.Set(&addr)
	v, err = a.Get()
	require.NoError(t, err)
	assert.Equal(t, addr, v)

	a.Set(nil)
	v, err = a.Get()
	require.NoError(t, err)
	assert.True(t, v.IsZero())
}

func TestConfigVariable(t *testing.T) {
	ctx := newTestContext(t)
	cv := NewConfigVariable("penalty-rate", big.NewInt(20))

	v, err := cv.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(20), v)

	// mutating the returned value must not touch the default
	v.SetInt64(1)
	assert.Equal(t, big.NewInt(20), cv.Default())

	require.NoError(t, cv.Override(ctx, big.NewInt(0)))
	v, err = cv.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	require.NoError(t, cv.Override(ctx, nil))
	v, err = cv.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(20), v)
}
