// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package authority

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstaking/lvldb"
	"github.com/vechain/nftstaking/state"
	"github.com/vechain/nftstaking/thor"
)

func newAuthority(t *testing.T) *Authority {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(thor.BytesToAddress([]byte("auth")), state.New(db))
}

func TestAuthority(t *testing.T) {
	aut := newAuthority(t)

	root := thor.BytesToAddress([]byte("root"))
	ops := thor.BytesToAddress([]byte("ops"))
	stranger := thor.BytesToAddress([]byte("stranger"))

	require.NoError(t, aut.Setup(RoleDefaultAdmin, root))
	require.NoError(t, aut.Setup(RoleDefaultAdmin, root))
	n, err := aut.Members(RoleDefaultAdmin)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	tests := []struct {
		ret      any
		expected any
	}{
		{aut.GrantRole(stranger, RoleAdmin, stranger), ErrUnauthorized},
		{aut.GrantRole(root, RoleAdmin, ops), nil},
		{aut.Require(RoleAdmin, ops), nil},
		{aut.Require(RoleAdmin, stranger), ErrUnauthorized},
		{aut.RevokeRole(ops, RoleAdmin, ops), ErrUnauthorized},
		{aut.RevokeRole(root, RoleDefaultAdmin, root), ErrLastAdmin},
		{aut.RevokeRole(root, RoleAdmin, ops), nil},
		{aut.Require(RoleAdmin, ops), ErrUnauthorized},
		{aut.RevokeRole(root, RoleAdmin, ops), nil},
	}

	for i, tt := range tests {
		assert.Equal(t, tt.expected, tt.ret, "#%v", i)
	}

	n, err = aut.Members(RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)
}

func TestRevokeSecondAdmin(t *testing.T) {
	aut := newAuthority(t)
	a := thor.BytesToAddress([]byte("a"))
	b := thor.BytesToAddress([]byte("b"))

	require.NoError(t, aut.Setup(RoleDefaultAdmin, a))
	require.NoError(t, aut.GrantRole(a, RoleDefaultAdmin, b))
	require.NoError(t, aut.RevokeRole(b, RoleDefaultAdmin, a))

	has, err := aut.HasRole(RoleDefaultAdmin, a)
	require.NoError(t, err)
	assert.False(t, has)
	assert.Equal(t, ErrLastAdmin, aut.RevokeRole(b, RoleDefaultAdmin, b))
}
