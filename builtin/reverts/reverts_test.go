// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"encoding/hex"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestRequireErrorBytes(t *testing.T) {
	err := NewRequireError("pool closed")
	b := err.Bytes()

	assert.Equal(t, "08c379a0", hex.EncodeToString(b[:4]))
	assert.Len(t, b, 4+32+32+32)
	assert.Equal(t, byte(32), b[4+31])
	assert.Equal(t, byte(len("pool closed")), b[4+32+31])
	assert.Equal(t, "pool closed", string(b[4+64:4+64+len("pool closed")]))

	var nilErr *ErrRequire
	assert.Nil(t, nilErr.Bytes())
}

func TestIsRevertErr(t *testing.T) {
	sentinel := NewRequireError("already staked")

	assert.True(t, IsRevertErr(sentinel))
	assert.True(t, IsRevertErr(errors.Wrap(sentinel, "card 7")))
	assert.False(t, IsRevertErr(errors.New("disk failure")))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr("not an error"))
	assert.True(t, errors.Is(errors.Wrap(sentinel, "card 7"), sentinel))
}
