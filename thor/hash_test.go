// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
)

func TestKeccak256(t *testing.T) {
	data := [][]byte{[]byte("ADMIN"), []byte("foo"), {}}
	for _, d := range data {
		assert.Equal(t, Bytes32(crypto.Keccak256Hash(d)), Keccak256(d))
	}
	assert.Equal(t, Bytes32(crypto.Keccak256Hash([]byte("ab"), []byte("cd"))), Keccak256([]byte("ab"), []byte("cd")))
}

func TestBlake2b(t *testing.T) {
	assert.Equal(t, Blake2b([]byte("foobar")), Blake2b([]byte("foo"), []byte("bar")))
	assert.NotEqual(t, Blake2b([]byte("foo")), Blake2b([]byte("bar")))
}

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	assert.NoError(t, err)
	assert.Equal(t, "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", addr.String())

	_, err = ParseAddress("7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	assert.NoError(t, err)

	_, err = ParseAddress("0x7567")
	assert.EqualError(t, err, "invalid length")

	_, err = ParseAddress("1x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	assert.EqualError(t, err, "invalid prefix")

	assert.True(t, Address{}.IsZero())
	assert.False(t, addr.IsZero())
}

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte("user"))
	data, err := addr.MarshalJSON()
	assert.NoError(t, err)

	var decoded Address
	assert.NoError(t, decoded.UnmarshalJSON(data))
	assert.Equal(t, addr, decoded)
}

func TestCheckedU256(t *testing.T) {
	assert.NoError(t, CheckedU256(nil))
	assert.NoError(t, CheckedU256(Ether(1)))

	maxU256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	assert.NoError(t, CheckedU256(maxU256))
	assert.Error(t, CheckedU256(new(big.Int).Add(maxU256, big.NewInt(1))))
	assert.Error(t, CheckedU256(big.NewInt(-1)))
}

func TestUint64ToBytes32(t *testing.T) {
	b := Uint64ToBytes32(0x0102)
	assert.Equal(t, byte(0x01), b[30])
	assert.Equal(t, byte(0x02), b[31])
	assert.True(t, Uint64ToBytes32(0).IsZero())
}
