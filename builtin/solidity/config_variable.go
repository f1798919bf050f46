// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/nftstaking/log"
	"github.com/vechain/nftstaking/thor"
)

// ConfigVariable is a governance parameter with a compiled-in default.
// An unset slot means the default applies.
type ConfigVariable struct {
	slot         thor.Bytes32
	name         string
	defaultValue *big.Int
}

func NewConfigVariable(name string, defaultValue *big.Int) *ConfigVariable {
	return &ConfigVariable{
		slot:         thor.BytesToBytes32([]byte(name)),
		name:         name,
		defaultValue: defaultValue,
	}
}

func (c *ConfigVariable) Name() string {
	return c.name
}

func (c *ConfigVariable) Slot() thor.Bytes32 {
	return c.slot
}

func (c *ConfigVariable) Default() *big.Int {
	return new(big.Int).Set(c.defaultValue)
}

// Get reads the overridden value from storage, or the default.
func (c *ConfigVariable) Get(ctx *Context) (*big.Int, error) {
	raw, err := ctx.state.GetRawStorage(ctx.address, c.slot)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return c.Default(), nil
	}
	var num big.Int
	if err := rlp.DecodeBytes(raw, &num); err != nil {
		return nil, err
	}
	log.Debug("config value overridden", "slot", c.name, "value", &num)
	return &num, nil
}

// Override stores a new value. A nil value restores the default.
func (c *ConfigVariable) Override(ctx *Context, value *big.Int) error {
	if value == nil {
		ctx.state.SetRawStorage(ctx.address, c.slot, nil)
		return nil
	}
	return ctx.state.EncodeStorage(ctx.address, c.slot, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}
