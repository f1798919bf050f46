// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/vechain/nftstaking/builtin/reverts"
	"github.com/vechain/nftstaking/builtin/solidity"
	"github.com/vechain/nftstaking/state"
	"github.com/vechain/nftstaking/thor"
)

var (
	slotOwners    = thor.Blake2b([]byte("owners"))
	slotOperators = thor.Blake2b([]byte("operators"))

	ErrTokenExists      = reverts.NewRequireError("token already minted")
	ErrNonexistentToken = reverts.NewRequireError("nonexistent token")
	ErrNotOwner         = reverts.NewRequireError("transfer from incorrect owner")
	ErrNotApproved      = reverts.NewRequireError("caller is not token owner or approved")
	ErrInvalidTokenID   = reverts.NewRequireError("invalid token id")
)

// Collection implements an ERC721 like ledger living at addr.
type Collection struct {
	addr      thor.Address
	ctx       *solidity.Context
	owners    *solidity.Mapping[thor.Bytes32, thor.Address]
	operators *solidity.Mapping[thor.Bytes32, bool]
}

// NewCollection create a new instance.
func NewCollection(addr thor.Address, state *state.State) *Collection {
	ctx := solidity.NewContext(addr, state)
	return &Collection{
		addr:      addr,
		ctx:       ctx,
		owners:    solidity.NewMapping[thor.Bytes32, thor.Address](ctx, slotOwners),
		operators: solidity.NewMapping[thor.Bytes32, bool](ctx, slotOperators),
	}
}

// Address returns the collection address.
func (c *Collection) Address() thor.Address {
	return c.addr
}

// Deploy stores collection metadata.
func (c *Collection) Deploy(name, symbol string) error {
	return deploy(c.ctx, name, symbol)
}

// Metadata returns metadata of the collection. ErrNotDeployed is returned for unknown collections.
func (c *Collection) Metadata() (*Metadata, error) {
	return metadata(c.ctx)
}

func tokenKey(id *big.Int) (thor.Bytes32, error) {
	if id == nil || thor.CheckedU256(id) != nil {
		return thor.Bytes32{}, ErrInvalidTokenID
	}
	return thor.BytesToBytes32(id.Bytes()), nil
}

// OwnerOf returns owner of the token.
func (c *Collection) OwnerOf(id *big.Int) (thor.Address, error) {
	key, err := tokenKey(id)
	if err != nil {
		return thor.Address{}, err
	}
	owner, err := c.owners.Get(key)
	if err != nil {
		return thor.Address{}, err
	}
	if owner.IsZero() {
		return thor.Address{}, ErrNonexistentToken
	}
	return owner, nil
}

// Mint creates the token for to.
func (c *Collection) Mint(to thor.Address, id *big.Int) error {
	if _, err := c.Metadata(); err != nil {
		return err
	}
	key, err := tokenKey(id)
	if err != nil {
		return err
	}
	exists, err := c.owners.Exists(key)
	if err != nil {
		return err
	}
	if exists {
		return ErrTokenExists
	}
	return c.owners.Set(key, to)
}

func operatorKey(owner, operator thor.Address) thor.Bytes32 {
	return thor.Blake2b(owner.Bytes(), operator.Bytes())
}

// SetApprovalForAll allows or forbids operator to move every token of owner.
func (c *Collection) SetApprovalForAll(owner, operator thor.Address, approved bool) error {
	if !approved {
		c.operators.Delete(operatorKey(owner, operator))
		return nil
	}
	return c.operators.Set(operatorKey(owner, operator), true)
}

func (c *Collection) IsApprovedForAll(owner, operator thor.Address) (bool, error) {
	return c.operators.Get(operatorKey(owner, operator))
}

// TransferFrom moves the token from one account to another on behalf of operator.
func (c *Collection) TransferFrom(operator, from, to thor.Address, id *big.Int) error {
	owner, err := c.OwnerOf(id)
	if err != nil {
		return err
	}
	if owner != from {
		return ErrNotOwner
	}
	if operator != from {
		approved, err := c.IsApprovedForAll(from, operator)
		if err != nil {
			return err
		}
		if !approved {
			return ErrNotApproved
		}
	}
	key, _ := tokenKey(id)
	return c.owners.Set(key, to)
}
