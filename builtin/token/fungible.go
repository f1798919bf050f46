// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/nftstaking/builtin/reverts"
	"github.com/vechain/nftstaking/builtin/solidity"
	"github.com/vechain/nftstaking/state"
	"github.com/vechain/nftstaking/thor"
)

var (
	slotMetadata    = thor.Blake2b([]byte("metadata"))
	slotTotalSupply = thor.Blake2b([]byte("total-supply"))
	slotBalances    = thor.Blake2b([]byte("balances"))
	slotAllowances  = thor.Blake2b([]byte("allowances"))

	ErrNotDeployed           = reverts.NewRequireError("token not deployed")
	ErrAlreadyDeployed       = reverts.NewRequireError("token already deployed")
	ErrInsufficientBalance   = reverts.NewRequireError("insufficient balance")
	ErrInsufficientAllowance = reverts.NewRequireError("insufficient allowance")
	ErrInvalidAmount         = reverts.NewRequireError("invalid amount")
)

// Metadata describes a deployed token.
type Metadata struct {
	Name   string
	Symbol string
}

// Fungible implements an ERC20 like ledger living at addr.
type Fungible struct {
	addr        thor.Address
	ctx         *solidity.Context
	totalSupply *solidity.Uint256
	balances    *solidity.Mapping[thor.Address, *big.Int]
	allowances  *solidity.Mapping[thor.Bytes32, *big.Int]
}

// NewFungible create a new instance.
func NewFungible(addr thor.Address, state *state.State) *Fungible {
	ctx := solidity.NewContext(addr, state)
	return &Fungible{
		addr:        addr,
		ctx:         ctx,
		totalSupply: solidity.NewUint256(ctx, slotTotalSupply),
		balances:    solidity.NewMapping[thor.Address, *big.Int](ctx, slotBalances),
		allowances:  solidity.NewMapping[thor.Bytes32, *big.Int](ctx, slotAllowances),
	}
}

// Address returns the token address.
func (f *Fungible) Address() thor.Address {
	return f.addr
}

// Deploy stores token metadata. A token must be deployed before any other call.
func (f *Fungible) Deploy(name, symbol string) error {
	return deploy(f.ctx, name, symbol)
}

// Metadata returns metadata of the token. ErrNotDeployed is returned for unknown tokens.
func (f *Fungible) Metadata() (*Metadata, error) {
	return metadata(f.ctx)
}

func (f *Fungible) TotalSupply() (*big.Int, error) {
	return f.totalSupply.Get()
}

// BalanceOf returns balance of the account.
func (f *Fungible) BalanceOf(owner thor.Address) (*big.Int, error) {
	bal, err := f.balances.Get(owner)
	if err != nil {
		return nil, err
	}
	if bal == nil {
		return new(big.Int), nil
	}
	return bal, nil
}

func (f *Fungible) setBalance(owner thor.Address, bal *big.Int) error {
	if bal.Sign() == 0 {
		f.balances.Delete(owner)
		return nil
	}
	return f.balances.Set(owner, bal)
}

// Mint creates amount tokens for the account.
func (f *Fungible) Mint(to thor.Address, amount *big.Int) error {
	if _, err := f.Metadata(); err != nil {
		return err
	}
	if amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	bal, err := f.BalanceOf(to)
	if err != nil {
		return err
	}
	supply, err := f.totalSupply.Get()
	if err != nil {
		return err
	}
	supply.Add(supply, amount)
	if thor.CheckedU256(supply) != nil {
		return ErrInvalidAmount
	}
	f.totalSupply.Set(supply)
	return f.setBalance(to, bal.Add(bal, amount))
}

// Transfer moves amount from one account to another.
func (f *Fungible) Transfer(from, to thor.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if amount.Sign() == 0 || from == to {
		return nil
	}
	fromBal, err := f.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	toBal, err := f.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := f.setBalance(from, fromBal.Sub(fromBal, amount)); err != nil {
		return err
	}
	return f.setBalance(to, toBal.Add(toBal, amount))
}

func allowanceKey(owner, spender thor.Address) thor.Bytes32 {
	return thor.Blake2b(owner.Bytes(), spender.Bytes())
}

// Approve sets the amount spender may move on behalf of owner.
func (f *Fungible) Approve(owner, spender thor.Address, amount *big.Int) error {
	if amount.Sign() < 0 || thor.CheckedU256(amount) != nil {
		return ErrInvalidAmount
	}
	if amount.Sign() == 0 {
		f.allowances.Delete(allowanceKey(owner, spender))
		return nil
	}
	return f.allowances.Set(allowanceKey(owner, spender), amount)
}

// Allowance returns the amount spender may still move on behalf of owner.
func (f *Fungible) Allowance(owner, spender thor.Address) (*big.Int, error) {
	v, err := f.allowances.Get(allowanceKey(owner, spender))
	if err != nil {
		return nil, err
	}
	if v == nil {
		return new(big.Int), nil
	}
	return v, nil
}

// TransferFrom moves amount from one account to another on behalf of spender.
// Spending own funds needs no allowance.
func (f *Fungible) TransferFrom(spender, from, to thor.Address, amount *big.Int) error {
	if spender != from {
		allowance, err := f.Allowance(from, spender)
		if err != nil {
			return err
		}
		if allowance.Cmp(amount) < 0 {
			return ErrInsufficientAllowance
		}
		if err := f.Approve(from, spender, allowance.Sub(allowance, amount)); err != nil {
			return err
		}
	}
	return f.Transfer(from, to, amount)
}

func deploy(ctx *solidity.Context, name, symbol string) error {
	if _, err := metadata(ctx); err == nil {
		return ErrAlreadyDeployed
	} else if err != ErrNotDeployed {
		return err
	}
	return ctx.State().EncodeStorage(ctx.Address(), slotMetadata, func() ([]byte, error) {
		return rlp.EncodeToBytes(&Metadata{name, symbol})
	})
}

func metadata(ctx *solidity.Context) (*Metadata, error) {
	var (
		md  Metadata
		set bool
	)
	if err := ctx.State().DecodeStorage(ctx.Address(), slotMetadata, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		set = true
		return rlp.DecodeBytes(raw, &md)
	}); err != nil {
		return nil, err
	}
	if !set {
		return nil, ErrNotDeployed
	}
	return &md, nil
}
