// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/nftstaking/builtin/authority"
	"github.com/vechain/nftstaking/builtin/staking"
	"github.com/vechain/nftstaking/cry"
	"github.com/vechain/nftstaking/state"
	"github.com/vechain/nftstaking/thor"
)

// Builtin contracts binding.
var (
	Authority = &authorityContract{newContract("Authority")}
	Staking   = &stakingContract{newContract("Staking")}
)

type contract struct {
	Name    string
	Address thor.Address
}

func newContract(name string) *contract {
	return &contract{name, thor.BytesToAddress([]byte(name))}
}

type (
	authorityContract struct{ *contract }
	stakingContract   struct{ *contract }
)

func (a *authorityContract) WithState(state *state.State) *authority.Authority {
	return authority.New(a.Address, state)
}

// WithState binds the engine to state. Signer recovery is memoized in signing.
func (s *stakingContract) WithState(state *state.State, signing *cry.Signing) *staking.Staking {
	return staking.New(s.Address, state, Authority.WithState(state), signing)
}
