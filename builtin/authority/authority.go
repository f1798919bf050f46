// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package authority

import (
	"github.com/vechain/nftstaking/builtin/reverts"
	"github.com/vechain/nftstaking/builtin/solidity"
	"github.com/vechain/nftstaking/log"
	"github.com/vechain/nftstaking/state"
	"github.com/vechain/nftstaking/thor"
)

var logger = log.New("pkg", "authority")

var (
	// RoleDefaultAdmin administers every role, including itself.
	RoleDefaultAdmin = thor.Bytes32{}
	// RoleAdmin may configure pools and the attestation signer.
	RoleAdmin = thor.Keccak256([]byte("ADMIN"))

	slotMembers = thor.Blake2b([]byte("members"))
	slotCounts  = thor.Blake2b([]byte("counts"))

	ErrUnauthorized = reverts.NewRequireError("caller is not authorized")
	ErrLastAdmin    = reverts.NewRequireError("cannot revoke the last default admin")
)

// Authority implements role based access control of the ledger.
type Authority struct {
	members *solidity.Mapping[thor.Bytes32, bool]
	counts  *solidity.Mapping[thor.Bytes32, uint64]
}

// New create a new instance.
func New(addr thor.Address, state *state.State) *Authority {
	ctx := solidity.NewContext(addr, state)
	return &Authority{
		members: solidity.NewMapping[thor.Bytes32, bool](ctx, slotMembers),
		counts:  solidity.NewMapping[thor.Bytes32, uint64](ctx, slotCounts),
	}
}

func memberKey(role thor.Bytes32, account thor.Address) thor.Bytes32 {
	return thor.Blake2b(role.Bytes(), account.Bytes())
}

// HasRole returns whether the account holds the role.
func (a *Authority) HasRole(role thor.Bytes32, account thor.Address) (bool, error) {
	return a.members.Get(memberKey(role, account))
}

// Members returns count of accounts holding the role.
func (a *Authority) Members(role thor.Bytes32) (uint64, error) {
	return a.counts.Get(role)
}

// Setup grants the role without any caller check. Used when building genesis.
func (a *Authority) Setup(role thor.Bytes32, account thor.Address) error {
	has, err := a.HasRole(role, account)
	if err != nil || has {
		return err
	}
	if err := a.members.Set(memberKey(role, account), true); err != nil {
		return err
	}
	count, err := a.counts.Get(role)
	if err != nil {
		return err
	}
	return a.counts.Set(role, count+1)
}

// GrantRole grants the role to account. The caller must be a default admin.
func (a *Authority) GrantRole(caller thor.Address, role thor.Bytes32, account thor.Address) error {
	if err := a.requireDefaultAdmin(caller); err != nil {
		return err
	}
	logger.Debug("granting role", "role", role.AbbrevString(), "account", account)
	if err := a.Setup(role, account); err != nil {
		return err
	}
	logger.Info("role granted", "role", role.AbbrevString(), "account", account)
	return nil
}

// RevokeRole revokes the role from account. The caller must be a default admin.
func (a *Authority) RevokeRole(caller thor.Address, role thor.Bytes32, account thor.Address) error {
	if err := a.requireDefaultAdmin(caller); err != nil {
		return err
	}
	has, err := a.HasRole(role, account)
	if err != nil || !has {
		return err
	}
	count, err := a.counts.Get(role)
	if err != nil {
		return err
	}
	if role == RoleDefaultAdmin && count <= 1 {
		return ErrLastAdmin
	}

	logger.Debug("revoking role", "role", role.AbbrevString(), "account", account)
	a.members.Delete(memberKey(role, account))
	if err := a.counts.Set(role, count-1); err != nil {
		return err
	}
	logger.Info("role revoked", "role", role.AbbrevString(), "account", account)
	return nil
}

// Require returns ErrUnauthorized if account does not hold the role.
func (a *Authority) Require(role thor.Bytes32, account thor.Address) error {
	has, err := a.HasRole(role, account)
	if err != nil {
		return err
	}
	if !has {
		return ErrUnauthorized
	}
	return nil
}

func (a *Authority) requireDefaultAdmin(caller thor.Address) error {
	return a.Require(RoleDefaultAdmin, caller)
}
