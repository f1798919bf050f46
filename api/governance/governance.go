// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/nftstaking/api/events"
	"github.com/vechain/nftstaking/api/utils"
	"github.com/vechain/nftstaking/builtin"
	"github.com/vechain/nftstaking/builtin/authority"
	"github.com/vechain/nftstaking/builtin/staking"
	"github.com/vechain/nftstaking/cry"
	"github.com/vechain/nftstaking/runtime"
	"github.com/vechain/nftstaking/thor"
	"github.com/vechain/nftstaking/xenv"
)

var roles = map[string]thor.Bytes32{
	"default-admin": authority.RoleDefaultAdmin,
	"admin":         authority.RoleAdmin,
}

// Governance serves the signer, roles and deployment parameters.
type Governance struct {
	rt      *runtime.Runtime
	signing *cry.Signing
}

func New(rt *runtime.Runtime, signing *cry.Signing) *Governance {
	return &Governance{
		rt,
		signing,
	}
}

func (g *Governance) execute(req *http.Request, name string, call runtime.Call) (*Receipt, error) {
	caller, err := utils.Caller(req)
	if err != nil {
		return nil, err
	}
	out, err := g.rt.Execute(name, caller, call)
	if err != nil {
		return nil, utils.CallError(err)
	}
	return &Receipt{Time: out.Time, Events: events.ConvertAll(out.Events)}, nil
}

func parseRole(req *http.Request) (thor.Bytes32, error) {
	name := mux.Vars(req)["role"]
	role, ok := roles[name]
	if !ok {
		return thor.Bytes32{}, utils.NotFound(errors.Errorf("role %q: unknown", name))
	}
	return role, nil
}

func (g *Governance) handleGetSigner(w http.ResponseWriter, _ *http.Request) error {
	var signer thor.Address
	if err := g.rt.View(func(uint64) (err error) {
		signer, err = builtin.Staking.WithState(g.rt.State(), g.signing).Signer()
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Signer{Signer: signer})
}

func (g *Governance) handleSetSigner(w http.ResponseWriter, req *http.Request) error {
	var body Signer
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt, err := g.execute(req, "setSigner", func(env *xenv.Environment) error {
		return builtin.Staking.WithState(env.State(), g.signing).SetSigner(env, body.Signer)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, receipt)
}

func (g *Governance) handleGetParams(w http.ResponseWriter, _ *http.Request) error {
	var params *staking.Params
	if err := g.rt.View(func(uint64) (err error) {
		params, err = builtin.Staking.WithState(g.rt.State(), g.signing).Params()
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, convertParams(params))
}

func (g *Governance) handleSetParams(w http.ResponseWriter, req *http.Request) error {
	var body Params
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt, err := g.execute(req, "setParams", func(env *xenv.Environment) error {
		return builtin.Staking.WithState(env.State(), g.signing).SetParams(env, body.params())
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, receipt)
}

func (g *Governance) handleGetMember(w http.ResponseWriter, req *http.Request) error {
	role, err := parseRole(req)
	if err != nil {
		return err
	}
	account, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var member bool
	if err := g.rt.View(func(uint64) (err error) {
		member, err = builtin.Authority.WithState(g.rt.State()).HasRole(role, account)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Membership{
		Role:    mux.Vars(req)["role"],
		Account: account,
		Member:  member,
	})
}

func (g *Governance) handleGrant(w http.ResponseWriter, req *http.Request) error {
	return g.changeRole(w, req, "grantRole", (*authority.Authority).GrantRole)
}

func (g *Governance) handleRevoke(w http.ResponseWriter, req *http.Request) error {
	return g.changeRole(w, req, "revokeRole", (*authority.Authority).RevokeRole)
}

func (g *Governance) changeRole(
	w http.ResponseWriter,
	req *http.Request,
	name string,
	change func(a *authority.Authority, caller thor.Address, role thor.Bytes32, account thor.Address) error,
) error {
	role, err := parseRole(req)
	if err != nil {
		return err
	}
	var body Member
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Account.IsZero() {
		return utils.BadRequest(errors.New("account: required"))
	}
	receipt, err := g.execute(req, name, func(env *xenv.Environment) error {
		return change(builtin.Authority.WithState(env.State()), env.Caller(), role, body.Account)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, receipt)
}

// Mount registers the routes at the root of the router.
func (g *Governance) Mount(root *mux.Router) {
	root.Path("/signer").
		Methods(http.MethodGet).
		Name("GET /signer").
		HandlerFunc(utils.WrapHandlerFunc(g.handleGetSigner))
	root.Path("/signer").
		Methods(http.MethodPut).
		Name("PUT /signer").
		HandlerFunc(utils.WrapHandlerFunc(g.handleSetSigner))
	root.Path("/params").
		Methods(http.MethodGet).
		Name("GET /params").
		HandlerFunc(utils.WrapHandlerFunc(g.handleGetParams))
	root.Path("/params").
		Methods(http.MethodPut).
		Name("PUT /params").
		HandlerFunc(utils.WrapHandlerFunc(g.handleSetParams))
	root.Path("/roles/{role}/members/{address}").
		Methods(http.MethodGet).
		Name("GET /roles/{role}/members/{address}").
		HandlerFunc(utils.WrapHandlerFunc(g.handleGetMember))
	root.Path("/roles/{role}/grant").
		Methods(http.MethodPost).
		Name("POST /roles/{role}/grant").
		HandlerFunc(utils.WrapHandlerFunc(g.handleGrant))
	root.Path("/roles/{role}/revoke").
		Methods(http.MethodPost).
		Name("POST /roles/{role}/revoke").
		HandlerFunc(utils.WrapHandlerFunc(g.handleRevoke))
}
