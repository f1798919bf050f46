// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package assets

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/nftstaking/api/utils"
	"github.com/vechain/nftstaking/builtin/token"
	"github.com/vechain/nftstaking/runtime"
	"github.com/vechain/nftstaking/xenv"
)

// Assets serves the fungible tokens and card collections held by the ledger.
type Assets struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Assets {
	return &Assets{rt}
}

func assetError(err error) error {
	if errors.Cause(err) == token.ErrNotDeployed {
		return utils.NotFound(err)
	}
	return utils.CallError(err)
}

func amountOf(v *math.HexOrDecimal256) (*big.Int, error) {
	if v == nil {
		return nil, utils.BadRequest(errors.New("amount: required"))
	}
	return (*big.Int)(v), nil
}

func (a *Assets) handleGetToken(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var res *Token
	if err := a.rt.View(func(uint64) error {
		tok := token.NewFungible(addr, a.rt.State())
		md, err := tok.Metadata()
		if err != nil {
			return err
		}
		supply, err := tok.TotalSupply()
		if err != nil {
			return err
		}
		res = &Token{
			Address:     addr,
			Name:        md.Name,
			Symbol:      md.Symbol,
			TotalSupply: (*math.HexOrDecimal256)(supply),
		}
		return nil
	}); err != nil {
		return assetError(err)
	}
	return utils.WriteJSON(w, res)
}

func (a *Assets) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	owner, err := utils.AddressVar(req, "owner")
	if err != nil {
		return err
	}
	var balance *big.Int
	if err := a.rt.View(func(uint64) (err error) {
		tok := token.NewFungible(addr, a.rt.State())
		if _, err := tok.Metadata(); err != nil {
			return err
		}
		balance, err = tok.BalanceOf(owner)
		return
	}); err != nil {
		return assetError(err)
	}
	return utils.WriteJSON(w, &Balance{Owner: owner, Balance: (*math.HexOrDecimal256)(balance)})
}

func (a *Assets) handleApprove(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var body Approval
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := amountOf(body.Amount)
	if err != nil {
		return err
	}
	return a.respond(w, req, "approve", func(env *xenv.Environment) error {
		tok := token.NewFungible(addr, env.State())
		if _, err := tok.Metadata(); err != nil {
			return err
		}
		return tok.Approve(env.Caller(), body.Spender, amount)
	})
}

func (a *Assets) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var body Transfer
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := amountOf(body.Amount)
	if err != nil {
		return err
	}
	return a.respond(w, req, "transfer", func(env *xenv.Environment) error {
		tok := token.NewFungible(addr, env.State())
		if _, err := tok.Metadata(); err != nil {
			return err
		}
		return tok.Transfer(env.Caller(), body.To, amount)
	})
}

func (a *Assets) handleGetCard(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	id, ok := math.ParseBig256(mux.Vars(req)["id"])
	if !ok || id.Sign() <= 0 {
		return utils.BadRequest(errors.New("id: invalid number"))
	}
	var res *Card
	if err := a.rt.View(func(uint64) error {
		collection := token.NewCollection(addr, a.rt.State())
		if _, err := collection.Metadata(); err != nil {
			return err
		}
		owner, err := collection.OwnerOf(id)
		if err != nil {
			return err
		}
		res = &Card{ID: (*math.HexOrDecimal256)(id), Owner: owner}
		return nil
	}); err != nil {
		if errors.Cause(err) == token.ErrNonexistentToken {
			return utils.NotFound(err)
		}
		return assetError(err)
	}
	return utils.WriteJSON(w, res)
}

func (a *Assets) handleSetApprovalForAll(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var body OperatorApproval
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return a.respond(w, req, "setApprovalForAll", func(env *xenv.Environment) error {
		collection := token.NewCollection(addr, env.State())
		if _, err := collection.Metadata(); err != nil {
			return err
		}
		return collection.SetApprovalForAll(env.Caller(), body.Operator, body.Approved)
	})
}

func (a *Assets) respond(w http.ResponseWriter, req *http.Request, name string, call runtime.Call) error {
	caller, err := utils.Caller(req)
	if err != nil {
		return err
	}
	out, err := a.rt.Execute(name, caller, call)
	if err != nil {
		return assetError(err)
	}
	return utils.WriteJSON(w, &Receipt{Time: out.Time})
}

func (a *Assets) Mount(root *mux.Router) {
	tokens := root.PathPrefix("/tokens").Subrouter()
	tokens.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /tokens/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetToken))
	tokens.Path("/{address}/balances/{owner}").
		Methods(http.MethodGet).
		Name("GET /tokens/{address}/balances/{owner}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetBalance))
	tokens.Path("/{address}/approvals").
		Methods(http.MethodPost).
		Name("POST /tokens/{address}/approvals").
		HandlerFunc(utils.WrapHandlerFunc(a.handleApprove))
	tokens.Path("/{address}/transfers").
		Methods(http.MethodPost).
		Name("POST /tokens/{address}/transfers").
		HandlerFunc(utils.WrapHandlerFunc(a.handleTransfer))

	collections := root.PathPrefix("/collections").Subrouter()
	collections.Path("/{address}/cards/{id}").
		Methods(http.MethodGet).
		Name("GET /collections/{address}/cards/{id}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetCard))
	collections.Path("/{address}/approvals").
		Methods(http.MethodPost).
		Name("POST /collections/{address}/approvals").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetApprovalForAll))
}
