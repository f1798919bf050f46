// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"io"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/nftstaking/api/events"
	"github.com/vechain/nftstaking/api/utils"
	"github.com/vechain/nftstaking/builtin"
	"github.com/vechain/nftstaking/builtin/staking"
	"github.com/vechain/nftstaking/cry"
	"github.com/vechain/nftstaking/runtime"
	"github.com/vechain/nftstaking/xenv"
)

type Pools struct {
	rt      *runtime.Runtime
	signing *cry.Signing
}

func New(rt *runtime.Runtime, signing *cry.Signing) *Pools {
	return &Pools{
		rt,
		signing,
	}
}

func (p *Pools) execute(req *http.Request, name string, call func(env *xenv.Environment, engine *staking.Staking) error) (*Receipt, error) {
	caller, err := utils.Caller(req)
	if err != nil {
		return nil, err
	}
	out, err := p.rt.Execute(name, caller, func(env *xenv.Environment) error {
		return call(env, builtin.Staking.WithState(env.State(), p.signing))
	})
	if err != nil {
		return nil, utils.CallError(err)
	}
	return &Receipt{
		Time:   out.Time,
		Events: events.ConvertAll(out.Events),
	}, nil
}

func (p *Pools) view(fn func(engine *staking.Staking, now uint64) error) error {
	err := p.rt.View(func(now uint64) error {
		return fn(builtin.Staking.WithState(p.rt.State(), p.signing), now)
	})
	return utils.CallError(err)
}

func parseAmount(s, name string) (*big.Int, error) {
	if s == "" {
		return nil, utils.BadRequest(errors.New(name + ": required"))
	}
	v, ok := math.ParseBig256(s)
	if !ok || v.Sign() < 0 {
		return nil, utils.BadRequest(errors.New(name + ": invalid number"))
	}
	return v, nil
}

func (p *Pools) handleCreatePool(w http.ResponseWriter, req *http.Request) error {
	var body PoolCreation
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	var id uint64
	receipt, err := p.execute(req, "createPool", func(env *xenv.Environment, engine *staking.Staking) (err error) {
		id, err = engine.CreatePool(env, body.pool())
		return
	})
	if err != nil {
		return err
	}
	receipt.PoolID = &id
	return utils.WriteJSON(w, receipt)
}

func (p *Pools) handleUpdatePool(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body PoolUpdate
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt, err := p.execute(req, "updatePool", func(env *xenv.Environment, engine *staking.Staking) error {
		return engine.UpdatePool(env, id, body.Name)
	})
	if err != nil {
		return err
	}
	receipt.PoolID = &id
	return utils.WriteJSON(w, receipt)
}

func (p *Pools) handleListPools(w http.ResponseWriter, _ *http.Request) error {
	var res []*Pool
	if err := p.view(func(engine *staking.Staking, now uint64) error {
		count, err := engine.PoolCount()
		if err != nil {
			return err
		}
		res = make([]*Pool, 0, count)
		for id := range count {
			pl, err := engine.Pool(id)
			if err != nil {
				return err
			}
			res = append(res, convertPool(id, pl, now))
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (p *Pools) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var res *Pool
	if err := p.view(func(engine *staking.Staking, now uint64) error {
		pl, err := engine.Pool(id)
		if err != nil {
			return err
		}
		res = convertPool(id, pl, now)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (p *Pools) handleGetApy(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	amount, err := parseAmount(req.URL.Query().Get("amount"), "amount")
	if err != nil {
		return err
	}
	var rate *big.Int
	if err := p.view(func(engine *staking.Staking, _ uint64) (err error) {
		rate, err = engine.GetApyByStake(id, amount)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Apy{Amount: hex256(amount), Rate: hex256(rate)})
}

func (p *Pools) handleGetUser(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	user, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var data *staking.UserData
	if err := p.view(func(engine *staking.Staking, _ uint64) (err error) {
		data, err = engine.GetPoolData2(id, user)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &User{
		Rate:        hex256(data.Rate),
		StakedCards: data.StakedCards,
		Principal:   hex256(data.Principal),
	})
}

func (p *Pools) handleGetReward(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	user, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var reward *big.Int
	if err := p.view(func(engine *staking.Staking, now uint64) (err error) {
		reward, err = engine.GetReward(id, user, now)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Reward{Reward: hex256(reward)})
}

func (p *Pools) handleGetUserCards(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	user, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var higher, lower []*big.Int
	if err := p.view(func(engine *staking.Staking, _ uint64) (err error) {
		higher, lower, err = engine.GetUserCardsStaked(id, user)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Cards{Higher: hexList(higher), Lower: hexList(lower)})
}

func (p *Pools) handleGetCard(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	cardID, err := parseAmount(mux.Vars(req)["card"], "card")
	if err != nil {
		return err
	}
	var res *Card
	if err := p.view(func(engine *staking.Staking, _ uint64) error {
		stake, err := engine.StakeRecord(id, cardID)
		if err != nil {
			return err
		}
		if stake != nil {
			res = &Card{
				Owner:     stake.Owner,
				Principal: hex256(stake.Principal),
				Tier:      stake.Tier,
				StakedAt:  stake.StakedAt,
			}
		}
		return nil
	}); err != nil {
		return err
	}
	if res == nil {
		return utils.NotFound(staking.ErrCardNotStaked)
	}
	return utils.WriteJSON(w, res)
}

func (p *Pools) handleStake(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body Stake
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	payload, err := body.payload()
	if err != nil {
		return utils.BadRequest(err)
	}
	receipt, err := p.execute(req, "stakeCards", func(env *xenv.Environment, engine *staking.Staking) error {
		return engine.StakeCards(env, id, payload)
	})
	if err != nil {
		return err
	}
	receipt.PoolID = &id
	return utils.WriteJSON(w, receipt)
}

func (p *Pools) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body Withdrawal
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt, err := p.execute(req, "withdraw", func(env *xenv.Environment, engine *staking.Staking) error {
		return engine.Withdraw(env, id, bigList(body.IDs))
	})
	if err != nil {
		return err
	}
	receipt.PoolID = &id
	return utils.WriteJSON(w, receipt)
}

func (p *Pools) handleCheckpoint(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body Checkpoint
	// an empty body settles the caller
	if err := utils.ParseJSON(req.Body, &body); err != nil && err != io.EOF {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	var receipt *Receipt
	if len(body.Users) == 0 {
		receipt, err = p.execute(req, "update", func(env *xenv.Environment, engine *staking.Staking) error {
			return engine.Update(env, id)
		})
	} else {
		receipt, err = p.execute(req, "updateUsers", func(env *xenv.Environment, engine *staking.Staking) error {
			return engine.UpdateUsers(env, id, body.Users)
		})
	}
	if err != nil {
		return err
	}
	receipt.PoolID = &id
	return utils.WriteJSON(w, receipt)
}

func (p *Pools) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /pools").
		HandlerFunc(utils.WrapHandlerFunc(p.handleCreatePool))
	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /pools").
		HandlerFunc(utils.WrapHandlerFunc(p.handleListPools))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /pools/{id}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPool))
	sub.Path("/{id}").
		Methods(http.MethodPut).
		Name("PUT /pools/{id}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleUpdatePool))
	sub.Path("/{id}/apy").
		Methods(http.MethodGet).
		Name("GET /pools/{id}/apy").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetApy))
	sub.Path("/{id}/users/{address}").
		Methods(http.MethodGet).
		Name("GET /pools/{id}/users/{address}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetUser))
	sub.Path("/{id}/users/{address}/reward").
		Methods(http.MethodGet).
		Name("GET /pools/{id}/users/{address}/reward").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetReward))
	sub.Path("/{id}/users/{address}/cards").
		Methods(http.MethodGet).
		Name("GET /pools/{id}/users/{address}/cards").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetUserCards))
	sub.Path("/{id}/cards/{card}").
		Methods(http.MethodGet).
		Name("GET /pools/{id}/cards/{card}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetCard))
	sub.Path("/{id}/stakes").
		Methods(http.MethodPost).
		Name("POST /pools/{id}/stakes").
		HandlerFunc(utils.WrapHandlerFunc(p.handleStake))
	sub.Path("/{id}/withdrawals").
		Methods(http.MethodPost).
		Name("POST /pools/{id}/withdrawals").
		HandlerFunc(utils.WrapHandlerFunc(p.handleWithdraw))
	sub.Path("/{id}/checkpoints").
		Methods(http.MethodPost).
		Name("POST /pools/{id}/checkpoints").
		HandlerFunc(utils.WrapHandlerFunc(p.handleCheckpoint))
}
