// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/nftstaking/builtin"
	"github.com/vechain/nftstaking/builtin/authority"
	"github.com/vechain/nftstaking/builtin/token"
	"github.com/vechain/nftstaking/cry"
	"github.com/vechain/nftstaking/log"
	"github.com/vechain/nftstaking/logdb"
	"github.com/vechain/nftstaking/runtime"
	"github.com/vechain/nftstaking/state"
	"github.com/vechain/nftstaking/thor"
	"github.com/vechain/nftstaking/xenv"
)

var (
	logger = log.New("pkg", "genesis")

	slotLaunched = thor.BytesToBytes32([]byte("genesis-launched"))

	// ErrAlreadyLaunched is returned when building over a ledger that already has a genesis.
	ErrAlreadyLaunched = errors.New("genesis already applied")
)

// LaunchTime returns the launch time recorded by genesis, false if none was applied.
func LaunchTime(st *state.State) (uint64, bool, error) {
	v, err := st.GetStorage(builtin.Staking.Address, slotLaunched)
	if err != nil {
		return 0, false, err
	}
	if v.IsZero() {
		return 0, false, nil
	}
	return binary.BigEndian.Uint64(v[24:]), true, nil
}

func markLaunched(st *state.State, launchTime uint64) {
	v := thor.Uint64ToBytes32(launchTime)
	v[0] = 1
	st.SetStorage(builtin.Staking.Address, slotLaunched, v)
}

// Builder helper to build genesis state.
type Builder struct {
	launchTime uint64
	stateProcs []func(state *state.State) error
	calls      []call
}

type call struct {
	name   string
	caller thor.Address
	fn     runtime.Call
}

// LaunchTime set launch time, the time genesis calls are stamped with.
func (b *Builder) LaunchTime(t uint64) *Builder {
	b.launchTime = t
	return b
}

// State add a state process
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Call add a ledger call.
func (b *Builder) Call(name string, caller thor.Address, fn runtime.Call) *Builder {
	b.calls = append(b.calls, call{name, caller, fn})
	return b
}

// Build applies the genesis on st and commits it. Events of genesis calls go to logDB when not nil.
func (b *Builder) Build(st *state.State, logDB *logdb.LogDB) (events []*logdb.Event, err error) {
	if _, launched, err := LaunchTime(st); err != nil {
		return nil, err
	} else if launched {
		return nil, ErrAlreadyLaunched
	}

	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return nil, errors.Wrap(err, "state process")
		}
	}

	rt := runtime.New(st, logDB, func() uint64 { return b.launchTime })
	for _, call := range b.calls {
		out, err := rt.Execute(call.name, call.caller, call.fn)
		if err != nil {
			return nil, errors.Wrapf(err, "call %v", call.name)
		}
		events = append(events, out.Events...)
	}

	markLaunched(st, b.launchTime)
	if err := st.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit state")
	}
	logger.Info("genesis applied", "launchTime", b.launchTime, "calls", len(b.calls))
	return events, nil
}

// NewBuilder creates the builder of a ledger described by cfg.
func NewBuilder(cfg *Config) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	params := cfg.Params.Params()

	builder := new(Builder).
		LaunchTime(cfg.LaunchTime).
		State(func(state *state.State) error {
			auth := builtin.Authority.WithState(state)
			for _, admin := range cfg.Admins {
				if err := auth.Setup(authority.RoleDefaultAdmin, admin); err != nil {
					return err
				}
				if err := auth.Setup(authority.RoleAdmin, admin); err != nil {
					return err
				}
			}

			engine := builtin.Staking.WithState(state, cry.NewSigning())
			if err := engine.InitParams(params); err != nil {
				return errors.Wrap(err, "params")
			}
			if !cfg.Signer.IsZero() {
				engine.InitSigner(cfg.Signer)
			}
			return nil
		}).
		State(func(state *state.State) error {
			for _, tc := range cfg.Tokens {
				tok := token.NewFungible(tc.Address, state)
				if err := tok.Deploy(tc.Name, tc.Symbol); err != nil {
					return errors.Wrapf(err, "token %v", tc.Address)
				}
				for _, b := range tc.Balances {
					amount := b.Amount.Int()
					if err := tok.Mint(b.Owner, amount); err != nil {
						return errors.Wrapf(err, "token %v: mint", tc.Address)
					}
					if b.ApproveStaking {
						if err := tok.Approve(b.Owner, builtin.Staking.Address, amount); err != nil {
							return errors.Wrapf(err, "token %v: approve", tc.Address)
						}
					}
				}
			}
			return nil
		}).
		State(func(state *state.State) error {
			for _, cc := range cfg.Collections {
				collection := token.NewCollection(cc.Address, state)
				if err := collection.Deploy(cc.Name, cc.Symbol); err != nil {
					return errors.Wrapf(err, "collection %v", cc.Address)
				}
				for _, cards := range cc.Cards {
					for _, id := range cards.IDs {
						if err := collection.Mint(cards.Owner, new(big.Int).SetUint64(id)); err != nil {
							return errors.Wrapf(err, "collection %v: mint %v", cc.Address, id)
						}
					}
					if cards.ApproveStaking {
						if err := collection.SetApprovalForAll(cards.Owner, builtin.Staking.Address, true); err != nil {
							return errors.Wrapf(err, "collection %v: approve", cc.Address)
						}
					}
				}
			}
			return nil
		})

	for i := range cfg.Pools {
		p := cfg.Pools[i].Pool()
		builder.Call("createPool", cfg.Admins[0], func(env *xenv.Environment) error {
			_, err := builtin.Staking.WithState(env.State(), cry.NewSigning()).CreatePool(env, p)
			return err
		})
	}
	return builder, nil
}
