// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"github.com/vechain/nftstaking/state"
	"github.com/vechain/nftstaking/thor"
)

// Event is a record emitted by a ledger operation.
type Event interface {
	// Kind returns the event name.
	Kind() string
	// Topics returns the pool and the account the event is indexed by.
	Topics() (poolID uint64, account thor.Address)
}

// CallContext call context.
type CallContext struct {
	Caller thor.Address
	Time   uint64
}

// Environment an env to execute ledger operations.
type Environment struct {
	state   *state.State
	callCtx *CallContext
	events  []Event
}

// New create a new env.
func New(state *state.State, callCtx *CallContext) *Environment {
	return &Environment{
		state:   state,
		callCtx: callCtx,
	}
}

func (env *Environment) State() *state.State  { return env.state }
func (env *Environment) Caller() thor.Address { return env.callCtx.Caller }
func (env *Environment) Time() uint64         { return env.callCtx.Time }
func (env *Environment) Events() []Event      { return env.events }

// Emit appends an event. Events of a failed call are discarded by the caller.
func (env *Environment) Emit(ev Event) {
	env.events = append(env.events, ev)
}
