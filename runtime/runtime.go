// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/nftstaking/builtin/reverts"
	"github.com/vechain/nftstaking/builtin/staking"
	"github.com/vechain/nftstaking/log"
	"github.com/vechain/nftstaking/logdb"
	"github.com/vechain/nftstaking/state"
	"github.com/vechain/nftstaking/thor"
	"github.com/vechain/nftstaking/xenv"
)

var logger = log.New("pkg", "runtime")

// Clock returns the current unix time in seconds.
type Clock func() uint64

// SystemClock reads the wall clock.
func SystemClock() uint64 {
	return uint64(time.Now().Unix())
}

// Call is a ledger operation executed on behalf of the caller of env.
type Call func(env *xenv.Environment) error

// Output is the outcome of a committed call.
type Output struct {
	Time   uint64
	Events []*logdb.Event
}

// Runtime executes ledger operations one at a time.
// Each call either commits all its changes or none of them.
type Runtime struct {
	mu    sync.Mutex
	state *state.State
	logDB *logdb.LogDB
	clock Clock
}

// New create a Runtime object. logDB may be nil.
func New(state *state.State, logDB *logdb.LogDB, clock Clock) *Runtime {
	if clock == nil {
		clock = SystemClock
	}
	return &Runtime{
		state: state,
		logDB: logDB,
		clock: clock,
	}
}

func (rt *Runtime) State() *state.State { return rt.state }

// Execute runs the call stamped with the current time and commits it.
func (rt *Runtime) Execute(name string, caller thor.Address, call Call) (*Output, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	start := time.Now()
	now := rt.clock()
	env := xenv.New(rt.state, &xenv.CallContext{Caller: caller, Time: now})

	checkpoint := rt.state.NewCheckpoint()
	if err := call(env); err != nil {
		rt.state.RevertTo(checkpoint)
		outcome := "error"
		if reverts.IsRevertErr(err) {
			outcome = "reverted"
			metricReverts().AddWithLabel(1, map[string]string{"reason": err.Error()})
		}
		metricCalls().AddWithLabel(1, map[string]string{"call": name, "outcome": outcome})
		logger.Debug("call failed", "call", name, "caller", caller, "error", err)
		return nil, err
	}

	if err := rt.state.Commit(); err != nil {
		rt.state.RevertTo(checkpoint)
		metricCalls().AddWithLabel(1, map[string]string{"call": name, "outcome": "error"})
		return nil, errors.Wrap(err, "commit state")
	}

	events, err := convertEvents(env.Events(), caller, now)
	if err != nil {
		return nil, err
	}
	if rt.logDB != nil {
		// state is already committed, a lost event is not worth failing the call
		if err := rt.logDB.Insert(events); err != nil {
			logger.Warn("failed to write events", "call", name, "error", err)
		}
	}

	metricCalls().AddWithLabel(1, map[string]string{"call": name, "outcome": "committed"})
	metricCallDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"call": name})
	logger.Debug("call committed", "call", name, "caller", caller, "events", len(events))
	return &Output{Time: now, Events: events}, nil
}

// View runs a read-only function against the committed state.
func (rt *Runtime) View(fn func(now uint64) error) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return fn(rt.clock())
}

func convertEvents(events []xenv.Event, caller thor.Address, now uint64) ([]*logdb.Event, error) {
	res := make([]*logdb.Event, 0, len(events))
	for _, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			return nil, errors.Wrap(err, "encode event")
		}
		poolID, account := ev.Topics()
		record := &logdb.Event{
			Kind:   ev.Kind(),
			Caller: caller,
			Time:   now,
			Data:   data,
		}
		if poolID != staking.NoPool {
			record.PoolID = &poolID
		}
		if !account.IsZero() {
			record.Account = &account
		}
		res = append(res, record)
	}
	return res, nil
}
