// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/vechain/nftstaking/thor"
)

// Event is a ledger event as stored in db.
type Event struct {
	Seq     uint64
	Kind    string
	PoolID  *uint64       // nil for events not bound to a pool
	Account *thor.Address // nil for events not bound to an account
	Caller  thor.Address
	Time    uint64
	Data    []byte // json encoded event fields
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive time range. A To less than From leaves the range open ended.
type Range struct {
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// EventFilter filter
type EventFilter struct {
	Kinds   []string
	PoolID  *uint64
	Account *thor.Address
	Range   *Range
	Options *Options
	Order   Order // default asc
}
