// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"encoding/json"

	"github.com/vechain/nftstaking/logdb"
	"github.com/vechain/nftstaking/thor"
)

// Event is a ledger event as served by the API.
type Event struct {
	Seq     uint64          `json:"seq"`
	Kind    string          `json:"kind"`
	PoolID  *uint64         `json:"poolId,omitempty"`
	Account *thor.Address   `json:"account,omitempty"`
	Caller  thor.Address    `json:"caller"`
	Time    uint64          `json:"time"`
	Data    json.RawMessage `json:"data"`
}

// Convert converts a stored event to its API form.
func Convert(ev *logdb.Event) *Event {
	return &Event{
		Seq:     ev.Seq,
		Kind:    ev.Kind,
		PoolID:  ev.PoolID,
		Account: ev.Account,
		Caller:  ev.Caller,
		Time:    ev.Time,
		Data:    json.RawMessage(ev.Data),
	}
}

// ConvertAll converts a list of stored events. The result is never nil.
func ConvertAll(events []*logdb.Event) []*Event {
	res := make([]*Event, 0, len(events))
	for _, ev := range events {
		res = append(res, Convert(ev))
	}
	return res
}
