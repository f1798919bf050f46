// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstaking/logdb"
	"github.com/vechain/nftstaking/thor"
)

var (
	alice = thor.BytesToAddress([]byte("alice"))
	bob   = thor.BytesToAddress([]byte("bob"))
)

func pool(id uint64) *uint64 { return &id }

func newEvents() []*logdb.Event {
	var events []*logdb.Event
	events = append(events, &logdb.Event{Kind: "pool-created", PoolID: pool(0), Caller: alice, Time: 10, Data: []byte(`{"poolId":0}`)})
	for i := range uint64(10) {
		account := alice
		if i%2 == 1 {
			account = bob
		}
		events = append(events, &logdb.Event{
			Kind:    "staked",
			PoolID:  pool(i % 3),
			Account: &account,
			Caller:  account,
			Time:    100 + i,
		})
	}
	events = append(events, &logdb.Event{Kind: "signer-set", Caller: alice, Time: 200})
	return events
}

func TestLogDB(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	assert.NotEmpty(t, db.DriverVersion())

	events := newEvents()
	require.NoError(t, db.Insert(events))
	require.NoError(t, db.Insert(nil))
	for i, ev := range events {
		assert.Equal(t, uint64(i+1), ev.Seq)
	}

	all, err := db.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, events, all)

	tests := []struct {
		name   string
		filter *logdb.EventFilter
		seqs   []uint64
	}{
		{"kind", &logdb.EventFilter{Kinds: []string{"pool-created", "signer-set"}}, []uint64{1, 12}},
		{"pool", &logdb.EventFilter{PoolID: pool(2)}, []uint64{4, 7, 10}},
		{"account", &logdb.EventFilter{Account: &bob, Kinds: []string{"staked"}}, []uint64{3, 5, 7, 9, 11}},
		{"range", &logdb.EventFilter{Range: &logdb.Range{From: 105, To: 107}}, []uint64{7, 8, 9}},
		{"open range", &logdb.EventFilter{Range: &logdb.Range{From: 109}}, []uint64{11, 12}},
		{"desc paged", &logdb.EventFilter{
			Order:   logdb.DESC,
			Options: &logdb.Options{Offset: 1, Limit: 3},
		}, []uint64{11, 10, 9}},
		{"none", &logdb.EventFilter{PoolID: pool(9)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := db.FilterEvents(context.Background(), tt.filter)
			require.NoError(t, err)
			var seqs []uint64
			for _, ev := range res {
				seqs = append(seqs, ev.Seq)
			}
			assert.Equal(t, tt.seqs, seqs)
		})
	}
}

func TestCancelledFilter(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Insert(newEvents()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = db.FilterEvents(ctx, &logdb.EventFilter{})
	assert.Error(t, err)
}

func TestPersistent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.db")

	db, err := logdb.New(path)
	require.NoError(t, err)
	require.NoError(t, db.Insert(newEvents()))
	require.NoError(t, db.Close())

	db, err = logdb.New(path)
	require.NoError(t, err)
	defer db.Close()

	res, err := db.FilterEvents(context.Background(), &logdb.EventFilter{Kinds: []string{"signer-set"}})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, uint64(12), res[0].Seq)
	assert.Nil(t, res[0].PoolID)
	assert.Nil(t, res[0].Account)
	assert.Equal(t, alice, res[0].Caller)
}
