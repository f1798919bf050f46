// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstaking/api/events"
	"github.com/vechain/nftstaking/logdb"
	"github.com/vechain/nftstaking/thor"
)

const limit = 5

var (
	alice = thor.BytesToAddress([]byte("alice"))
	bob   = thor.BytesToAddress([]byte("bob"))
)

func initEventServer(t *testing.T) (*httptest.Server, *logdb.LogDB) {
	db, err := logdb.NewMem()
	require.NoError(t, err)

	pool0, pool1 := uint64(0), uint64(1)
	var batch []*logdb.Event
	for i := range uint64(8) {
		ev := &logdb.Event{
			Kind:   "staked",
			PoolID: &pool0,
			Caller: alice,
			Time:   1000 + i,
			Data:   []byte(`{"n":1}`),
		}
		switch {
		case i%4 == 1:
			ev.Kind = "withdrawn"
			ev.Account = &bob
		case i%4 == 2:
			ev.PoolID = &pool1
			ev.Account = &alice
		case i%4 == 3:
			ev.Kind = "signer-set"
			ev.PoolID = nil
		}
		batch = append(batch, ev)
	}
	require.NoError(t, db.Insert(batch))

	router := mux.NewRouter()
	events.New(db, limit).Mount(router, "/events")
	return httptest.NewServer(router), db
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return data, res.StatusCode
}

func filter(t *testing.T, ts *httptest.Server, query string) []*events.Event {
	res, code := httpGet(t, ts.URL+"/events"+query)
	require.Equal(t, http.StatusOK, code, string(res))
	var list []*events.Event
	require.NoError(t, json.Unmarshal(res, &list))
	return list
}

func TestEvents(t *testing.T) {
	ts, db := initEventServer(t)
	defer ts.Close()
	defer db.Close()

	// default limit applies
	list := filter(t, ts, "")
	require.Len(t, list, limit)
	assert.Equal(t, uint64(1), list[0].Seq)
	assert.Equal(t, alice, list[0].Caller)
	assert.JSONEq(t, `{"n":1}`, string(list[0].Data))

	list = filter(t, ts, "?kind=withdrawn")
	require.Len(t, list, 2)
	for _, ev := range list {
		assert.Equal(t, "withdrawn", ev.Kind)
		assert.Equal(t, &bob, ev.Account)
	}

	list = filter(t, ts, "?kind=withdrawn&kind=signer-set")
	assert.Len(t, list, 4)

	list = filter(t, ts, "?pool=1")
	require.Len(t, list, 2)
	assert.Equal(t, uint64(1), *list[0].PoolID)

	list = filter(t, ts, "?account="+alice.String())
	assert.Len(t, list, 2)

	list = filter(t, ts, "?from=1002&to=1004")
	require.Len(t, list, 3)
	assert.Equal(t, uint64(1002), list[0].Time)

	list = filter(t, ts, "?from=1006")
	assert.Len(t, list, 2)

	list = filter(t, ts, "?order=desc&limit=2")
	require.Len(t, list, 2)
	assert.Equal(t, uint64(8), list[0].Seq)

	list = filter(t, ts, "?offset=6")
	require.Len(t, list, 2)
	assert.Equal(t, uint64(7), list[0].Seq)

	list = filter(t, ts, "?kind=unknown")
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestEventsBadRequest(t *testing.T) {
	ts, db := initEventServer(t)
	defer ts.Close()
	defer db.Close()

	for _, tt := range []struct {
		query string
		code  int
	}{
		{"?pool=abc", http.StatusBadRequest},
		{"?account=0x01", http.StatusBadRequest},
		{"?from=5&to=4", http.StatusBadRequest},
		{"?order=random", http.StatusBadRequest},
		{"?limit=6", http.StatusForbidden},
		{"?offset=-1", http.StatusBadRequest},
	} {
		_, code := httpGet(t, ts.URL+"/events"+tt.query)
		assert.Equal(t, tt.code, code, tt.query)
	}
}
