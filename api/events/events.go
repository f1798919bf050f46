// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/nftstaking/api/utils"
	"github.com/vechain/nftstaking/logdb"
	"github.com/vechain/nftstaking/thor"
)

type Events struct {
	db    *logdb.LogDB
	limit uint64
}

func New(db *logdb.LogDB, limit uint64) *Events {
	return &Events{
		db,
		limit,
	}
}

func parseUint(query url.Values, name string) (*uint64, error) {
	v := query.Get(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, name))
	}
	return &n, nil
}

// parseFilter builds a filter from the query string:
// kind (repeatable), pool, account, from, to, offset, limit and order.
func (e *Events) parseFilter(query url.Values) (*logdb.EventFilter, error) {
	filter := &logdb.EventFilter{
		Kinds:   query["kind"],
		Options: &logdb.Options{Limit: e.limit},
	}

	poolID, err := parseUint(query, "pool")
	if err != nil {
		return nil, err
	}
	filter.PoolID = poolID

	if v := query.Get("account"); v != "" {
		account, err := thor.ParseAddress(v)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "account"))
		}
		filter.Account = &account
	}

	from, err := parseUint(query, "from")
	if err != nil {
		return nil, err
	}
	to, err := parseUint(query, "to")
	if err != nil {
		return nil, err
	}
	switch {
	case to != nil:
		filter.Range = &logdb.Range{To: *to}
		if from != nil {
			if *to < *from {
				return nil, utils.BadRequest(errors.New("to must be greater than or equal to from"))
			}
			filter.Range.From = *from
		}
	case from != nil && *from > 0:
		// To below From leaves the range open ended
		filter.Range = &logdb.Range{From: *from}
	}

	offset, err := parseUint(query, "offset")
	if err != nil {
		return nil, err
	}
	if offset != nil {
		filter.Options.Offset = *offset
	}
	limit, err := parseUint(query, "limit")
	if err != nil {
		return nil, err
	}
	if limit != nil {
		if *limit > e.limit {
			return nil, utils.Forbidden(fmt.Errorf("limit exceeds the maximum allowed value of %d", e.limit))
		}
		filter.Options.Limit = *limit
	}

	switch order := logdb.Order(query.Get("order")); order {
	case "", logdb.ASC:
		filter.Order = logdb.ASC
	case logdb.DESC:
		filter.Order = logdb.DESC
	default:
		return nil, utils.BadRequest(fmt.Errorf("order: unsupported value %q", order))
	}
	return filter, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	filter, err := e.parseFilter(req.URL.Query())
	if err != nil {
		return err
	}
	events, err := e.db.FilterEvents(req.Context(), filter)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, ConvertAll(events))
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
