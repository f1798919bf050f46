// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/nftstaking/log"
	"github.com/vechain/nftstaking/thor"
)

var logger = log.New("pkg", "api")

// CallerHeader carries the account a request acts on behalf of.
// It is trusted as is, authentication belongs to the gateway in front of the API.
const CallerHeader = "X-Caller"

// Caller returns the account set in the caller header.
func Caller(req *http.Request) (thor.Address, error) {
	v := req.Header.Get(CallerHeader)
	if v == "" {
		return thor.Address{}, BadRequest(errors.New("header " + CallerHeader + ": required"))
	}
	addr, err := thor.ParseAddress(v)
	if err != nil {
		return thor.Address{}, BadRequest(errors.WithMessage(err, "header "+CallerHeader))
	}
	return addr, nil
}

// Uint64Var parses the path variable name as a decimal uint64.
func Uint64Var(req *http.Request, name string) (uint64, error) {
	v, err := strconv.ParseUint(mux.Vars(req)[name], 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}

// AddressVar parses the path variable name as an address.
func AddressVar(req *http.Request, name string) (thor.Address, error) {
	addr, err := thor.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return thor.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}
