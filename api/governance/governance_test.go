// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstaking/api/governance"
	"github.com/vechain/nftstaking/api/utils"
	"github.com/vechain/nftstaking/builtin/staking"
	"github.com/vechain/nftstaking/test/datagen"
	"github.com/vechain/nftstaking/test/testledger"
	"github.com/vechain/nftstaking/thor"
)

func initGovernanceServer(t *testing.T) (*httptest.Server, *testledger.Ledger) {
	l, err := testledger.New()
	require.NoError(t, err)

	router := mux.NewRouter()
	governance.New(l.Runtime(), l.Signing()).Mount(router)
	return httptest.NewServer(router), l
}

func httpDo(t *testing.T, method, url string, caller *thor.Address, body any) ([]byte, int) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if caller != nil {
		req.Header.Set(utils.CallerHeader, caller.String())
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return data, res.StatusCode
}

func TestSigner(t *testing.T) {
	ts, l := initGovernanceServer(t)
	defer ts.Close()
	defer l.Close()

	admin := l.Admin().Address
	user := l.Users()[0].Address

	res, code := httpDo(t, http.MethodGet, ts.URL+"/signer", nil, nil)
	require.Equal(t, http.StatusOK, code, string(res))
	var signer governance.Signer
	require.NoError(t, json.Unmarshal(res, &signer))
	assert.Equal(t, l.Accounts()[1].Address, signer.Signer)

	next := datagen.RandAddress()
	_, code = httpDo(t, http.MethodPut, ts.URL+"/signer", &user, &governance.Signer{Signer: next})
	assert.Equal(t, http.StatusForbidden, code)
	_, code = httpDo(t, http.MethodPut, ts.URL+"/signer", &admin, &governance.Signer{})
	assert.Equal(t, http.StatusBadRequest, code)

	res, code = httpDo(t, http.MethodPut, ts.URL+"/signer", &admin, &governance.Signer{Signer: next})
	require.Equal(t, http.StatusOK, code, string(res))
	var receipt governance.Receipt
	require.NoError(t, json.Unmarshal(res, &receipt))
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, staking.EventSignerSet, receipt.Events[0].Kind)
	assert.Nil(t, receipt.Events[0].PoolID)

	res, _ = httpDo(t, http.MethodGet, ts.URL+"/signer", nil, nil)
	require.NoError(t, json.Unmarshal(res, &signer))
	assert.Equal(t, next, signer.Signer)
}

func TestParams(t *testing.T) {
	ts, l := initGovernanceServer(t)
	defer ts.Close()
	defer l.Close()

	admin := l.Admin().Address

	res, code := httpDo(t, http.MethodGet, ts.URL+"/params", nil, nil)
	require.Equal(t, http.StatusOK, code, string(res))
	var params governance.Params
	require.NoError(t, json.Unmarshal(res, &params))
	assert.Equal(t, staking.DefaultLockDuration, params.LockDuration)
	assert.Equal(t, 0, staking.DefaultMinStake.Cmp((*big.Int)(params.MinStake)))
	assert.Equal(t, 0, staking.DefaultPenaltyRate.Cmp((*big.Int)(params.PenaltyRate)))

	update := &governance.Params{
		MinStake:     (*math.HexOrDecimal256)(thor.Ether(10)),
		LockDuration: 60,
		PenaltyRate:  (*math.HexOrDecimal256)(new(big.Int)),
	}
	res, code = httpDo(t, http.MethodPut, ts.URL+"/params", &admin, update)
	require.Equal(t, http.StatusOK, code, string(res))

	res, _ = httpDo(t, http.MethodGet, ts.URL+"/params", nil, nil)
	require.NoError(t, json.Unmarshal(res, &params))
	assert.Equal(t, uint64(60), params.LockDuration)
	assert.Equal(t, 0, thor.Ether(10).Cmp((*big.Int)(params.MinStake)))
	assert.Equal(t, 0, (*big.Int)(params.PenaltyRate).Sign())

	// penalty rate above 100%
	update.PenaltyRate = (*math.HexOrDecimal256)(thor.Ether(2))
	_, code = httpDo(t, http.MethodPut, ts.URL+"/params", &admin, update)
	assert.Equal(t, http.StatusBadRequest, code)

	_, code = httpDo(t, http.MethodPut, ts.URL+"/params", &admin, &governance.Params{LockDuration: 1})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRoles(t *testing.T) {
	ts, l := initGovernanceServer(t)
	defer ts.Close()
	defer l.Close()

	admin := l.Admin().Address
	user := l.Users()[0].Address

	member := func(role string, account thor.Address) bool {
		res, code := httpDo(t, http.MethodGet, ts.URL+"/roles/"+role+"/members/"+account.String(), nil, nil)
		require.Equal(t, http.StatusOK, code, string(res))
		var m governance.Membership
		require.NoError(t, json.Unmarshal(res, &m))
		assert.Equal(t, role, m.Role)
		return m.Member
	}

	assert.True(t, member("admin", admin))
	assert.True(t, member("default-admin", admin))
	assert.False(t, member("admin", user))

	_, code := httpDo(t, http.MethodPost, ts.URL+"/roles/admin/grant", &user, &governance.Member{Account: user})
	assert.Equal(t, http.StatusForbidden, code)
	_, code = httpDo(t, http.MethodPost, ts.URL+"/roles/owner/grant", &admin, &governance.Member{Account: user})
	assert.Equal(t, http.StatusNotFound, code)
	_, code = httpDo(t, http.MethodPost, ts.URL+"/roles/admin/grant", &admin, &governance.Member{})
	assert.Equal(t, http.StatusBadRequest, code)

	res, code := httpDo(t, http.MethodPost, ts.URL+"/roles/admin/grant", &admin, &governance.Member{Account: user})
	require.Equal(t, http.StatusOK, code, string(res))
	assert.True(t, member("admin", user))

	// the new admin may rotate the signer
	_, code = httpDo(t, http.MethodPut, ts.URL+"/signer", &user, &governance.Signer{Signer: datagen.RandAddress()})
	assert.Equal(t, http.StatusOK, code)

	res, code = httpDo(t, http.MethodPost, ts.URL+"/roles/admin/revoke", &admin, &governance.Member{Account: user})
	require.Equal(t, http.StatusOK, code, string(res))
	assert.False(t, member("admin", user))

	// the last default admin stays
	_, code = httpDo(t, http.MethodPost, ts.URL+"/roles/default-admin/revoke", &admin, &governance.Member{Account: admin})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.True(t, member("default-admin", admin))
}
