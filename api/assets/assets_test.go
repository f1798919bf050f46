// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package assets_test

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

	"github.com/vechain/nftstaking/api/assets"
	"github.com/vechain/nftstaking/api/utils"
	"github.com/vechain/nftstaking/builtin"
	"github.com/vechain/nftstaking/builtin/token"
	"github.com/vechain/nftstaking/genesis"
	"github.com/vechain/nftstaking/test/datagen"
	"github.com/vechain/nftstaking/test/testledger"
	"github.com/vechain/nftstaking/thor"
)

func initAssetsServer(t *testing.T) (*httptest.Server, *testledger.Ledger) {
	l, err := testledger.New()
	require.NoError(t, err)

	router := mux.NewRouter()
	assets.New(l.Runtime()).Mount(router)
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

func balanceOf(t *testing.T, ts *httptest.Server, owner thor.Address) *big.Int {
	res, code := httpDo(t, http.MethodGet, ts.URL+"/tokens/"+genesis.DevToken.String()+"/balances/"+owner.String(), nil, nil)
	require.Equal(t, http.StatusOK, code, string(res))
	var bal assets.Balance
	require.NoError(t, json.Unmarshal(res, &bal))
	assert.Equal(t, owner, bal.Owner)
	return (*big.Int)(bal.Balance)
}

func TestTokens(t *testing.T) {
	ts, l := initAssetsServer(t)
	defer ts.Close()
	defer l.Close()

	user := l.Users()[0].Address
	stranger := datagen.RandAddress()
	tokenURL := ts.URL + "/tokens/" + genesis.DevToken.String()

	res, code := httpDo(t, http.MethodGet, tokenURL, nil, nil)
	require.Equal(t, http.StatusOK, code, string(res))
	var tok assets.Token
	require.NoError(t, json.Unmarshal(res, &tok))
	assert.Equal(t, "UMAD", tok.Symbol)
	// reserve plus four funded users
	assert.Equal(t, 0, thor.Ether(14_000_000).Cmp((*big.Int)(tok.TotalSupply)))

	_, code = httpDo(t, http.MethodGet, ts.URL+"/tokens/"+stranger.String(), nil, nil)
	assert.Equal(t, http.StatusNotFound, code)

	assert.Equal(t, 0, thor.Ether(1_000_000).Cmp(balanceOf(t, ts, user)))
	assert.Equal(t, 0, balanceOf(t, ts, stranger).Sign())

	res, code = httpDo(t, http.MethodPost, tokenURL+"/transfers", &user, &assets.Transfer{
		To:     stranger,
		Amount: (*math.HexOrDecimal256)(thor.Ether(100)),
	})
	require.Equal(t, http.StatusOK, code, string(res))
	assert.Equal(t, 0, thor.Ether(100).Cmp(balanceOf(t, ts, stranger)))
	assert.Equal(t, 0, thor.Ether(999_900).Cmp(balanceOf(t, ts, user)))

	_, code = httpDo(t, http.MethodPost, tokenURL+"/transfers", &stranger, &assets.Transfer{
		To:     user,
		Amount: (*math.HexOrDecimal256)(thor.Ether(101)),
	})
	assert.Equal(t, http.StatusBadRequest, code)
	_, code = httpDo(t, http.MethodPost, tokenURL+"/transfers", &stranger, &assets.Transfer{To: user})
	assert.Equal(t, http.StatusBadRequest, code)

	res, code = httpDo(t, http.MethodPost, tokenURL+"/approvals", &stranger, &assets.Approval{
		Spender: builtin.Staking.Address,
		Amount:  (*math.HexOrDecimal256)(thor.Ether(50)),
	})
	require.Equal(t, http.StatusOK, code, string(res))
	allowance, err := token.NewFungible(genesis.DevToken, l.State()).Allowance(stranger, builtin.Staking.Address)
	require.NoError(t, err)
	assert.Equal(t, 0, thor.Ether(50).Cmp(allowance))

	_, code = httpDo(t, http.MethodPost, ts.URL+"/tokens/"+stranger.String()+"/approvals", &stranger, &assets.Approval{
		Spender: builtin.Staking.Address,
		Amount:  (*math.HexOrDecimal256)(thor.Ether(50)),
	})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCollections(t *testing.T) {
	ts, l := initAssetsServer(t)
	defer ts.Close()
	defer l.Close()

	user := l.Users()[1].Address
	collectionURL := ts.URL + "/collections/" + genesis.DevCollection.String()

	res, code := httpDo(t, http.MethodGet, collectionURL+"/cards/11", nil, nil)
	require.Equal(t, http.StatusOK, code, string(res))
	var card assets.Card
	require.NoError(t, json.Unmarshal(res, &card))
	assert.Equal(t, user, card.Owner)
	assert.Equal(t, int64(11), (*big.Int)(card.ID).Int64())

	_, code = httpDo(t, http.MethodGet, collectionURL+"/cards/"+datagen.RandCardID().String(), nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
	_, code = httpDo(t, http.MethodGet, collectionURL+"/cards/0", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	approved := func() bool {
		ok, err := token.NewCollection(genesis.DevCollection, l.State()).IsApprovedForAll(user, builtin.Staking.Address)
		require.NoError(t, err)
		return ok
	}
	assert.True(t, approved())

	res, code = httpDo(t, http.MethodPost, collectionURL+"/approvals", &user, &assets.OperatorApproval{
		Operator: builtin.Staking.Address,
		Approved: false,
	})
	require.Equal(t, http.StatusOK, code, string(res))
	assert.False(t, approved())

	_, code = httpDo(t, http.MethodPost, collectionURL+"/approvals", nil, &assets.OperatorApproval{
		Operator: builtin.Staking.Address,
		Approved: true,
	})
	assert.Equal(t, http.StatusBadRequest, code)
}
