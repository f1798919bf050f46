// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vechain/nftstaking/builtin"
	"github.com/vechain/nftstaking/thor"
)

// DevAccount account for development.
type DevAccount struct {
	Address    thor.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns pre-alloced accounts for dev mode.
// The first one is the admin, the second one the attestation signer.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
		"88d2d80b12b92feaa0da6d62309463d20408157723f2d7e799b6a74ead9a673b",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		addr := crypto.PubkeyToAddress(pk.PublicKey)
		accs = append(accs, DevAccount{thor.Address(addr), pk})
	}
	devAccounts.Store(accs)
	return accs
}

// Dev asset addresses.
var (
	DevToken      = thor.BytesToAddress([]byte("UMAD"))
	DevCollection = thor.BytesToAddress([]byte("MCARD"))
)

func percent(tenths int64) *Amount {
	v := new(big.Int).Mul(big.NewInt(tenths), thor.RateScale)
	return (*Amount)(v.Div(v, big.NewInt(1000)))
}

// DevConfig returns the ledger of dev mode: one open ladder pool, funded users holding
// ten approved cards each, and a reward reserve in custody.
func DevConfig() *Config {
	launchTime := uint64(1526400000)
	accs := DevAccounts()

	tok := TokenConfig{
		Address: DevToken,
		Name:    "Madworld",
		Symbol:  "UMAD",
		Balances: []Balance{
			{Owner: builtin.Staking.Address, Amount: NewAmount(thor.Ether(10_000_000))},
		},
	}
	collection := CollectionConfig{
		Address: DevCollection,
		Name:    "Madworld cards",
		Symbol:  "MCARD",
	}
	for i, acc := range accs[2:] {
		tok.Balances = append(tok.Balances, Balance{
			Owner:          acc.Address,
			Amount:         NewAmount(thor.Ether(1_000_000)),
			ApproveStaking: true,
		})
		ids := make([]uint64, 0, 10)
		for id := range uint64(10) {
			ids = append(ids, uint64(i)*10+id+1)
		}
		collection.Cards = append(collection.Cards, Cards{
			Owner:          acc.Address,
			IDs:            ids,
			ApproveStaking: true,
		})
	}

	var (
		tiers   []TierConfig
		amounts = []int64{2000, 10000, 20000, 40000, 60000, 80000, 100000, 120000, 140000}
		rates   = []int64{20, 50, 85, 100, 115, 130, 145, 160, 175}
	)
	for i, amount := range amounts {
		tiers = append(tiers, TierConfig{Amount: NewAmount(thor.Ether(amount)), Rate: percent(rates[i])})
	}

	return &Config{
		LaunchTime:  launchTime,
		Admins:      []thor.Address{accs[0].Address},
		Signer:      accs[1].Address,
		Tokens:      []TokenConfig{tok},
		Collections: []CollectionConfig{collection},
		Pools: []PoolConfig{{
			Name:           "pool rewards",
			Tiers:          tiers,
			Collection:     DevCollection,
			StakingToken:   DevToken,
			RewardToken:    DevToken,
			Size:           NewAmount(thor.Ether(5_000_000)),
			MaxHigherPerTx: 5,
			MaxLowerPerTx:  10,
			OpenTime:       launchTime,
			CloseTime:      launchTime + 10*thor.SecondsPerYear,
		}},
	}
}
