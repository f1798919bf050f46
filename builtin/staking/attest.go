// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/nftstaking/builtin/staking/ledger"
	"github.com/vechain/nftstaking/cry"
	"github.com/vechain/nftstaking/thor"
)

// Payload is a stake request attested by the trusted signer.
type Payload struct {
	Collection thor.Address
	User       thor.Address
	IDs        []*big.Int
	Prices     []*big.Int
	Tiers      []ledger.Tier
	Signature  []byte
}

// Total returns the sum of declared prices.
func (p *Payload) Total() *big.Int {
	total := new(big.Int)
	for _, price := range p.Prices {
		total.Add(total, price)
	}
	return total
}

func word(v *big.Int) []byte {
	return math.U256Bytes(new(big.Int).Set(v))
}

// Digest returns keccak256 of the tightly packed
// (uint256 poolID, address user, address collection, uint256[] ids, uint256[] prices, uint256[] tiers).
func (p *Payload) Digest(poolID uint64) thor.Bytes32 {
	return thor.Keccak256Fn(func(w io.Writer) {
		w.Write(word(new(big.Int).SetUint64(poolID)))
		w.Write(p.User[:])
		w.Write(p.Collection[:])
		for _, id := range p.IDs {
			w.Write(word(id))
		}
		for _, price := range p.Prices {
			w.Write(word(price))
		}
		for _, tier := range p.Tiers {
			w.Write(word(big.NewInt(int64(tier))))
		}
	})
}

// Verifier authenticates payloads against the trusted signer.
type Verifier struct {
	signing *cry.Signing
}

func NewVerifier(signing *cry.Signing) *Verifier {
	return &Verifier{signing}
}

// Verify succeeds iff the payload was signed by trusted.
func (v *Verifier) Verify(poolID uint64, p *Payload, trusted thor.Address) error {
	if trusted.IsZero() {
		return ErrInvalidSignature
	}
	signer, err := v.signing.Signer(p.Digest(poolID), p.Signature)
	if err != nil {
		logger.Debug("failed to recover attestation signer", "pool", poolID, "error", err)
		return ErrInvalidSignature
	}
	if signer != trusted {
		return ErrInvalidSignature
	}
	return nil
}
