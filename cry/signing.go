// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cry

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/vechain/nftstaking/cache"
	"github.com/vechain/nftstaking/thor"
)

const signerCacheSize = 1024

// Signing signs personal messages and extracts their signers.
// Messages are 32 bytes digests wrapped by the "\x19Ethereum Signed Message:\n32" prefix,
// the format produced by wallet personal_sign.
type Signing struct {
	cache *cache.LRU
}

// NewSigning create a signing object.
func NewSigning() *Signing {
	c, _ := cache.NewLRU("signer", signerCacheSize)
	return &Signing{c}
}

// SigningHash returns the hash actually signed for the digest.
func SigningHash(digest thor.Bytes32) thor.Bytes32 {
	return thor.BytesToBytes32(accounts.TextHash(digest[:]))
}

// Sign sign the digest with given private key.
// The recovery id of the produced signature is 27 or 28.
func Sign(digest thor.Bytes32, key *ecdsa.PrivateKey) ([]byte, error) {
	hash := SigningHash(digest)
	sig, err := crypto.Sign(hash[:], key)
	if err != nil {
		return nil, err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

// Signer extract signer of the digest from signature.
func (s *Signing) Signer(digest thor.Bytes32, sig []byte) (thor.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return thor.Address{}, errors.New("invalid signature length")
	}
	key := thor.Blake2b(digest[:], sig)
	addr, err := s.cache.GetOrLoad(key, func(any) (any, error) {
		normalized := make([]byte, len(sig))
		copy(normalized, sig)
		if v := normalized[crypto.RecoveryIDOffset]; v >= 27 {
			normalized[crypto.RecoveryIDOffset] = v - 27
		}

		hash := SigningHash(digest)
		pub, err := crypto.SigToPub(hash[:], normalized)
		if err != nil {
			return nil, errors.Wrap(err, "recover signer")
		}
		return thor.Address(crypto.PubkeyToAddress(*pub)), nil
	})
	if err != nil {
		return thor.Address{}, err
	}
	return addr.(thor.Address), nil
}
