// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testledger

import (
	"math/big"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/vechain/nftstaking/builtin"
	"github.com/vechain/nftstaking/builtin/staking"
	"github.com/vechain/nftstaking/builtin/staking/ledger"
	"github.com/vechain/nftstaking/cry"
	"github.com/vechain/nftstaking/genesis"
	"github.com/vechain/nftstaking/logdb"
	"github.com/vechain/nftstaking/lvldb"
	"github.com/vechain/nftstaking/runtime"
	"github.com/vechain/nftstaking/state"
	"github.com/vechain/nftstaking/thor"
)

// Ledger is an in-memory dev ledger driven by a manual clock.
// Accounts follow genesis.DevAccounts: the first is the admin, the second the signer
// and the others are users holding ten approved cards each.
type Ledger struct {
	db       *lvldb.LevelDB
	state    *state.State
	logDB    *logdb.LogDB
	rt       *runtime.Runtime
	signing  *cry.Signing
	now      atomic.Uint64
	accounts []genesis.DevAccount
}

// New builds the dev ledger with the clock set one hour after launch.
func New() (*Ledger, error) {
	return NewWithConfig(genesis.DevConfig())
}

// NewWithConfig builds a ledger from cfg with the clock set one hour after launch.
func NewWithConfig(cfg *genesis.Config) (*Ledger, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	logDB, err := logdb.NewMem()
	if err != nil {
		return nil, err
	}
	st := state.New(db)

	builder, err := genesis.NewBuilder(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "genesis")
	}
	if _, err := builder.Build(st, logDB); err != nil {
		return nil, errors.Wrap(err, "genesis")
	}

	l := &Ledger{
		db:       db,
		state:    st,
		logDB:    logDB,
		signing:  cry.NewSigning(),
		accounts: genesis.DevAccounts(),
	}
	l.now.Store(cfg.LaunchTime + 3600)
	l.rt = runtime.New(st, logDB, l.now.Load)
	return l, nil
}

func (l *Ledger) Runtime() *runtime.Runtime { return l.rt }
func (l *Ledger) LogDB() *logdb.LogDB { return l.logDB }
func (l *Ledger) State() *state.State { return l.state }
func (l *Ledger) Signing() *cry.Signing { return l.signing }
func (l *Ledger) Accounts() []genesis.DevAccount { return l.accounts }
func (l *Ledger) Admin() genesis.DevAccount { return l.accounts[0] }
func (l *Ledger) Users() []genesis.DevAccount { return l.accounts[2:] }
func (l *Ledger) Engine() *staking.Staking { return builtin.Staking.WithState(l.state, l.signing) }
func (l *Ledger) Now() uint64 { return l.now.Load() }
func (l *Ledger) SetTime(t uint64) { l.now.Store(t) }
func (l *Ledger) Advance(seconds uint64) { l.now.Add(seconds) }

// Close releases the databases.
func (l *Ledger) Close() error {
	if err := l.logDB.Close(); err != nil {
		return err
	}
	return l.db.Close()
}

// Cards returns the ids of the dev cards held by the i-th user.
func Cards(i int) []*big.Int {
	ids := make([]*big.Int, 0, 10)
	for n := range 10 {
		ids = append(ids, big.NewInt(int64(i*10+n+1)))
	}
	return ids
}

// Attest signs a stake request of user on poolID with the dev signer.
func (l *Ledger) Attest(poolID uint64, user thor.Address, ids, prices []*big.Int, tiers []ledger.Tier) (*staking.Payload, error) {
	p := &staking.Payload{
		Collection: genesis.DevCollection,
		User:       user,
		IDs:        ids,
		Prices:     prices,
		Tiers:      tiers,
	}
	sig, err := cry.Sign(p.Digest(poolID), l.accounts[1].PrivateKey)
	if err != nil {
		return nil, err
	}
	p.Signature = sig
	return p, nil
}
