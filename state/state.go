// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/nftstaking/cache"
	"github.com/vechain/nftstaking/kv"
	"github.com/vechain/nftstaking/stackedmap"
	"github.com/vechain/nftstaking/thor"
)

// StoreName is the name of the kv bucket that keeps storage slots.
const StoreName = "state.s"

// DefaultCacheSize is the number of loaded slots a State keeps in memory.
const DefaultCacheSize = 16384

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr thor.Address
	key  thor.Bytes32
}

func (k storageKey) bytes() []byte {
	b := make([]byte, 0, len(k.addr)+len(k.key))
	return append(append(b, k.addr[:]...), k.key[:]...)
}

// State manages the ledger storage.
type State struct {
	store kv.Store
	cache *cache.LRU // slots loaded from store, absent ones as nil
	sm    *stackedmap.StackedMap[storageKey, rlp.RawValue]
}

// New create state object with the default slot cache.
func New(db kv.Store) *State {
	return NewWithCacheSize(db, DefaultCacheSize)
}

// NewWithCacheSize create state object keeping at most cacheSize loaded slots in memory.
func NewWithCacheSize(db kv.Store, cacheSize int) *State {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	c, _ := cache.NewLRU("storage", cacheSize)
	state := State{
		store: kv.Bucket(StoreName).NewStore(db),
		cache: c,
	}
	state.sm = stackedmap.New(state.cacheGetter)
	state.sm.Push()
	return &state
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key storageKey) (rlp.RawValue, bool, error) {
	v, err := s.cache.GetOrLoad(key, func(any) (any, error) {
		data, err := s.store.Get(key.bytes())
		if err != nil {
			if !s.store.IsNotFound(err) {
				return nil, err
			}
			return rlp.RawValue(nil), nil
		}
		return rlp.RawValue(data), nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(rlp.RawValue), true, nil
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr thor.Address, key thor.Bytes32) (thor.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return thor.Bytes32{}, err
	}
	if len(raw) == 0 {
		return thor.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return thor.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// customized storage value, return hash of raw data
		return thor.Blake2b(raw), nil
	}
	return thor.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr thor.Address, key, value thor.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr thor.Address, key thor.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data, nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr thor.Address, key thor.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr thor.Address, key thor.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr thor.Address, key thor.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	// the bottom level holds uncommitted changes and is never popped
	if revision < 1 {
		revision = 1
	}
	s.sm.PopTo(revision)
}

// Stage makes a stage object that collects all pending changes.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey]rlp.RawValue)
	s.sm.Journal(func(k storageKey, v rlp.RawValue) bool {
		changes[k] = v
		return true
	})
	return &Stage{state: s, changes: changes}
}

// Commit writes all pending changes into the store in a single batch.
func (s *State) Commit() error {
	return s.Stage().Commit()
}

// reset drops the revision stack once changes have been persisted.
func (s *State) reset(changes map[storageKey]rlp.RawValue) {
	for k, v := range changes {
		s.cache.Add(k, v)
	}
	s.sm = stackedmap.New(s.cacheGetter)
	s.sm.Push()
}
