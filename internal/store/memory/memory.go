// Package memory provides an in-process implementation of the store contract used
// by tests and by STORE_DRIVER=memory.
package memory

import (
	"context"
	"sync"

	"github.com/odyssey-erp/pharmacy-inventory/internal/shared"
	"github.com/odyssey-erp/pharmacy-inventory/internal/store"
)

var (
	_ store.Sequences   = (*Store)(nil)
	_ store.Snapshotter = (*Store)(nil)
)

type snapshotContextKey struct{}

// Store owns the lock shared by every collection plus the sequence counters.
type Store struct {
	mu sync.RWMutex

	seqMu    sync.Mutex
	dayLocks map[string]*sync.Mutex
	counters map[store.SequenceKey]int
}

// New constructs an empty store.
func New() *Store {
	return &Store{
		dayLocks: make(map[string]*sync.Mutex),
		counters: make(map[store.SequenceKey]int),
	}
}

// ReadSnapshot holds the store-wide read lock while fn runs. fn must not write.
func (s *Store) ReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(context.WithValue(ctx, snapshotContextKey{}, s))
}

func (s *Store) readLock(ctx context.Context) func() {
	if owner, _ := ctx.Value(snapshotContextKey{}).(*Store); owner == s {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

// Next serializes callers per key with a dedicated mutex held across fn, so the
// counter read, the caller's insert and the counter write cannot interleave.
func (s *Store) Next(ctx context.Context, key store.SequenceKey, seed store.SeedFunc, fn func(ctx context.Context, seq int) error) error {
	unlock := s.lockSequence(key)
	defer unlock()

	current, err := s.counter(ctx, key, seed)
	if err != nil {
		return err
	}
	next := current + 1
	if err := fn(ctx, next); err != nil {
		return err
	}
	s.setCounter(key, next)
	return nil
}

// Claim runs fn for an explicit value under the same per-key lock as Next.
func (s *Store) Claim(ctx context.Context, key store.SequenceKey, seq int, seed store.SeedFunc, fn func(ctx context.Context) error) error {
	unlock := s.lockSequence(key)
	defer unlock()

	current, err := s.counter(ctx, key, seed)
	if err != nil {
		return err
	}
	if err := fn(ctx); err != nil {
		return err
	}
	if seq > current {
		current = seq
	}
	s.setCounter(key, current)
	return nil
}

func (s *Store) lockSequence(key store.SequenceKey) func() {
	name := shared.SequenceLockKey(key.Name, key.Day)
	s.seqMu.Lock()
	lock, ok := s.dayLocks[name]
	if !ok {
		lock = &sync.Mutex{}
		s.dayLocks[name] = lock
	}
	s.seqMu.Unlock()
	lock.Lock()
	return lock.Unlock
}

func (s *Store) counter(ctx context.Context, key store.SequenceKey, seed store.SeedFunc) (int, error) {
	s.seqMu.Lock()
	current, ok := s.counters[key]
	s.seqMu.Unlock()
	if ok || seed == nil {
		return current, nil
	}
	return seed(ctx)
}

func (s *Store) setCounter(key store.SequenceKey, value int) {
	s.seqMu.Lock()
	s.counters[key] = value
	s.seqMu.Unlock()
}
