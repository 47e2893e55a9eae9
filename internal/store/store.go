// Package store defines the document-store contract the domain packages consume.
// Backends live in the memory and postgres subpackages.
package store

import (
	"context"
	"errors"
)

// ErrGuardRejected is returned by Update when the document exists but its guard
// predicate did not match.
var ErrGuardRejected = errors.New("store: update guard rejected")

// SortField orders results by one logical field.
type SortField struct {
	Field string
	Desc  bool
}

// Query selects documents. Limit 0 means unlimited.
type Query struct {
	Filter Expr
	Sort   []SortField
	Limit  int
	Offset int
}

// Patch is a partial update. Guard, when set, must match the current document for
// the update to apply; the check and the write are atomic.
type Patch struct {
	Set   map[string]any
	Inc   map[string]int64
	Guard Expr
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return len(p.Set) == 0 && len(p.Inc) == 0
}

// Collection is the persistence contract for one document type.
type Collection[T any] interface {
	// Insert stores doc and returns it with its store-assigned id.
	Insert(ctx context.Context, doc T) (T, error)
	// FindByID returns shared.ErrNotFound when the id is unknown or malformed.
	FindByID(ctx context.Context, id string) (T, error)
	Find(ctx context.Context, q Query) ([]T, error)
	// Update applies p and returns the updated document.
	Update(ctx context.Context, id string, p Patch) (T, error)
	Count(ctx context.Context, filter Expr) (int64, error)
	Sum(ctx context.Context, field string, filter Expr) (float64, error)
}

// SequenceKey identifies one counter for one day.
type SequenceKey struct {
	Name string
	Day  string
}

// SeedFunc reports the highest value already used for a key before its counter
// existed, or 0.
type SeedFunc func(ctx context.Context) (int, error)

// Sequences hands out gapless per-day counters. Callers sharing a key are
// serialized, and the counter only moves when fn returns nil.
type Sequences interface {
	// Next allocates the next value and runs fn with it.
	Next(ctx context.Context, key SequenceKey, seed SeedFunc, fn func(ctx context.Context, seq int) error) error
	// Claim runs fn for an explicitly chosen value and lifts the counter to at least seq.
	Claim(ctx context.Context, key SequenceKey, seq int, seed SeedFunc, fn func(ctx context.Context) error) error
}

// Snapshotter runs fn against a consistent read view of the whole store.
type Snapshotter interface {
	ReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) error
}
