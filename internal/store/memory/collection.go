package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/odyssey-erp/pharmacy-inventory/internal/shared"
	"github.com/odyssey-erp/pharmacy-inventory/internal/store"
)

// Collection keeps documents of one type keyed by id.
type Collection[T any] struct {
	store  *Store
	schema store.Schema[T]
	clone  func(T) T
	docs   map[string]T
	ids    []string
}

var _ store.Collection[struct{}] = (*Collection[struct{}])(nil)

// NewCollection registers a collection on s. clone deep-copies documents that hold
// reference types; nil means plain value copies are enough.
func NewCollection[T any](s *Store, schema store.Schema[T], clone func(T) T) *Collection[T] {
	if clone == nil {
		clone = func(doc T) T { return doc }
	}
	return &Collection[T]{store: s, schema: schema, clone: clone, docs: make(map[string]T)}
}

func (c *Collection[T]) Insert(ctx context.Context, doc T) (T, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	if err := c.checkUnique(doc, ""); err != nil {
		var zero T
		return zero, err
	}
	id := uuid.NewString()
	c.schema.SetID(&doc, id)
	c.docs[id] = c.clone(doc)
	c.ids = append(c.ids, id)
	return c.clone(doc), nil
}

func (c *Collection[T]) FindByID(ctx context.Context, id string) (T, error) {
	defer c.store.readLock(ctx)()
	doc, ok := c.docs[id]
	if !ok {
		var zero T
		return zero, shared.NotFound(c.schema.Name, id)
	}
	return c.clone(doc), nil
}

func (c *Collection[T]) Find(ctx context.Context, q store.Query) ([]T, error) {
	defer c.store.readLock(ctx)()

	matched, err := c.filter(q.Filter)
	if err != nil {
		return nil, err
	}
	var sortErr error
	sort.SliceStable(matched, func(i, j int) bool {
		less, err := c.less(matched[i], matched[j], q.Sort)
		if err != nil && sortErr == nil {
			sortErr = err
		}
		return less
	})
	if sortErr != nil {
		return nil, sortErr
	}
	if q.Offset >= len(matched) {
		return []T{}, nil
	}
	matched = matched[q.Offset:]
	if q.Limit > 0 && q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}
	out := make([]T, len(matched))
	for i, doc := range matched {
		out[i] = c.clone(doc)
	}
	return out, nil
}

func (c *Collection[T]) Update(ctx context.Context, id string, p store.Patch) (T, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	var zero T
	doc, ok := c.docs[id]
	if !ok {
		return zero, shared.NotFound(c.schema.Name, id)
	}
	if p.Guard != nil {
		ok, err := match(c.schema, doc, p.Guard)
		if err != nil {
			return zero, err
		}
		if !ok {
			return zero, store.ErrGuardRejected
		}
	}
	updated := c.clone(doc)
	for field, value := range p.Set {
		if err := c.schema.Set(&updated, field, value); err != nil {
			return zero, err
		}
	}
	for field, delta := range p.Inc {
		current, ok := c.schema.Field(updated, field)
		if !ok {
			return zero, store.UnknownField(c.schema.Name, field)
		}
		n, ok := current.(int)
		if !ok {
			return zero, fmt.Errorf("store: %s.%s is not an integer", c.schema.Name, field)
		}
		if err := c.schema.Set(&updated, field, n+int(delta)); err != nil {
			return zero, err
		}
	}
	if err := c.checkUnique(updated, id); err != nil {
		return zero, err
	}
	c.docs[id] = updated
	return c.clone(updated), nil
}

func (c *Collection[T]) Count(ctx context.Context, filter store.Expr) (int64, error) {
	defer c.store.readLock(ctx)()
	matched, err := c.filter(filter)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

func (c *Collection[T]) Sum(ctx context.Context, field string, filter store.Expr) (float64, error) {
	defer c.store.readLock(ctx)()
	matched, err := c.filter(filter)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, doc := range matched {
		v, ok := c.schema.Field(doc, field)
		if !ok {
			return 0, store.UnknownField(c.schema.Name, field)
		}
		n, ok := toFloat(v)
		if !ok {
			return 0, fmt.Errorf("store: %s.%s is not numeric", c.schema.Name, field)
		}
		total += n
	}
	return total, nil
}

// filter returns matching documents in insertion order. Callers hold the lock.
func (c *Collection[T]) filter(expr store.Expr) ([]T, error) {
	out := make([]T, 0, len(c.ids))
	for _, id := range c.ids {
		doc := c.docs[id]
		if expr != nil {
			ok, err := match(c.schema, doc, expr)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		out = append(out, doc)
	}
	return out, nil
}

func (c *Collection[T]) less(a, b T, fields []store.SortField) (bool, error) {
	for _, sf := range fields {
		av, ok := c.schema.Field(a, sf.Field)
		if !ok {
			return false, store.UnknownField(c.schema.Name, sf.Field)
		}
		bv, _ := c.schema.Field(b, sf.Field)
		cmp, ok := compare(av, bv)
		if !ok {
			return false, fmt.Errorf("store: cannot order %s by %s", c.schema.Name, sf.Field)
		}
		if cmp == 0 {
			continue
		}
		if sf.Desc {
			return cmp > 0, nil
		}
		return cmp < 0, nil
	}
	return false, nil
}

func (c *Collection[T]) checkUnique(doc T, selfID string) error {
	for _, field := range c.schema.Unique {
		value, _ := c.schema.Field(doc, field)
		for id, other := range c.docs {
			if id == selfID {
				continue
			}
			existing, _ := c.schema.Field(other, field)
			if cmp, ok := compare(value, existing); ok && cmp == 0 {
				return shared.Conflict("%s with %s %v already exists", c.schema.Name, field, value)
			}
		}
	}
	return nil
}
