package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/odyssey-erp/pharmacy-inventory/internal/shared"
	"github.com/odyssey-erp/pharmacy-inventory/internal/store"
)

// Mapping ties a document type to its table.
type Mapping[T any] struct {
	Table string
	// Kind names the entity in not-found errors.
	Kind string
	// Columns maps logical field names to column expressions.
	Columns map[string]string
	// Select lists the columns Scan reads, in order.
	Select []string
	Scan   func(row pgx.Row) (T, error)
	// Values returns column values for an insert, id included.
	Values func(doc T) (map[string]any, error)
	// Encode converts a patch value for its column; nil passes values through.
	Encode func(field string, value any) (any, error)
	SetID  func(doc *T, id string)
}

// Collection stores one document type in one table.
type Collection[T any] struct {
	store *Store
	m     Mapping[T]
}

var _ store.Collection[struct{}] = (*Collection[struct{}])(nil)

// NewCollection binds a mapping to s.
func NewCollection[T any](s *Store, m Mapping[T]) *Collection[T] {
	return &Collection[T]{store: s, m: m}
}

func (c *Collection[T]) selectList() string {
	return strings.Join(c.m.Select, ", ")
}

func (c *Collection[T]) Insert(ctx context.Context, doc T) (T, error) {
	var zero T
	c.m.SetID(&doc, uuid.NewString())
	values, err := c.m.Values(doc)
	if err != nil {
		return zero, err
	}
	cols := make([]string, 0, len(values))
	for col := range values {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		args[i] = values[col]
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		c.m.Table, strings.Join(cols, ", "), strings.Join(placeholders, ", "), c.selectList())
	created, err := c.m.Scan(c.store.conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		return zero, fmt.Errorf("store/postgres: insert %s: %w", c.m.Table, classify(err))
	}
	return created, nil
}

func (c *Collection[T]) FindByID(ctx context.Context, id string) (T, error) {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", c.selectList(), c.m.Table)
	doc, err := c.m.Scan(c.store.conn(ctx).QueryRow(ctx, sql, id))
	if errors.Is(err, pgx.ErrNoRows) {
		var zero T
		return zero, shared.NotFound(c.m.Kind, id)
	}
	if err != nil {
		var zero T
		return zero, classify(err)
	}
	return doc, nil
}

func (c *Collection[T]) Find(ctx context.Context, q store.Query) ([]T, error) {
	t := newTranslator(c.m.Table, c.m.Columns)
	where, err := t.where(q.Filter)
	if err != nil {
		return nil, err
	}
	order, err := t.orderBy(q.Sort)
	if err != nil {
		return nil, err
	}
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s%s", c.selectList(), c.m.Table, where, order)
	if q.Limit > 0 {
		sql += " LIMIT " + t.bind(q.Limit)
	}
	if q.Offset > 0 {
		sql += " OFFSET " + t.bind(q.Offset)
	}

	rows, err := c.store.conn(ctx).Query(ctx, sql, t.args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		doc, err := c.m.Scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// Update applies the patch in one statement; the guard is part of its WHERE clause.
func (c *Collection[T]) Update(ctx context.Context, id string, p store.Patch) (T, error) {
	var zero T
	t := newTranslator(c.m.Table, c.m.Columns)
	idArg := t.bind(id)

	sets := make([]string, 0, len(p.Set)+len(p.Inc))
	for _, field := range sortedKeys(p.Set) {
		col, err := t.column(field)
		if err != nil {
			return zero, err
		}
		value := p.Set[field]
		if c.m.Encode != nil {
			if value, err = c.m.Encode(field, value); err != nil {
				return zero, err
			}
		}
		sets = append(sets, col+" = "+t.bind(value))
	}
	for _, field := range sortedKeys(p.Inc) {
		col, err := t.column(field)
		if err != nil {
			return zero, err
		}
		sets = append(sets, col+" = "+col+" + "+t.bind(p.Inc[field]))
	}
	if len(sets) == 0 {
		return c.FindByID(ctx, id)
	}
	guard, err := t.where(p.Guard)
	if err != nil {
		return zero, err
	}

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = %s AND (%s) RETURNING %s",
		c.m.Table, strings.Join(sets, ", "), idArg, guard, c.selectList())
	updated, err := c.m.Scan(c.store.conn(ctx).QueryRow(ctx, sql, t.args...))
	if errors.Is(err, pgx.ErrNoRows) {
		// Tell a missing row apart from a failed guard.
		if _, err := c.FindByID(ctx, id); err != nil {
			return zero, err
		}
		return zero, store.ErrGuardRejected
	}
	if err != nil {
		return zero, fmt.Errorf("store/postgres: update %s: %w", c.m.Table, classify(err))
	}
	return updated, nil
}

func (c *Collection[T]) Count(ctx context.Context, filter store.Expr) (int64, error) {
	t := newTranslator(c.m.Table, c.m.Columns)
	where, err := t.where(filter)
	if err != nil {
		return 0, err
	}
	var n int64
	sql := fmt.Sprintf("SELECT count(*) FROM %s WHERE %s", c.m.Table, where)
	if err := c.store.conn(ctx).QueryRow(ctx, sql, t.args...).Scan(&n); err != nil {
		return 0, classify(err)
	}
	return n, nil
}

func (c *Collection[T]) Sum(ctx context.Context, field string, filter store.Expr) (float64, error) {
	t := newTranslator(c.m.Table, c.m.Columns)
	col, err := t.column(field)
	if err != nil {
		return 0, err
	}
	where, err := t.where(filter)
	if err != nil {
		return 0, err
	}
	var total float64
	sql := fmt.Sprintf("SELECT COALESCE(SUM(%s), 0)::float8 FROM %s WHERE %s", col, c.m.Table, where)
	if err := c.store.conn(ctx).QueryRow(ctx, sql, t.args...).Scan(&total); err != nil {
		return 0, classify(err)
	}
	return total, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
