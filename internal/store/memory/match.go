package memory

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/odyssey-erp/pharmacy-inventory/internal/store"
)

func match[T any](schema store.Schema[T], doc T, expr store.Expr) (bool, error) {
	switch e := expr.(type) {
	case store.AndExpr:
		for _, sub := range e {
			ok, err := match(schema, doc, sub)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case store.OrExpr:
		for _, sub := range e {
			ok, err := match(schema, doc, sub)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case store.NotExpr:
		ok, err := match(schema, doc, e.Expr)
		return !ok, err
	case store.Cond:
		return matchCond(schema, doc, e)
	default:
		return false, fmt.Errorf("store: unsupported expression %T", expr)
	}
}

func matchCond[T any](schema store.Schema[T], doc T, c store.Cond) (bool, error) {
	left, ok := schema.Field(doc, c.Field)
	if !ok {
		return false, store.UnknownField(schema.Name, c.Field)
	}
	right := c.Value
	switch c.Op {
	case store.OpContains:
		haystack, ok := left.(string)
		if !ok {
			return false, fmt.Errorf("store: %s.%s is not a string", schema.Name, c.Field)
		}
		needle, _ := right.(string)
		fold := cases.Fold()
		return strings.Contains(fold.String(haystack), fold.String(needle)), nil
	case store.OpFieldLte, store.OpFieldGt:
		other, ok := schema.Field(doc, c.Other)
		if !ok {
			return false, store.UnknownField(schema.Name, c.Other)
		}
		right = other
	}

	cmp, ok := compare(left, right)
	if !ok {
		// Absent values (nil pointers) only satisfy equality with nil.
		switch c.Op {
		case store.OpEq:
			return isNil(left) && isNil(right), nil
		case store.OpNe:
			return !(isNil(left) && isNil(right)), nil
		}
		return false, nil
	}
	switch c.Op {
	case store.OpEq:
		return cmp == 0, nil
	case store.OpNe:
		return cmp != 0, nil
	case store.OpLt:
		return cmp < 0, nil
	case store.OpLte, store.OpFieldLte:
		return cmp <= 0, nil
	case store.OpGt, store.OpFieldGt:
		return cmp > 0, nil
	case store.OpGte:
		return cmp >= 0, nil
	}
	return false, fmt.Errorf("store: unsupported operator %s", c.Op)
}

// compare orders two field values. ok is false when they are not comparable.
func compare(a, b any) (int, bool) {
	if isNil(a) || isNil(b) {
		return 0, false
	}
	if at, ok := toTime(a); ok {
		bt, ok := toTime(b)
		if !ok {
			return 0, false
		}
		return at.Compare(bt), true
	}
	if an, ok := toFloat(a); ok {
		bn, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case an < bn:
			return -1, true
		case an > bn:
			return 1, true
		}
		return 0, true
	}
	if as, ok := toString(a); ok {
		bs, ok := toString(b)
		if !ok {
			return 0, false
		}
		return strings.Compare(as, bs), true
	}
	if ab, ok := a.(bool); ok {
		bb, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case ab == bb:
			return 0, true
		case !ab:
			return -1, true
		}
		return 1, true
	}
	return 0, false
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	}
	return time.Time{}, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// toString accepts strings and Stringers; schemas expose enums as plain strings.
func toString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case fmt.Stringer:
		return s.String(), true
	}
	return "", false
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	if t, ok := v.(*time.Time); ok {
		return t == nil
	}
	return false
}
