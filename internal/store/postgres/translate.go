package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/odyssey-erp/pharmacy-inventory/internal/store"
)

// translator renders store expressions as SQL with positional arguments. One
// translator is used per statement so placeholders stay numbered consecutively.
type translator struct {
	table   string
	columns map[string]string
	args    []any
}

func newTranslator(table string, columns map[string]string) *translator {
	return &translator{table: table, columns: columns}
}

func (t *translator) bind(v any) string {
	t.args = append(t.args, v)
	return "$" + strconv.Itoa(len(t.args))
}

func (t *translator) column(field string) (string, error) {
	col, ok := t.columns[field]
	if !ok {
		return "", store.UnknownField(t.table, field)
	}
	return col, nil
}

func (t *translator) where(e store.Expr) (string, error) {
	if e == nil {
		return "TRUE", nil
	}
	switch e := e.(type) {
	case store.AndExpr:
		return t.join(e, " AND ", "TRUE")
	case store.OrExpr:
		return t.join(e, " OR ", "FALSE")
	case store.NotExpr:
		inner, err := t.where(e.Expr)
		if err != nil {
			return "", err
		}
		return "NOT (" + inner + ")", nil
	case store.Cond:
		return t.cond(e)
	}
	return "", fmt.Errorf("store/postgres: unsupported expression %T", e)
}

func (t *translator) join(exprs []store.Expr, sep, empty string) (string, error) {
	if len(exprs) == 0 {
		return empty, nil
	}
	parts := make([]string, 0, len(exprs))
	for _, sub := range exprs {
		sql, err := t.where(sub)
		if err != nil {
			return "", err
		}
		parts = append(parts, "("+sql+")")
	}
	return strings.Join(parts, sep), nil
}

func (t *translator) cond(c store.Cond) (string, error) {
	col, err := t.column(c.Field)
	if err != nil {
		return "", err
	}
	switch c.Op {
	case store.OpFieldLte, store.OpFieldGt:
		other, err := t.column(c.Other)
		if err != nil {
			return "", err
		}
		op := "<="
		if c.Op == store.OpFieldGt {
			op = ">"
		}
		return col + " " + op + " " + other, nil
	case store.OpContains:
		needle, ok := c.Value.(string)
		if !ok {
			return "", fmt.Errorf("store/postgres: contains on %s needs a string", c.Field)
		}
		return col + ` ILIKE ` + t.bind("%"+escapeLike(needle)+"%") + ` ESCAPE '\'`, nil
	case store.OpEq:
		if c.Value == nil {
			return col + " IS NULL", nil
		}
	case store.OpNe:
		if c.Value == nil {
			return col + " IS NOT NULL", nil
		}
	}
	switch c.Op {
	case store.OpEq, store.OpNe, store.OpLt, store.OpLte, store.OpGt, store.OpGte:
		return col + " " + c.Op.String() + " " + t.bind(c.Value), nil
	}
	return "", fmt.Errorf("store/postgres: unsupported operator %s", c.Op)
}

func (t *translator) orderBy(fields []store.SortField) (string, error) {
	if len(fields) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		col, err := t.column(f.Field)
		if err != nil {
			return "", err
		}
		if f.Desc {
			col += " DESC"
		}
		parts = append(parts, col)
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

// escapeLike makes user input match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
