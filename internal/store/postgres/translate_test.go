package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/pharmacy-inventory/internal/medicines"
	"github.com/odyssey-erp/pharmacy-inventory/internal/store"
)

func TestTranslateMedicineQuery(t *testing.T) {
	asOf := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	yes := true
	q := medicines.BuildQuery(medicines.ListParams{
		Filter: medicines.Filter{IsLowStock: &yes, IsExpiringSoon: &yes},
		Search: "50%_off",
	}, asOf)

	tr := newTranslator(Medicines.Table, Medicines.Columns)
	where, err := tr.where(q.Filter)
	require.NoError(t, err)
	require.Equal(t,
		`(is_active = $1) AND (stock_quantity <= min_stock_level) AND ((expiry_date > $2) AND (expiry_date <= $3)) AND `+
			`((name ILIKE $4 ESCAPE '\') OR (manufacturer ILIKE $5 ESCAPE '\') OR (batch_number ILIKE $6 ESCAPE '\'))`,
		where)
	require.Equal(t, []any{true, asOf, asOf.Add(medicines.ExpiringSoonWindow), `%50\%\_off%`, `%50\%\_off%`, `%50\%\_off%`}, tr.args)

	order, err := tr.orderBy(q.Sort)
	require.NoError(t, err)
	require.Equal(t, " ORDER BY created_at DESC, id", order)
}

func TestTranslateEdgeCases(t *testing.T) {
	tr := newTranslator("t", map[string]string{"a": "col_a", "b": "col_b"})

	sql, err := tr.where(nil)
	require.NoError(t, err)
	require.Equal(t, "TRUE", sql)

	sql, err = tr.where(store.All())
	require.NoError(t, err)
	require.Equal(t, "TRUE", sql)

	sql, err = tr.where(store.Or())
	require.NoError(t, err)
	require.Equal(t, "FALSE", sql)

	sql, err = tr.where(store.And(store.Eq("a", nil), store.Not(store.FieldGt("a", "b")), store.Ne("b", 3)))
	require.NoError(t, err)
	require.Equal(t, "(col_a IS NULL) AND (NOT (col_a > col_b)) AND (col_b <> $1)", sql)
	require.Equal(t, []any{3}, tr.args)

	_, err = tr.where(store.Eq("missing", 1))
	require.Error(t, err)
}

func TestEscapeLike(t *testing.T) {
	require.Equal(t, `a\\b\%c\_d`, escapeLike(`a\b%c_d`))
	require.Equal(t, "plain", escapeLike("plain"))
}
