package medicines

import (
	"strings"
	"time"

	"github.com/odyssey-erp/pharmacy-inventory/internal/store"
)

// Filter holds the optional medicine list predicates.
type Filter struct {
	Category       *Category
	Manufacturer   *string
	SupplierID     *string
	IsLowStock     *bool
	IsExpired      *bool
	IsExpiringSoon *bool
}

// ListParams is the full list request.
type ListParams struct {
	Filter          Filter
	Search          string
	IncludeInactive bool
	Limit           int
	Offset          int
}

// LowStockExpr matches stock at or below the minimum level.
func LowStockExpr() store.Expr {
	return store.FieldLte(FieldStockQuantity, FieldMinStockLevel)
}

// ExpiredExpr matches medicines past their expiry at asOf.
func ExpiredExpr(asOf time.Time) store.Expr {
	return store.Lt(FieldExpiryDate, asOf)
}

// ExpiringSoonExpr matches expiries in (asOf, asOf+window].
func ExpiringSoonExpr(asOf time.Time) store.Expr {
	return store.And(
		store.Gt(FieldExpiryDate, asOf),
		store.Lte(FieldExpiryDate, asOf.Add(ExpiringSoonWindow)),
	)
}

// ActiveExpr restricts to medicines that were not soft deleted.
func ActiveExpr() store.Expr {
	return store.Eq(FieldIsActive, true)
}

// BuildQuery translates list parameters into a store query. Derived flags become
// range predicates on stored fields evaluated at asOf.
func BuildQuery(params ListParams, asOf time.Time) store.Query {
	var conds []store.Expr
	if !params.IncludeInactive {
		conds = append(conds, ActiveExpr())
	}
	f := params.Filter
	if f.Category != nil {
		conds = append(conds, store.Eq(FieldCategory, string(*f.Category)))
	}
	if f.Manufacturer != nil && strings.TrimSpace(*f.Manufacturer) != "" {
		conds = append(conds, store.Contains(FieldManufacturer, strings.TrimSpace(*f.Manufacturer)))
	}
	if f.SupplierID != nil {
		conds = append(conds, store.Eq(FieldSupplierID, *f.SupplierID))
	}
	if f.IsLowStock != nil {
		if *f.IsLowStock {
			conds = append(conds, LowStockExpr())
		} else {
			conds = append(conds, store.FieldGt(FieldStockQuantity, FieldMinStockLevel))
		}
	}
	if f.IsExpired != nil {
		if *f.IsExpired {
			conds = append(conds, ExpiredExpr(asOf))
		} else {
			conds = append(conds, store.Gte(FieldExpiryDate, asOf))
		}
	}
	if f.IsExpiringSoon != nil {
		if *f.IsExpiringSoon {
			conds = append(conds, ExpiringSoonExpr(asOf))
		} else {
			conds = append(conds, store.Not(ExpiringSoonExpr(asOf)))
		}
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		conds = append(conds, store.Or(
			store.Contains(FieldName, search),
			store.Contains(FieldManufacturer, search),
			store.Contains(FieldBatchNumber, search),
		))
	}
	return store.Query{
		Filter: store.And(conds...),
		Sort: []store.SortField{
			{Field: FieldCreatedAt, Desc: true},
			{Field: FieldID},
		},
		Limit:  params.Limit,
		Offset: params.Offset,
	}
}
