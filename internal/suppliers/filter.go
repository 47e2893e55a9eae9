package suppliers

import (
	"strings"

	"github.com/odyssey-erp/pharmacy-inventory/internal/store"
)

// ListParams is a supplier list request.
type ListParams struct {
	Search          string
	IncludeInactive bool
	Limit           int
	Offset          int
}

// BuildQuery translates list parameters into a store query ordered by name.
func BuildQuery(params ListParams) store.Query {
	var conds []store.Expr
	if !params.IncludeInactive {
		conds = append(conds, store.Eq(FieldIsActive, true))
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		conds = append(conds, store.Or(
			store.Contains(FieldName, search),
			store.Contains(FieldContactPerson, search),
			store.Contains(FieldEmail, search),
		))
	}
	return store.Query{
		Filter: store.And(conds...),
		Sort:   []store.SortField{{Field: FieldName}, {Field: FieldID}},
		Limit:  params.Limit,
		Offset: params.Offset,
	}
}
