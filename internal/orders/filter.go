package orders

import (
	"time"

	"github.com/odyssey-erp/pharmacy-inventory/internal/store"
)

// Filter holds the optional order list predicates. Dates are inclusive bounds on orderDate.
type Filter struct {
	Status        *Status
	PaymentStatus *PaymentStatus
	SupplierID    *string
	StartDate     *time.Time
	EndDate       *time.Time
}

// ListParams is the full list request.
type ListParams struct {
	Filter Filter
	Limit  int
	Offset int
}

// BuildQuery translates list parameters into a store query, newest orders first.
func BuildQuery(params ListParams) store.Query {
	var conds []store.Expr
	f := params.Filter
	if f.Status != nil {
		conds = append(conds, store.Eq(FieldStatus, string(*f.Status)))
	}
	if f.PaymentStatus != nil {
		conds = append(conds, store.Eq(FieldPaymentStatus, string(*f.PaymentStatus)))
	}
	if f.SupplierID != nil {
		conds = append(conds, store.Eq(FieldSupplierID, *f.SupplierID))
	}
	if f.StartDate != nil {
		conds = append(conds, store.Gte(FieldOrderDate, f.StartDate.UTC()))
	}
	if f.EndDate != nil {
		conds = append(conds, store.Lte(FieldOrderDate, f.EndDate.UTC()))
	}
	return store.Query{
		Filter: store.And(conds...),
		Sort: []store.SortField{
			{Field: FieldOrderDate, Desc: true},
			{Field: FieldID},
		},
		Limit:  params.Limit,
		Offset: params.Offset,
	}
}

// PendingExpr matches orders awaiting confirmation.
func PendingExpr() store.Expr {
	return store.Eq(FieldStatus, string(StatusPending))
}

// OrderedBetweenExpr matches orders dated in [from, to).
func OrderedBetweenExpr(from, to time.Time) store.Expr {
	return store.And(
		store.Gte(FieldOrderDate, from.UTC()),
		store.Lt(FieldOrderDate, to.UTC()),
	)
}

// numberDayExpr matches every order numbered on day.
func numberDayExpr(day string) store.Expr {
	return store.Contains(FieldOrderNumber, dayPrefix(day))
}
