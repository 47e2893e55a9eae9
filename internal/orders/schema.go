package orders

import (
	"time"

	"github.com/odyssey-erp/pharmacy-inventory/internal/store"
)

const (
	FieldID                   = "id"
	FieldOrderNumber          = "orderNumber"
	FieldSupplierID           = "supplierId"
	FieldItems                = "items"
	FieldOrderDate            = "orderDate"
	FieldExpectedDeliveryDate = "expectedDeliveryDate"
	FieldActualDeliveryDate   = "actualDeliveryDate"
	FieldStatus               = "status"
	FieldTotalAmount          = "totalAmount"
	FieldTax                  = "tax"
	FieldDiscount             = "discount"
	FieldFinalAmount          = "finalAmount"
	FieldNotes                = "notes"
	FieldPaymentStatus        = "paymentStatus"
	FieldPaymentMethod        = "paymentMethod"
	FieldCreatedAt            = "createdAt"
	FieldUpdatedAt            = "updatedAt"
)

const collection = "order"

// Schema maps Order fields for store backends. Order numbers are unique.
var Schema = store.Schema[Order]{
	Name:   collection,
	ID:     func(o Order) string { return o.ID },
	SetID:  func(o *Order, id string) { o.ID = id },
	Field:  field,
	Set:    setField,
	Unique: []string{FieldOrderNumber},
}

func field(o Order, name string) (any, bool) {
	switch name {
	case FieldID:
		return o.ID, true
	case FieldOrderNumber:
		return o.OrderNumber, true
	case FieldSupplierID:
		return o.SupplierID, true
	case FieldItems:
		return o.Items, true
	case FieldOrderDate:
		return o.OrderDate, true
	case FieldExpectedDeliveryDate:
		return o.ExpectedDeliveryDate, true
	case FieldActualDeliveryDate:
		return o.ActualDeliveryDate, true
	case FieldStatus:
		return string(o.Status), true
	case FieldTotalAmount:
		return o.TotalAmount, true
	case FieldTax:
		return o.Tax, true
	case FieldDiscount:
		return o.Discount, true
	case FieldFinalAmount:
		return o.FinalAmount, true
	case FieldNotes:
		if o.Notes == nil {
			return "", true
		}
		return *o.Notes, true
	case FieldPaymentStatus:
		return string(o.PaymentStatus), true
	case FieldPaymentMethod:
		return string(o.PaymentMethod), true
	case FieldCreatedAt:
		return o.CreatedAt, true
	case FieldUpdatedAt:
		return o.UpdatedAt, true
	}
	return nil, false
}

func setField(o *Order, name string, value any) error {
	var ok bool
	switch name {
	case FieldExpectedDeliveryDate:
		o.ExpectedDeliveryDate, ok = value.(time.Time)
	case FieldActualDeliveryDate:
		o.ActualDeliveryDate, ok = value.(*time.Time)
	case FieldStatus:
		var v string
		v, ok = value.(string)
		o.Status = Status(v)
	case FieldNotes:
		o.Notes, ok = value.(*string)
	case FieldPaymentStatus:
		var v string
		v, ok = value.(string)
		o.PaymentStatus = PaymentStatus(v)
	case FieldPaymentMethod:
		var v string
		v, ok = value.(string)
		o.PaymentMethod = PaymentMethod(v)
	case FieldUpdatedAt:
		o.UpdatedAt, ok = value.(time.Time)
	default:
		// Items, amounts and the order number are fixed at creation.
		return store.UnknownField(collection, name)
	}
	if !ok {
		return store.WrongType(collection, name, value)
	}
	return nil
}
