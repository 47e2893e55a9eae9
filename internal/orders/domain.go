package orders

import (
	"math"
	"time"
)

// Status is the fulfilment state of an order.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusShipped   Status = "Shipped"
	StatusDelivered Status = "Delivered"
	StatusCancelled Status = "Cancelled"
)

// Terminal reports whether no further status change is allowed.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// PaymentStatus tracks settlement of an order.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPartial PaymentStatus = "Partial"
	PaymentPaid    PaymentStatus = "Paid"
)

// PaymentMethod is how the supplier is paid.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "Cash"
	PaymentCreditCard   PaymentMethod = "Credit_Card"
	PaymentBankTransfer PaymentMethod = "Bank_Transfer"
	PaymentCheck        PaymentMethod = "Check"
)

// DefaultPaymentMethod applies when an order is created without one.
const DefaultPaymentMethod = PaymentBankTransfer

// Item is one order line. TotalPrice is fixed at creation.
type Item struct {
	MedicineID string  `json:"medicineId"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`
}

// Order is a purchase order placed with a supplier.
type Order struct {
	ID                   string
	OrderNumber          string
	SupplierID           string
	Items                []Item
	OrderDate            time.Time
	ExpectedDeliveryDate time.Time
	ActualDeliveryDate   *time.Time
	Status               Status
	TotalAmount          float64
	Tax                  float64
	Discount             float64
	FinalAmount          float64
	Notes                *string
	PaymentStatus        PaymentStatus
	PaymentMethod        PaymentMethod
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// OrderAge is the number of whole days since the order date.
func (o Order) OrderAge(asOf time.Time) int {
	return int(math.Floor(asOf.Sub(o.OrderDate).Hours() / 24))
}

// IsOverdue reports an undelivered order past its expected delivery date.
// Cancelled orders are included; only delivery clears the flag.
func (o Order) IsOverdue(asOf time.Time) bool {
	return o.Status != StatusDelivered && asOf.After(o.ExpectedDeliveryDate)
}

// Clone deep-copies the order's slices and pointers.
func Clone(o Order) Order {
	if o.Items != nil {
		o.Items = append([]Item(nil), o.Items...)
	}
	if o.ActualDeliveryDate != nil {
		t := *o.ActualDeliveryDate
		o.ActualDeliveryDate = &t
	}
	if o.Notes != nil {
		n := *o.Notes
		o.Notes = &n
	}
	return o
}
