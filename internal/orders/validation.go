package orders

import (
	"strings"
	"time"
)

// ItemInput is one requested order line.
type ItemInput struct {
	MedicineID string  `json:"medicineId" yaml:"medicineId" validate:"required"`
	Quantity   int     `json:"quantity" yaml:"quantity" validate:"gte=1,lte=1000000"`
	UnitPrice  float64 `json:"unitPrice" yaml:"unitPrice" validate:"gte=0,lte=1000000"`
}

// CreateInput is the payload for a new order. OrderNumber and OrderDate are normally
// left empty and assigned at creation; fixtures may set them explicitly.
type CreateInput struct {
	OrderNumber          *string     `json:"orderNumber"`
	SupplierID           string      `json:"supplierId" validate:"required"`
	Items                []ItemInput `json:"items" validate:"required,min=1,dive"`
	OrderDate            *time.Time  `json:"orderDate"`
	ExpectedDeliveryDate time.Time   `json:"expectedDeliveryDate" validate:"required"`
	Tax                  *float64    `json:"tax" validate:"omitempty,gte=0,lte=100000000"`
	Discount             *float64    `json:"discount" validate:"omitempty,gte=0,lte=100000000"`
	Notes                *string     `json:"notes" validate:"omitempty,max=2000"`
	PaymentMethod        *string     `json:"paymentMethod" validate:"omitempty,oneof=Cash Credit_Card Bank_Transfer Check"`
}

// UpdateInput changes delivery dates, status, notes and payment details. Items and
// amounts cannot change after creation.
type UpdateInput struct {
	ExpectedDeliveryDate *time.Time `json:"expectedDeliveryDate"`
	ActualDeliveryDate   *time.Time `json:"actualDeliveryDate"`
	Status               *string    `json:"status" validate:"omitempty,oneof=Pending Confirmed Shipped Delivered Cancelled"`
	Notes                *string    `json:"notes" validate:"omitempty,max=2000"`
	PaymentStatus        *string    `json:"paymentStatus" validate:"omitempty,oneof=Pending Partial Paid"`
	PaymentMethod        *string    `json:"paymentMethod" validate:"omitempty,oneof=Cash Credit_Card Bank_Transfer Check"`
}

func (in *CreateInput) normalize() {
	in.SupplierID = strings.TrimSpace(in.SupplierID)
	for i := range in.Items {
		in.Items[i].MedicineID = strings.TrimSpace(in.Items[i].MedicineID)
	}
	if in.OrderNumber != nil {
		number := strings.TrimSpace(*in.OrderNumber)
		if number == "" {
			in.OrderNumber = nil
		} else {
			in.OrderNumber = &number
		}
	}
	in.Notes = trimOptional(in.Notes)
}

func (in *UpdateInput) normalize() {
	in.Notes = trimOptional(in.Notes)
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}

func valueOr(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
