package suppliers

import (
	"fmt"
	"time"
)

// PaymentTerms is the settlement agreement with a supplier.
type PaymentTerms string

const (
	PaymentTermsCash  PaymentTerms = "Cash"
	PaymentTermsNet30 PaymentTerms = "Net_30"
	PaymentTermsNet60 PaymentTerms = "Net_60"
	PaymentTermsNet90 PaymentTerms = "Net_90"
)

// MaxRating is the top of the supplier rating scale.
const MaxRating = 5.0

// Address is a postal address.
type Address struct {
	Street  string `json:"street" yaml:"street" validate:"required,max=200"`
	City    string `json:"city" yaml:"city" validate:"required,max=100"`
	State   string `json:"state" yaml:"state" validate:"required,max=100"`
	ZipCode string `json:"zipCode" yaml:"zipCode" validate:"required,max=20"`
	Country string `json:"country" yaml:"country" validate:"required,max=100"`
}

// Supplier is a vendor medicines are ordered from.
type Supplier struct {
	ID            string
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       Address
	LicenseNumber string
	TaxID         *string
	PaymentTerms  PaymentTerms
	Rating        float64
	IsActive      bool
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FullAddress renders the address on one line.
func (s Supplier) FullAddress() string {
	a := s.Address
	return fmt.Sprintf("%s, %s, %s %s, %s", a.Street, a.City, a.State, a.ZipCode, a.Country)
}
