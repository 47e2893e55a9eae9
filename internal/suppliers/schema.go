package suppliers

import (
	"time"

	"github.com/odyssey-erp/pharmacy-inventory/internal/store"
)

const (
	FieldID            = "id"
	FieldName          = "name"
	FieldContactPerson = "contactPerson"
	FieldEmail         = "email"
	FieldPhone         = "phone"
	FieldAddress       = "address"
	FieldLicenseNumber = "licenseNumber"
	FieldTaxID         = "taxId"
	FieldPaymentTerms  = "paymentTerms"
	FieldRating        = "rating"
	FieldIsActive      = "isActive"
	FieldNotes         = "notes"
	FieldCreatedAt     = "createdAt"
	FieldUpdatedAt     = "updatedAt"
)

const collection = "supplier"

// Schema maps Supplier fields for store backends. Email and license number are unique.
var Schema = store.Schema[Supplier]{
	Name:   collection,
	ID:     func(s Supplier) string { return s.ID },
	SetID:  func(s *Supplier, id string) { s.ID = id },
	Field:  field,
	Set:    setField,
	Unique: []string{FieldEmail, FieldLicenseNumber},
}

func field(s Supplier, name string) (any, bool) {
	switch name {
	case FieldID:
		return s.ID, true
	case FieldName:
		return s.Name, true
	case FieldContactPerson:
		return s.ContactPerson, true
	case FieldEmail:
		return s.Email, true
	case FieldPhone:
		return s.Phone, true
	case FieldAddress:
		return s.Address, true
	case FieldLicenseNumber:
		return s.LicenseNumber, true
	case FieldTaxID:
		return optional(s.TaxID), true
	case FieldPaymentTerms:
		return string(s.PaymentTerms), true
	case FieldRating:
		return s.Rating, true
	case FieldIsActive:
		return s.IsActive, true
	case FieldNotes:
		return optional(s.Notes), true
	case FieldCreatedAt:
		return s.CreatedAt, true
	case FieldUpdatedAt:
		return s.UpdatedAt, true
	}
	return nil, false
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func setField(s *Supplier, name string, value any) error {
	var ok bool
	switch name {
	case FieldName:
		s.Name, ok = value.(string)
	case FieldContactPerson:
		s.ContactPerson, ok = value.(string)
	case FieldEmail:
		s.Email, ok = value.(string)
	case FieldPhone:
		s.Phone, ok = value.(string)
	case FieldAddress:
		s.Address, ok = value.(Address)
	case FieldLicenseNumber:
		s.LicenseNumber, ok = value.(string)
	case FieldTaxID:
		s.TaxID, ok = value.(*string)
	case FieldPaymentTerms:
		var v string
		v, ok = value.(string)
		s.PaymentTerms = PaymentTerms(v)
	case FieldRating:
		s.Rating, ok = value.(float64)
	case FieldIsActive:
		s.IsActive, ok = value.(bool)
	case FieldNotes:
		s.Notes, ok = value.(*string)
	case FieldUpdatedAt:
		s.UpdatedAt, ok = value.(time.Time)
	default:
		return store.UnknownField(collection, name)
	}
	if !ok {
		return store.WrongType(collection, name, value)
	}
	return nil
}
