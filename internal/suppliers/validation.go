package suppliers

import "strings"

// CreateInput is the payload for a new supplier.
type CreateInput struct {
	Name          string   `json:"name" validate:"required,max=200"`
	ContactPerson string   `json:"contactPerson" validate:"required,max=200"`
	Email         string   `json:"email" validate:"required,email,max=254"`
	Phone         string   `json:"phone" validate:"required,max=50"`
	Address       Address  `json:"address"`
	LicenseNumber string   `json:"licenseNumber" validate:"required,max=100"`
	TaxID         *string  `json:"taxId" validate:"omitempty,max=100"`
	PaymentTerms  string   `json:"paymentTerms" validate:"required,oneof=Cash Net_30 Net_60 Net_90"`
	Rating        *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Notes         *string  `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateInput carries only the fields to change. An address replaces the whole address.
type UpdateInput struct {
	Name          *string  `json:"name" validate:"omitempty,min=1,max=200"`
	ContactPerson *string  `json:"contactPerson" validate:"omitempty,min=1,max=200"`
	Email         *string  `json:"email" validate:"omitempty,email,max=254"`
	Phone         *string  `json:"phone" validate:"omitempty,min=1,max=50"`
	Address       *Address `json:"address" validate:"omitempty"`
	LicenseNumber *string  `json:"licenseNumber" validate:"omitempty,min=1,max=100"`
	TaxID         *string  `json:"taxId" validate:"omitempty,max=100"`
	PaymentTerms  *string  `json:"paymentTerms" validate:"omitempty,oneof=Cash Net_30 Net_60 Net_90"`
	Rating        *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	IsActive      *bool    `json:"isActive"`
	Notes         *string  `json:"notes" validate:"omitempty,max=2000"`
}

func (in *CreateInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.ContactPerson = strings.TrimSpace(in.ContactPerson)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.LicenseNumber = strings.TrimSpace(in.LicenseNumber)
	in.Address = in.Address.trimmed()
	in.TaxID = trimOptional(in.TaxID)
	in.Notes = trimOptional(in.Notes)
}

func (in *UpdateInput) normalize() {
	in.Name = trimOptional(in.Name)
	in.ContactPerson = trimOptional(in.ContactPerson)
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		in.Email = &email
	}
	in.Phone = trimOptional(in.Phone)
	in.LicenseNumber = trimOptional(in.LicenseNumber)
	if in.Address != nil {
		addr := in.Address.trimmed()
		in.Address = &addr
	}
	in.TaxID = trimOptional(in.TaxID)
	in.Notes = trimOptional(in.Notes)
}

func (a Address) trimmed() Address {
	return Address{
		Street:  strings.TrimSpace(a.Street),
		City:    strings.TrimSpace(a.City),
		State:   strings.TrimSpace(a.State),
		ZipCode: strings.TrimSpace(a.ZipCode),
		Country: strings.TrimSpace(a.Country),
	}
}

// normalizeEmail lowercases so uniqueness is case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}
