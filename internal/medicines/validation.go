package medicines

import (
	"strings"
	"time"

	"github.com/odyssey-erp/pharmacy-inventory/internal/shared"
)

// MaxStockQuantity bounds every stock figure a medicine may carry.
const MaxStockQuantity = 10000000

// CreateInput is the payload for a new medicine.
type CreateInput struct {
	Name          string    `json:"name" validate:"required,max=200"`
	Description   *string   `json:"description" validate:"omitempty,max=2000"`
	Manufacturer  string    `json:"manufacturer" validate:"required,max=200"`
	Category      string    `json:"category" validate:"required,oneof=Tablet Capsule Syrup Injection Cream Ointment Other"`
	Price         float64   `json:"price" validate:"gte=0,lte=1000000"`
	StockQuantity int       `json:"stockQuantity" validate:"gte=0,lte=10000000"`
	MinStockLevel *int      `json:"minStockLevel" validate:"omitempty,gte=0,lte=10000000"`
	MaxStockLevel *int      `json:"maxStockLevel" validate:"omitempty,gte=0,lte=10000000"`
	BatchNumber   string    `json:"batchNumber" validate:"required,max=100"`
	ExpiryDate    time.Time `json:"expiryDate" validate:"required"`
	SupplierID    string    `json:"supplierId" validate:"required"`
}

// UpdateInput carries only the fields to change.
type UpdateInput struct {
	Name          *string    `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string    `json:"description" validate:"omitempty,max=2000"`
	Manufacturer  *string    `json:"manufacturer" validate:"omitempty,min=1,max=200"`
	Category      *string    `json:"category" validate:"omitempty,oneof=Tablet Capsule Syrup Injection Cream Ointment Other"`
	Price         *float64   `json:"price" validate:"omitempty,gte=0,lte=1000000"`
	StockQuantity *int       `json:"stockQuantity" validate:"omitempty,gte=0,lte=10000000"`
	MinStockLevel *int       `json:"minStockLevel" validate:"omitempty,gte=0,lte=10000000"`
	MaxStockLevel *int       `json:"maxStockLevel" validate:"omitempty,gte=0,lte=10000000"`
	BatchNumber   *string    `json:"batchNumber" validate:"omitempty,min=1,max=100"`
	ExpiryDate    *time.Time `json:"expiryDate"`
	SupplierID    *string    `json:"supplierId" validate:"omitempty,min=1"`
	IsActive      *bool      `json:"isActive"`
}

func (in *CreateInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Manufacturer = strings.TrimSpace(in.Manufacturer)
	in.BatchNumber = strings.TrimSpace(in.BatchNumber)
	in.SupplierID = strings.TrimSpace(in.SupplierID)
	in.Description = trimOptional(in.Description)
}

func (in *UpdateInput) normalize() {
	in.Name = trimOptional(in.Name)
	in.Manufacturer = trimOptional(in.Manufacturer)
	in.BatchNumber = trimOptional(in.BatchNumber)
	in.SupplierID = trimOptional(in.SupplierID)
	in.Description = trimOptional(in.Description)
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}

// checkStockLevels enforces minStockLevel < maxStockLevel on the merged values.
func checkStockLevels(verr *shared.ValidationError, minLevel, maxLevel int) {
	if minLevel >= maxLevel {
		verr.Add("minStockLevel", "must be less than maxStockLevel")
	}
}
