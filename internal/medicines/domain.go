package medicines

import (
	"math"
	"time"
)

// Category classifies a medicine's dosage form.
type Category string

const (
	CategoryTablet    Category = "Tablet"
	CategoryCapsule   Category = "Capsule"
	CategorySyrup     Category = "Syrup"
	CategoryInjection Category = "Injection"
	CategoryCream     Category = "Cream"
	CategoryOintment  Category = "Ointment"
	CategoryOther     Category = "Other"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryTablet, CategoryCapsule, CategorySyrup, CategoryInjection, CategoryCream, CategoryOintment, CategoryOther:
		return true
	}
	return false
}

const (
	// ExpiringSoonWindow is how far ahead an expiry counts as "soon".
	ExpiringSoonWindow = 30 * 24 * time.Hour

	DefaultMinStockLevel = 10
	DefaultMaxStockLevel = 1000
)

// Medicine is a stocked product batch.
type Medicine struct {
	ID            string
	Name          string
	Description   *string
	Manufacturer  string
	Category      Category
	Price         float64
	StockQuantity int
	MinStockLevel int
	MaxStockLevel int
	BatchNumber   string
	ExpiryDate    time.Time
	SupplierID    string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLowStock reports stock at or below the minimum level.
func (m Medicine) IsLowStock() bool {
	return m.StockQuantity <= m.MinStockLevel
}

// IsExpired reports whether asOf is past the expiry date.
func (m Medicine) IsExpired(asOf time.Time) bool {
	return asOf.After(m.ExpiryDate)
}

// IsExpiringSoon reports an expiry within ExpiringSoonWindow that has not passed.
// It is never true together with IsExpired for the same asOf.
func (m Medicine) IsExpiringSoon(asOf time.Time) bool {
	return m.ExpiryDate.After(asOf) && !m.ExpiryDate.After(asOf.Add(ExpiringSoonWindow))
}

// DaysUntilExpiry is the ceiling of the remaining time in days; negative once expired.
func (m Medicine) DaysUntilExpiry(asOf time.Time) int {
	days := m.ExpiryDate.Sub(asOf).Hours() / 24
	return int(math.Ceil(days))
}

// Derived bundles the read-time attributes for one evaluation instant.
type Derived struct {
	IsLowStock      bool
	IsExpired       bool
	IsExpiringSoon  bool
	DaysUntilExpiry int
}

// DerivedAt evaluates every derived attribute against the same asOf.
func (m Medicine) DerivedAt(asOf time.Time) Derived {
	return Derived{
		IsLowStock:      m.IsLowStock(),
		IsExpired:       m.IsExpired(asOf),
		IsExpiringSoon:  m.IsExpiringSoon(asOf),
		DaysUntilExpiry: m.DaysUntilExpiry(asOf),
	}
}
