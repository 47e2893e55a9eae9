package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/odyssey-erp/pharmacy-inventory/internal/app"
	"github.com/odyssey-erp/pharmacy-inventory/internal/medicines"
	"github.com/odyssey-erp/pharmacy-inventory/internal/orders"
	"github.com/odyssey-erp/pharmacy-inventory/internal/suppliers"
)

// fixture is the YAML seed document. Medicines and orders refer to suppliers and
// medicines by key.
type fixture struct {
	Suppliers []supplierFixture `yaml:"suppliers"`
	Medicines []medicineFixture `yaml:"medicines"`
	Orders    []orderFixture    `yaml:"orders"`
}

type supplierFixture struct {
	Key           string            `yaml:"key"`
	Name          string            `yaml:"name"`
	ContactPerson string            `yaml:"contactPerson"`
	Email         string            `yaml:"email"`
	Phone         string            `yaml:"phone"`
	Address       suppliers.Address `yaml:"address"`
	LicenseNumber string            `yaml:"licenseNumber"`
	TaxID         *string           `yaml:"taxId"`
	PaymentTerms  string            `yaml:"paymentTerms"`
	Rating        *float64          `yaml:"rating"`
	Notes         *string           `yaml:"notes"`
}

type medicineFixture struct {
	Key           string    `yaml:"key"`
	Supplier      string    `yaml:"supplier"`
	Name          string    `yaml:"name"`
	Description   *string   `yaml:"description"`
	Manufacturer  string    `yaml:"manufacturer"`
	Category      string    `yaml:"category"`
	Price         float64   `yaml:"price"`
	StockQuantity int       `yaml:"stockQuantity"`
	MinStockLevel *int      `yaml:"minStockLevel"`
	MaxStockLevel *int      `yaml:"maxStockLevel"`
	BatchNumber   string    `yaml:"batchNumber"`
	ExpiryDate    time.Time `yaml:"expiryDate"`
}

type orderItemFixture struct {
	Medicine  string  `yaml:"medicine"`
	Quantity  int     `yaml:"quantity"`
	UnitPrice float64 `yaml:"unitPrice"`
}

type orderFixture struct {
	Supplier             string             `yaml:"supplier"`
	Items                []orderItemFixture `yaml:"items"`
	OrderDate            *time.Time         `yaml:"orderDate"`
	ExpectedDeliveryDate time.Time          `yaml:"expectedDeliveryDate"`
	Tax                  *float64           `yaml:"tax"`
	Discount             *float64           `yaml:"discount"`
	Notes                *string            `yaml:"notes"`
	PaymentMethod        *string            `yaml:"paymentMethod"`
	Status               *string            `yaml:"status"`
	PaymentStatus        *string            `yaml:"paymentStatus"`
}

func decodeFixture(r io.Reader) (fixture, error) {
	var f fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return fixture{}, fmt.Errorf("seed: decode fixture: %w", err)
	}
	return f, nil
}

type summary struct {
	Suppliers int
	Medicines int
	Orders    int
}

// load creates every fixture entity through the services, in dependency order.
func load(ctx context.Context, svc *app.Services, f fixture, logger *slog.Logger) (summary, error) {
	var sum summary
	supplierIDs := make(map[string]string, len(f.Suppliers))
	for _, s := range f.Suppliers {
		created, err := svc.Suppliers.Create(ctx, suppliers.CreateInput{
			Name:          s.Name,
			ContactPerson: s.ContactPerson,
			Email:         s.Email,
			Phone:         s.Phone,
			Address:       s.Address,
			LicenseNumber: s.LicenseNumber,
			TaxID:         s.TaxID,
			PaymentTerms:  s.PaymentTerms,
			Rating:        s.Rating,
			Notes:         s.Notes,
		})
		if err != nil {
			return sum, fmt.Errorf("seed: supplier %s: %w", s.Key, err)
		}
		supplierIDs[s.Key] = created.ID
		sum.Suppliers++
	}

	medicineIDs := make(map[string]string, len(f.Medicines))
	for _, m := range f.Medicines {
		supplierID, ok := supplierIDs[m.Supplier]
		if !ok {
			return sum, fmt.Errorf("seed: medicine %s: unknown supplier key %q", m.Key, m.Supplier)
		}
		created, err := svc.Medicines.Create(ctx, medicines.CreateInput{
			Name:          m.Name,
			Description:   m.Description,
			Manufacturer:  m.Manufacturer,
			Category:      m.Category,
			Price:         m.Price,
			StockQuantity: m.StockQuantity,
			MinStockLevel: m.MinStockLevel,
			MaxStockLevel: m.MaxStockLevel,
			BatchNumber:   m.BatchNumber,
			ExpiryDate:    m.ExpiryDate,
			SupplierID:    supplierID,
		})
		if err != nil {
			return sum, fmt.Errorf("seed: medicine %s: %w", m.Key, err)
		}
		medicineIDs[m.Key] = created.ID
		sum.Medicines++
	}

	for i, o := range f.Orders {
		supplierID, ok := supplierIDs[o.Supplier]
		if !ok {
			return sum, fmt.Errorf("seed: order %d: unknown supplier key %q", i, o.Supplier)
		}
		items := make([]orders.ItemInput, 0, len(o.Items))
		for _, item := range o.Items {
			medicineID, ok := medicineIDs[item.Medicine]
			if !ok {
				return sum, fmt.Errorf("seed: order %d: unknown medicine key %q", i, item.Medicine)
			}
			items = append(items, orders.ItemInput{MedicineID: medicineID, Quantity: item.Quantity, UnitPrice: item.UnitPrice})
		}
		created, err := svc.Orders.Create(ctx, orders.CreateInput{
			SupplierID:           supplierID,
			Items:                items,
			OrderDate:            o.OrderDate,
			ExpectedDeliveryDate: o.ExpectedDeliveryDate,
			Tax:                  o.Tax,
			Discount:             o.Discount,
			Notes:                o.Notes,
			PaymentMethod:        o.PaymentMethod,
		})
		if err != nil {
			return sum, fmt.Errorf("seed: order %d: %w", i, err)
		}
		if o.Status != nil || o.PaymentStatus != nil {
			if _, err := svc.Orders.Update(ctx, created.ID, orders.UpdateInput{
				Status:        o.Status,
				PaymentStatus: o.PaymentStatus,
			}); err != nil {
				return sum, fmt.Errorf("seed: order %s: %w", created.OrderNumber, err)
			}
		}
		logger.Debug("seeded order", slog.String("number", created.OrderNumber))
		sum.Orders++
	}
	return sum, nil
}
