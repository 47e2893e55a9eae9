package postgres

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/odyssey-erp/pharmacy-inventory/internal/medicines"
	"github.com/odyssey-erp/pharmacy-inventory/internal/orders"
	"github.com/odyssey-erp/pharmacy-inventory/internal/platform/db"
	"github.com/odyssey-erp/pharmacy-inventory/internal/shared"
	"github.com/odyssey-erp/pharmacy-inventory/internal/store"
	"github.com/odyssey-erp/pharmacy-inventory/internal/suppliers"
)

// StoreIntegrationSuite runs the store contract against a live database named by
// PHARMACY_TEST_PG_DSN.
type StoreIntegrationSuite struct {
	suite.Suite
	pool      *pgxpool.Pool
	store     *Store
	medicines *Collection[medicines.Medicine]
	suppliers *Collection[suppliers.Supplier]
	orders    *Collection[orders.Order]
	ctx       context.Context
}

func TestStoreIntegration(t *testing.T) {
	dsn := os.Getenv("PHARMACY_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("PHARMACY_TEST_PG_DSN not set")
	}
	pool, err := db.New(context.Background(), dsn, db.PoolOptions{MaxConns: 8})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	suite.Run(t, &StoreIntegrationSuite{pool: pool})
}

func (s *StoreIntegrationSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = New(s.pool)
	s.Require().NoError(s.store.Migrate(s.ctx))
	_, err := s.pool.Exec(s.ctx, `TRUNCATE orders, medicines, suppliers, sequences`)
	s.Require().NoError(err)
	s.medicines = NewCollection(s.store, Medicines)
	s.suppliers = NewCollection(s.store, Suppliers)
	s.orders = NewCollection(s.store, Orders)
}

func (s *StoreIntegrationSuite) supplier(email, license string) suppliers.Supplier {
	now := shared.Timestamp(time.Now())
	created, err := s.suppliers.Insert(s.ctx, suppliers.Supplier{
		Name:          "PT Sehat",
		ContactPerson: "Rina",
		Email:         email,
		Phone:         "+62-21-555",
		Address:       suppliers.Address{Street: "Jl. Merdeka 1", City: "Jakarta", State: "DKI", ZipCode: "10110", Country: "ID"},
		LicenseNumber: license,
		PaymentTerms:  suppliers.PaymentTermsNet30,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	s.Require().NoError(err)
	return created
}

func (s *StoreIntegrationSuite) TestSupplierRoundTripAndUniqueEmail() {
	created := s.supplier("ops@sehat.id", "LIC-1")

	found, err := s.suppliers.FindByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Jakarta", found.Address.City)
	s.Equal(created.CreatedAt, found.CreatedAt)

	_, err = s.suppliers.Insert(s.ctx, suppliers.Supplier{
		Email: "ops@sehat.id", LicenseNumber: "LIC-2", PaymentTerms: suppliers.PaymentTermsNet30,
		CreatedAt: created.CreatedAt, UpdatedAt: created.UpdatedAt,
	})
	s.ErrorIs(err, shared.ErrConflict)

	_, err = s.suppliers.FindByID(s.ctx, "missing")
	s.ErrorIs(err, shared.ErrNotFound)
}

func (s *StoreIntegrationSuite) TestGuardedStockUpdate() {
	sup := s.supplier("a@b.co", "LIC-1")
	now := shared.Timestamp(time.Now())
	med, err := s.medicines.Insert(s.ctx, medicines.Medicine{
		Name: "Paracetamol", Manufacturer: "Kimia", Category: medicines.CategoryTablet, Price: 1.5,
		StockQuantity: 3, MinStockLevel: 10, MaxStockLevel: 100, BatchNumber: "B1",
		ExpiryDate: now.AddDate(1, 0, 0), SupplierID: sup.ID, IsActive: true,
		CreatedAt: now, UpdatedAt: now,
	})
	s.Require().NoError(err)

	updated, err := s.medicines.Update(s.ctx, med.ID, store.Patch{
		Inc:   map[string]int64{medicines.FieldStockQuantity: -3},
		Guard: store.Gte(medicines.FieldStockQuantity, 3),
	})
	s.Require().NoError(err)
	s.Equal(0, updated.StockQuantity)

	_, err = s.medicines.Update(s.ctx, med.ID, store.Patch{
		Inc:   map[string]int64{medicines.FieldStockQuantity: -1},
		Guard: store.Gte(medicines.FieldStockQuantity, 1),
	})
	s.ErrorIs(err, store.ErrGuardRejected)

	low, err := s.medicines.Count(s.ctx, store.FieldLte(medicines.FieldStockQuantity, medicines.FieldMinStockLevel))
	s.Require().NoError(err)
	s.EqualValues(1, low)
}

func (s *StoreIntegrationSuite) TestSequencesSerializeConcurrentCallers() {
	key := store.SequenceKey{Name: "order", Day: "20240115"}
	var (
		mu   sync.Mutex
		seen = map[int]bool{}
		wg   sync.WaitGroup
		errs = make(chan error, 10)
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.store.Next(s.ctx, key, nil, func(_ context.Context, seq int) error {
				mu.Lock()
				seen[seq] = true
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}
	s.Len(seen, 10)
	for seq := 1; seq <= 10; seq++ {
		s.True(seen[seq])
	}
}

func (s *StoreIntegrationSuite) TestSnapshotSumsOrders() {
	sup := s.supplier("a@b.co", "LIC-1")
	now := shared.Timestamp(time.Now())
	for i, amount := range []float64{84.9, 91.39} {
		_, err := s.orders.Insert(s.ctx, orders.Order{
			OrderNumber:          orders.FormatNumber(orders.DayKey(now, time.UTC), i+1),
			SupplierID:           sup.ID,
			Items:                []orders.Item{{MedicineID: "m", Quantity: 1, UnitPrice: amount, TotalPrice: amount}},
			OrderDate:            now,
			ExpectedDeliveryDate: now,
			Status:               orders.StatusPending,
			TotalAmount:          amount,
			FinalAmount:          amount,
			PaymentStatus:        orders.PaymentPending,
			PaymentMethod:        orders.PaymentCash,
			CreatedAt:            now,
			UpdatedAt:            now,
		})
		s.Require().NoError(err)
	}
	err := s.store.ReadSnapshot(s.ctx, func(ctx context.Context) error {
		total, err := s.orders.Sum(ctx, orders.FieldFinalAmount, store.All())
		if err != nil {
			return err
		}
		s.InDelta(176.29, total, 1e-9)
		return nil
	})
	s.Require().NoError(err)
}

func (s *StoreIntegrationSuite) TestTiedCreatedAtListsInStableOrder() {
	sup := s.supplier("a@b.co", "LIC-1")
	now := shared.Timestamp(time.Now())
	for _, name := range []string{"Amoxicillin 250", "Amoxicillin 500", "Amoxicillin Syrup", "Amoxicillin Forte", "Amoxicillin Kid"} {
		_, err := s.medicines.Insert(s.ctx, medicines.Medicine{
			Name: name, Manufacturer: "Kimia", Category: medicines.CategoryCapsule, Price: 2,
			StockQuantity: 40, MinStockLevel: 10, MaxStockLevel: 100, BatchNumber: "B1",
			ExpiryDate: now.AddDate(1, 0, 0), SupplierID: sup.ID, IsActive: true,
			CreatedAt: now, UpdatedAt: now,
		})
		s.Require().NoError(err)
	}

	category := medicines.CategoryCapsule
	params := medicines.ListParams{Filter: medicines.Filter{Category: &category}, Search: "amoxi"}
	first, err := s.medicines.Find(s.ctx, medicines.BuildQuery(params, now))
	s.Require().NoError(err)
	s.Require().Len(first, 5)
	second, err := s.medicines.Find(s.ctx, medicines.BuildQuery(params, now))
	s.Require().NoError(err)
	s.Equal(first, second)

	var paged []medicines.Medicine
	for offset := 0; offset < 5; offset += 2 {
		params.Limit, params.Offset = 2, offset
		page, err := s.medicines.Find(s.ctx, medicines.BuildQuery(params, now))
		s.Require().NoError(err)
		paged = append(paged, page...)
	}
	s.Equal(first, paged)
}
