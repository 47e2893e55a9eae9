package medicines

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/pharmacy-inventory/internal/shared"
	"github.com/odyssey-erp/pharmacy-inventory/internal/store/memory"
)

type stubSuppliers map[string]bool

func (s stubSuppliers) Exists(_ context.Context, id string) (bool, error) {
	return s[id], nil
}

type countingNotifier struct {
	mu    sync.Mutex
	bumps int
}

func (n *countingNotifier) Invalidate(context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bumps++
}

var testNow = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *countingNotifier) {
	t.Helper()
	coll := memory.NewCollection(memory.New(), Schema, nil)
	notifier := &countingNotifier{}
	return NewService(coll, stubSuppliers{"sup-1": true, "sup-2": true}, notifier), notifier
}

func testCtx() context.Context {
	return shared.ContextWithAsOf(context.Background(), testNow)
}

func validInput() CreateInput {
	return CreateInput{
		Name:          "Paracetamol 500mg",
		Manufacturer:  "PharmaCorp",
		Category:      "Tablet",
		Price:         5.99,
		StockQuantity: 100,
		BatchNumber:   "PC2024001",
		ExpiryDate:    time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		SupplierID:    "sup-1",
	}
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc, notifier := newTestService(t)
	med, err := svc.Create(testCtx(), validInput())
	require.NoError(t, err)
	require.NotEmpty(t, med.ID)
	require.True(t, med.IsActive)
	require.Equal(t, DefaultMinStockLevel, med.MinStockLevel)
	require.Equal(t, DefaultMaxStockLevel, med.MaxStockLevel)
	require.Equal(t, testNow, med.CreatedAt)
	require.Equal(t, med.CreatedAt, med.UpdatedAt)
	require.Equal(t, 1, notifier.bumps)

	got, err := svc.Get(testCtx(), med.ID)
	require.NoError(t, err)
	require.Equal(t, med, got)
}

func TestCreateTrimsNames(t *testing.T) {
	svc, _ := newTestService(t)
	in := validInput()
	in.Name = "  Ibuprofen  "
	med, err := svc.Create(testCtx(), in)
	require.NoError(t, err)
	require.Equal(t, "Ibuprofen", med.Name)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []struct {
		name   string
		mutate func(*CreateInput)
		field  string
	}{
		{name: "negative price", mutate: func(in *CreateInput) { in.Price = -1 }, field: "price"},
		{name: "negative stock", mutate: func(in *CreateInput) { in.StockQuantity = -5 }, field: "stockQuantity"},
		{name: "blank name", mutate: func(in *CreateInput) { in.Name = "   " }, field: "name"},
		{name: "unknown category", mutate: func(in *CreateInput) { in.Category = "Powder" }, field: "category"},
		{name: "min not below max", mutate: func(in *CreateInput) {
			lo, hi := 50, 50
			in.MinStockLevel, in.MaxStockLevel = &lo, &hi
		}, field: "minStockLevel"},
		{name: "min above default max", mutate: func(in *CreateInput) {
			lo := 2000
			in.MinStockLevel = &lo
		}, field: "minStockLevel"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := svc.Create(testCtx(), in)
			require.ErrorIs(t, err, shared.ErrValidation)
			var verr *shared.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Contains(t, verr.Fields, tc.field)
		})
	}
}

func TestCreateRejectsUnknownSupplier(t *testing.T) {
	svc, _ := newTestService(t)
	in := validInput()
	in.SupplierID = "missing"
	_, err := svc.Create(testCtx(), in)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUpdateMergesAndValidates(t *testing.T) {
	svc, _ := newTestService(t)
	med, err := svc.Create(testCtx(), validInput())
	require.NoError(t, err)

	later := shared.ContextWithAsOf(context.Background(), testNow.Add(time.Hour))
	price := 7.25
	updated, err := svc.Update(later, med.ID, UpdateInput{Price: &price})
	require.NoError(t, err)
	require.Equal(t, 7.25, updated.Price)
	require.Equal(t, med.Name, updated.Name)
	require.Equal(t, med.CreatedAt, updated.CreatedAt)
	require.Equal(t, testNow.Add(time.Hour), updated.UpdatedAt)

	// Only min given: checked against the stored max.
	lo := 1000
	_, err = svc.Update(later, med.ID, UpdateInput{MinStockLevel: &lo})
	require.ErrorIs(t, err, shared.ErrValidation)

	missing := "nope"
	_, err = svc.Update(later, med.ID, UpdateInput{SupplierID: &missing})
	require.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.Update(later, "does-not-exist", UpdateInput{Price: &price})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteIsSoft(t *testing.T) {
	svc, _ := newTestService(t)
	med, err := svc.Create(testCtx(), validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(testCtx(), med.ID))

	got, err := svc.Get(testCtx(), med.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)

	list, err := svc.List(testCtx(), ListParams{})
	require.NoError(t, err)
	require.Empty(t, list)

	list, err = svc.List(testCtx(), ListParams{IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.ErrorIs(t, svc.Delete(testCtx(), "missing"), shared.ErrNotFound)
}

func TestUpdateStock(t *testing.T) {
	svc, _ := newTestService(t)
	med, err := svc.Create(testCtx(), validInput())
	require.NoError(t, err)

	med, err = svc.UpdateStock(testCtx(), med.ID, -40)
	require.NoError(t, err)
	require.Equal(t, 60, med.StockQuantity)

	_, err = svc.UpdateStock(testCtx(), med.ID, -61)
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "quantity")

	got, err := svc.Get(testCtx(), med.ID)
	require.NoError(t, err)
	require.Equal(t, 60, got.StockQuantity)
}

func TestUpdateStockRejectsAboveMaximum(t *testing.T) {
	svc, notifier := newTestService(t)
	med, err := svc.Create(testCtx(), validInput())
	require.NoError(t, err)

	_, err = svc.UpdateStock(testCtx(), med.ID, MaxStockQuantity)
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields["quantity"], "above")

	med, err = svc.UpdateStock(testCtx(), med.ID, MaxStockQuantity-100)
	require.NoError(t, err)
	require.Equal(t, MaxStockQuantity, med.StockQuantity)

	_, err = svc.UpdateStock(testCtx(), med.ID, 1)
	require.ErrorAs(t, err, &verr)
	require.Equal(t, 2, notifier.bumps)
}

func TestUpdateStockConcurrentDecrementsNeverGoNegative(t *testing.T) {
	svc, _ := newTestService(t)
	in := validInput()
	in.StockQuantity = 20
	med, err := svc.Create(testCtx(), in)
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.UpdateStock(testCtx(), med.ID, -1); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 20, success)
	got, err := svc.Get(testCtx(), med.ID)
	require.NoError(t, err)
	require.Zero(t, got.StockQuantity)
}

func TestListFiltersAndSearch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := testCtx()

	mk := func(name, manufacturer, supplier string, stock int, expiry time.Time, offset time.Duration) Medicine {
		in := validInput()
		in.Name, in.Manufacturer, in.SupplierID = name, manufacturer, supplier
		in.StockQuantity = stock
		in.ExpiryDate = expiry
		med, err := svc.Create(shared.ContextWithAsOf(context.Background(), testNow.Add(offset)), in)
		require.NoError(t, err)
		return med
	}
	healthy := mk("Paracetamol", "PharmaCorp", "sup-1", 100, testNow.AddDate(1, 0, 0), 0)
	low := mk("Amoxicillin", "BioGen", "sup-2", 5, testNow.AddDate(1, 0, 0), time.Minute)
	soon := mk("Cough Syrup", "PharmaCorp", "sup-1", 50, testNow.Add(10*24*time.Hour), 2*time.Minute)
	expired := mk("Old Cream", "Derma 50%", "sup-2", 50, testNow.Add(-24*time.Hour), 3*time.Minute)

	ids := func(meds []Medicine) []string {
		out := make([]string, len(meds))
		for i, m := range meds {
			out[i] = m.ID
		}
		return out
	}
	yes, no := true, false

	all, err := svc.List(ctx, ListParams{})
	require.NoError(t, err)
	require.Equal(t, []string{expired.ID, soon.ID, low.ID, healthy.ID}, ids(all))

	got, err := svc.List(ctx, ListParams{Filter: Filter{IsLowStock: &yes}})
	require.NoError(t, err)
	require.Equal(t, []string{low.ID}, ids(got))

	got, err = svc.List(ctx, ListParams{Filter: Filter{IsLowStock: &no}})
	require.NoError(t, err)
	require.Equal(t, []string{expired.ID, soon.ID, healthy.ID}, ids(got))

	got, err = svc.List(ctx, ListParams{Filter: Filter{IsExpired: &yes}})
	require.NoError(t, err)
	require.Equal(t, []string{expired.ID}, ids(got))

	got, err = svc.List(ctx, ListParams{Filter: Filter{IsExpiringSoon: &yes}})
	require.NoError(t, err)
	require.Equal(t, []string{soon.ID}, ids(got))

	got, err = svc.List(ctx, ListParams{Filter: Filter{IsExpiringSoon: &no, IsExpired: &no}})
	require.NoError(t, err)
	require.Equal(t, []string{low.ID, healthy.ID}, ids(got))

	manufacturer := "pharma"
	got, err = svc.List(ctx, ListParams{Filter: Filter{Manufacturer: &manufacturer}})
	require.NoError(t, err)
	require.Equal(t, []string{soon.ID, healthy.ID}, ids(got))

	got, err = svc.List(ctx, ListParams{Search: "AMOXI"})
	require.NoError(t, err)
	require.Equal(t, []string{low.ID}, ids(got))

	// Metacharacters are literal.
	got, err = svc.List(ctx, ListParams{Search: "50%"})
	require.NoError(t, err)
	require.Equal(t, []string{expired.ID}, ids(got))

	got, err = svc.List(ctx, ListParams{Search: ".*"})
	require.NoError(t, err)
	require.Empty(t, got)

	got, err = svc.BySupplier(ctx, "sup-2")
	require.NoError(t, err)
	require.Equal(t, []string{expired.ID, low.ID}, ids(got))

	got, err = svc.List(ctx, ListParams{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Equal(t, []string{soon.ID, low.ID}, ids(got))
}

func TestListIsStableAcrossTiedCreatedAt(t *testing.T) {
	svc, _ := newTestService(t)
	var want []string
	for _, name := range []string{"Paracetamol A", "Paracetamol B", "Paracetamol C", "Paracetamol D", "Paracetamol E"} {
		in := validInput()
		in.Name = name
		med, err := svc.Create(testCtx(), in)
		require.NoError(t, err)
		want = append(want, med.ID)
	}
	sort.Strings(want)

	category := CategoryTablet
	params := ListParams{Filter: Filter{Category: &category}, Search: "paracetamol"}
	first, err := svc.List(testCtx(), params)
	require.NoError(t, err)
	second, err := svc.List(testCtx(), params)
	require.NoError(t, err)
	require.Equal(t, first, second)

	got := make([]string, len(first))
	for i, m := range first {
		got[i] = m.ID
	}
	require.Equal(t, want, got)

	params.Limit, params.Offset = 2, 2
	page, err := svc.List(testCtx(), params)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, want[2:4], []string{page[0].ID, page[1].ID})
}
