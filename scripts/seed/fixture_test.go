package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/pharmacy-inventory/internal/app"
	"github.com/odyssey-erp/pharmacy-inventory/internal/medicines"
	"github.com/odyssey-erp/pharmacy-inventory/internal/orders"
	"github.com/odyssey-erp/pharmacy-inventory/internal/shared"
)

func memoryServices(t *testing.T) *app.Services {
	t.Helper()
	svc, err := app.BuildServices(context.Background(), &app.Config{StoreDriver: app.DriverMemory, AppTimezone: "UTC"},
		slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return svc
}

func TestBundledFixtureLoads(t *testing.T) {
	file, err := os.Open("fixtures.yaml")
	require.NoError(t, err)
	defer file.Close()

	f, err := decodeFixture(file)
	require.NoError(t, err)

	svc := memoryServices(t)
	ctx := shared.ContextWithAsOf(context.Background(), time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC))
	sum, err := load(ctx, svc, f, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	require.Equal(t, summary{Suppliers: 2, Medicines: 4, Orders: 2}, sum)

	list, err := svc.Orders.List(ctx, orders.ListParams{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	numbers := []string{list[0].OrderNumber, list[1].OrderNumber}
	require.ElementsMatch(t, []string{"ORD-20250106-0001", "ORD-20250106-0002"}, numbers)

	low := true
	meds, err := svc.Medicines.List(ctx, medicines.ListParams{Filter: medicines.Filter{IsLowStock: &low}})
	require.NoError(t, err)
	require.Len(t, meds, 1)
	require.Equal(t, "Amoxicillin 500mg", meds[0].Name)
}

func TestUnknownKeysAreReported(t *testing.T) {
	f, err := decodeFixture(strings.NewReader(`
medicines:
  - key: m1
    supplier: ghost
    name: X
    manufacturer: Y
    category: Tablet
    batchNumber: B
    expiryDate: 2026-01-01
`))
	require.NoError(t, err)

	_, err = load(context.Background(), memoryServices(t), f, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.ErrorContains(t, err, `unknown supplier key "ghost"`)
}

func TestUnknownFieldsAreRejected(t *testing.T) {
	_, err := decodeFixture(strings.NewReader("suppliers:\n  - key: a\n    colour: red\n"))
	require.Error(t, err)
}
