// Package dashboard computes the cross-entity summary counters.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/odyssey-erp/pharmacy-inventory/internal/medicines"
	"github.com/odyssey-erp/pharmacy-inventory/internal/orders"
	"github.com/odyssey-erp/pharmacy-inventory/internal/shared"
	"github.com/odyssey-erp/pharmacy-inventory/internal/store"
	"github.com/odyssey-erp/pharmacy-inventory/internal/suppliers"
)

// Stats is the dashboard summary. Every figure is evaluated against one instant.
type Stats struct {
	TotalMedicines        int64   `json:"totalMedicines"`
	LowStockMedicines     int64   `json:"lowStockMedicines"`
	ExpiredMedicines      int64   `json:"expiredMedicines"`
	ExpiringSoonMedicines int64   `json:"expiringSoonMedicines"`
	TotalSuppliers        int64   `json:"totalSuppliers"`
	ActiveSuppliers       int64   `json:"activeSuppliers"`
	TotalOrders           int64   `json:"totalOrders"`
	PendingOrders         int64   `json:"pendingOrders"`
	TotalRevenue          float64 `json:"totalRevenue"`
	MonthlyRevenue        float64 `json:"monthlyRevenue"`
}

// Aggregator is the slice of a collection the dashboard reads.
type Aggregator interface {
	Count(ctx context.Context, filter store.Expr) (int64, error)
	Sum(ctx context.Context, field string, filter store.Expr) (float64, error)
}

// Sources are the collections the dashboard aggregates over.
type Sources struct {
	Medicines Aggregator
	Suppliers Aggregator
	Orders    Aggregator
}

// Service computes Stats inside one read snapshot, optionally through the cache.
type Service struct {
	snapshots store.Snapshotter
	src       Sources
	cache     *Cache
	loc       *time.Location
	group     singleflight.Group
}

// NewService constructs the dashboard service. cache may be nil; loc defaults to UTC.
func NewService(snapshots store.Snapshotter, src Sources, cache *Cache, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{snapshots: snapshots, src: src, cache: cache, loc: loc}
}

// Stats returns the summary as of the context's instant. Concurrent callers for the
// same cache key share one computation.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	asOf := shared.AsOfFromContext(ctx)
	key, err := s.cache.BuildKey(ctx, "dashboard", "stats", asOf.UTC().Truncate(time.Minute).Format("200601021504"))
	if err != nil {
		// A cache outage must not take the dashboard down.
		s.cache.logger.Warn("dashboard cache unavailable", slog.Any("error", err))
		return s.compute(ctx, asOf)
	}
	v, err, _ := s.group.Do(key, func() (any, error) {
		var stats Stats
		err := s.cache.FetchJSON(ctx, key, &stats, func(ctx context.Context) (any, error) {
			return s.compute(ctx, asOf)
		})
		return stats, err
	})
	if err != nil {
		return Stats{}, err
	}
	return v.(Stats), nil
}

// Compute bypasses the cache.
func (s *Service) Compute(ctx context.Context) (Stats, error) {
	return s.compute(ctx, shared.AsOfFromContext(ctx))
}

func (s *Service) compute(ctx context.Context, asOf time.Time) (Stats, error) {
	local := asOf.In(s.loc)
	monthStart := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, s.loc)
	nextMonth := monthStart.AddDate(0, 1, 0)

	active := medicines.ActiveExpr()
	var stats Stats
	err := s.snapshots.ReadSnapshot(ctx, func(ctx context.Context) error {
		counts := []struct {
			dst    *int64
			source Aggregator
			filter store.Expr
		}{
			{&stats.TotalMedicines, s.src.Medicines, active},
			{&stats.LowStockMedicines, s.src.Medicines, store.And(active, medicines.LowStockExpr())},
			{&stats.ExpiredMedicines, s.src.Medicines, store.And(active, medicines.ExpiredExpr(asOf))},
			{&stats.ExpiringSoonMedicines, s.src.Medicines, store.And(active, medicines.ExpiringSoonExpr(asOf))},
			{&stats.TotalSuppliers, s.src.Suppliers, store.All()},
			{&stats.ActiveSuppliers, s.src.Suppliers, store.Eq(suppliers.FieldIsActive, true)},
			{&stats.TotalOrders, s.src.Orders, store.All()},
			{&stats.PendingOrders, s.src.Orders, orders.PendingExpr()},
		}
		for _, c := range counts {
			n, err := c.source.Count(ctx, c.filter)
			if err != nil {
				return err
			}
			*c.dst = n
		}

		total, err := s.src.Orders.Sum(ctx, orders.FieldFinalAmount, store.All())
		if err != nil {
			return err
		}
		monthly, err := s.src.Orders.Sum(ctx, orders.FieldFinalAmount, orders.OrderedBetweenExpr(monthStart, nextMonth))
		if err != nil {
			return err
		}
		stats.TotalRevenue = roundCents(total)
		stats.MonthlyRevenue = roundCents(monthly)
		return nil
	})
	if err != nil {
		return Stats{}, fmt.Errorf("dashboard: %w", err)
	}
	return stats, nil
}

func roundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
