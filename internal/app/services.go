package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/odyssey-erp/pharmacy-inventory/internal/dashboard"
	"github.com/odyssey-erp/pharmacy-inventory/internal/medicines"
	"github.com/odyssey-erp/pharmacy-inventory/internal/observability"
	"github.com/odyssey-erp/pharmacy-inventory/internal/orders"
	"github.com/odyssey-erp/pharmacy-inventory/internal/platform/cache"
	"github.com/odyssey-erp/pharmacy-inventory/internal/platform/db"
	"github.com/odyssey-erp/pharmacy-inventory/internal/store"
	"github.com/odyssey-erp/pharmacy-inventory/internal/store/memory"
	"github.com/odyssey-erp/pharmacy-inventory/internal/store/postgres"
	"github.com/odyssey-erp/pharmacy-inventory/internal/suppliers"
)

// Services holds the domain services built over one store handle.
type Services struct {
	Medicines *medicines.Service
	Suppliers *suppliers.Service
	Orders    *orders.Service
	Dashboard *dashboard.Service
	// Ready reports whether the store is reachable.
	Ready func(ctx context.Context) error

	closers []func()
}

// Close releases the store and cache connections in reverse order of creation.
func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

type backend struct {
	medicines store.Collection[medicines.Medicine]
	suppliers store.Collection[suppliers.Supplier]
	orders    store.Collection[orders.Order]
	sequences store.Sequences
	snapshots store.Snapshotter
	ready     func(ctx context.Context) error
}

// BuildServices opens the configured store, runs migrations and wires every service.
// metrics may be nil.
func BuildServices(ctx context.Context, cfg *Config, logger *slog.Logger, metrics *observability.Metrics) (*Services, error) {
	svc := &Services{}

	var b backend
	switch cfg.StoreDriver {
	case DriverMemory:
		st := memory.New()
		b = backend{
			medicines: memory.NewCollection(st, medicines.Schema, nil),
			suppliers: memory.NewCollection(st, suppliers.Schema, nil),
			orders:    memory.NewCollection(st, orders.Schema, orders.Clone),
			sequences: st,
			snapshots: st,
		}
	case DriverPostgres:
		pool, err := db.New(ctx, cfg.PGDSN, db.PoolOptions{MaxConns: cfg.PGMaxConns})
		if err != nil {
			return nil, fmt.Errorf("app: connect postgres: %w", err)
		}
		svc.closers = append(svc.closers, pool.Close)
		st := postgres.New(pool)
		if err := st.Migrate(ctx); err != nil {
			svc.Close()
			return nil, err
		}
		b = backend{
			medicines: postgres.NewCollection(st, postgres.Medicines),
			suppliers: postgres.NewCollection(st, postgres.Suppliers),
			orders:    postgres.NewCollection(st, postgres.Orders),
			sequences: st,
			snapshots: st,
			ready:     st.Ping,
		}
	default:
		return nil, fmt.Errorf("app: unknown store driver %q", cfg.StoreDriver)
	}

	var client *redis.Client
	if cfg.RedisAddr != "" {
		c, err := cache.New(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			logger.Warn("dashboard cache disabled", slog.Any("error", err))
		} else {
			client = c
			svc.closers = append(svc.closers, func() {
				if err := c.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			})
		}
	}
	dashCache := dashboard.NewCache(client, cfg.DashboardCacheTTL, logger)

	svc.Suppliers = suppliers.NewService(b.suppliers, dashCache)
	svc.Medicines = medicines.NewService(b.medicines, svc.Suppliers, dashCache)
	svc.Orders = orders.NewService(b.orders, b.sequences, svc.Suppliers, svc.Medicines, dashCache, orders.ServiceConfig{
		Location: cfg.Location(),
		OnCreated: func(o orders.Order) {
			metrics.ObserveOrderCreated(o.FinalAmount)
		},
	})
	svc.Dashboard = dashboard.NewService(b.snapshots, dashboard.Sources{
		Medicines: b.medicines,
		Suppliers: b.suppliers,
		Orders:    b.orders,
	}, dashCache, cfg.Location())
	svc.Ready = b.ready
	return svc, nil
}
