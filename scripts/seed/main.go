// Command seed loads suppliers, medicines and orders from a YAML fixture through the
// domain services, so every row passes the same validation as API writes.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/odyssey-erp/pharmacy-inventory/internal/app"
	"github.com/odyssey-erp/pharmacy-inventory/internal/suppliers"
)

func main() {
	path := flag.String("file", "scripts/seed/fixtures.yaml", "fixture file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	file, err := os.Open(*path)
	if err != nil {
		logger.Error("open fixture", slog.Any("error", err))
		os.Exit(1)
	}
	defer file.Close()
	f, err := decodeFixture(file)
	if err != nil {
		logger.Error("parse fixture", slog.String("file", *path), slog.Any("error", err))
		os.Exit(1)
	}

	svc, err := app.BuildServices(ctx, cfg, logger, nil)
	if err != nil {
		logger.Error("build services", slog.Any("error", err))
		os.Exit(1)
	}
	defer svc.Close()

	existing, err := svc.Suppliers.List(ctx, suppliers.ListParams{IncludeInactive: true, Limit: 1})
	if err != nil {
		logger.Error("check existing data", slog.Any("error", err))
		os.Exit(1)
	}
	if len(existing) > 0 {
		logger.Info("store already has suppliers, skipping seed")
		return
	}

	sum, err := load(ctx, svc, f, logger)
	if err != nil {
		logger.Error("seed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("seed complete",
		slog.Int("suppliers", sum.Suppliers),
		slog.Int("medicines", sum.Medicines),
		slog.Int("orders", sum.Orders))
}
