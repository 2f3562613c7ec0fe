package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
	"luxe-atelier/internal/config"
	"luxe-atelier/internal/pricing"
	snapshotrepo "luxe-atelier/internal/repository/snapshot"
	"luxe-atelier/internal/seed"
	cartsvc "luxe-atelier/internal/service/cart"
)

func main() {
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Printf("load .env: %v", err)
	}
	cfg := config.FromEnv()
	if cfg.SnapshotBackend == config.BackendMemory {
		logger.Printf("warning: memory backend selected, seeded cart will not outlive this process")
	}

	ctx := context.Background()
	repo, closeRepo, err := snapshotrepo.Open(ctx, cfg)
	if err != nil {
		logger.Fatalf("open snapshot backend: %v", err)
	}
	defer closeRepo()

	sum, err := seed.Apply(ctx, cartsvc.New(repo, logger, cfg.CartKeyPrefix, cfg.CartMaxResident))
	if err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Printf("seeded cart %q: %d items, total %s", sum.Key, sum.Totals.Items, pricing.FormatUSD(sum.Totals.Total))
}
