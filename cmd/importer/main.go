package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"luxe-atelier/internal/config"
	"luxe-atelier/internal/importer"
	snapshotrepo "luxe-atelier/internal/repository/snapshot"
)

func main() {
	var (
		filePath string
		prefix   string
	)
	flag.StringVar(&filePath, "file", "", "Path to CSV export of browser cart snapshots (cart_key,snapshot)")
	flag.StringVar(&prefix, "prefix", "", "Key prefix for imported carts (defaults to CART_KEY_PREFIX)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger := log.New(os.Stderr, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Printf("load .env: %v", err)
	}
	cfg := config.FromEnv()
	if prefix == "" {
		prefix = cfg.CartKeyPrefix
	}

	ctx := context.Background()
	repo, closeRepo, err := snapshotrepo.Open(ctx, cfg)
	if err != nil {
		logger.Fatalf("open snapshot backend: %v", err)
	}
	defer closeRepo()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, repo, prefix, logger)

	start := time.Now()
	res, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d carts (%d skipped) into %s in %s\n", res.Imported, res.Skipped, cfg.SnapshotBackend, time.Since(start).Truncate(time.Millisecond))
}
