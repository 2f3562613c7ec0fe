package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"luxe-atelier/internal/config"
	"luxe-atelier/internal/httpserver"
	snapshotrepo "luxe-atelier/internal/repository/snapshot"
	cartsvc "luxe-atelier/internal/service/cart"
)

func main() {
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Printf("load .env: %v", err)
	}
	cfg := config.FromEnv()

	ctx := context.Background()
	repo, closeRepo, err := snapshotrepo.Open(ctx, cfg)
	if err != nil {
		logger.Fatalf("open snapshot backend %q: %v", cfg.SnapshotBackend, err)
	}
	defer closeRepo()
	logger.Printf("cart snapshots stored in %s backend", cfg.SnapshotBackend)

	cartService := cartsvc.New(repo, logger, cfg.CartKeyPrefix, cfg.CartMaxResident)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		CartSvc:  cartService,
		Snapshot: repo,
	}, cfg.CORSAllowedOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
