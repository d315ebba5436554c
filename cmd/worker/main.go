package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"agencydesk/config"
	"agencydesk/internal/database"
	"agencydesk/internal/repository"
	"agencydesk/internal/worker"
)

func main() {
	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	w := worker.New(cfg.Redis.Addr, repository.NewPaymentRepository(db))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := w.Start(ctx); err != nil {
		log.Fatalf("worker: %v", err)
	}
	os.Exit(0)
}
