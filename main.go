package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := LoadConfig()

	store, err := OpenUsageStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open usage store: %v", err)
	}
	defer store.Close()

	assessor := NewAssessor(cfg)
	classifier := NewClassifier(cfg, assessor)
	notifier := NewNotifier(cfg)

	scheduler := StartUsageSummaryScheduler(cfg, store, notifier)
	defer scheduler.Stop()

	router := NewRouter(&ClassifyHandler{
		classifier: classifier,
		store:      store,
		notifier:   notifier,
	})
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Starting ticket triage service on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Shutdown complete")
}
