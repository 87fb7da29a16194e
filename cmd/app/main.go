package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chris/donation-ledger/pkg/api"
	"github.com/chris/donation-ledger/pkg/bootstrap"
	"github.com/chris/donation-ledger/pkg/config"
	"github.com/chris/donation-ledger/pkg/handlers"
	"github.com/chris/donation-ledger/pkg/handlers/campaigns"
	"github.com/chris/donation-ledger/pkg/handlers/donations"
	"github.com/chris/donation-ledger/pkg/handlers/reviews"
	"github.com/chris/donation-ledger/pkg/handlers/webhooks"
	wshandlers "github.com/chris/donation-ledger/pkg/handlers/websockets"
	"github.com/chris/donation-ledger/pkg/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger, bootstrap.WithLocalHub())
	if err != nil {
		logger.Error("failed to wire services", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	handler := handlers.NewApiHandler(
		campaigns.NewCampaignsHandler(app.Campaigns, app.Donations, app.Ledger),
		donations.NewDonationsHandler(app.Donations, app.Receipts),
		reviews.NewReviewsHandler(app.Store),
		webhooks.NewWebhooksHandler(app.Reconciliation, cfg.PaymentWebhookSecret),
	)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.NewStructuredLogger(logger))
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Identify)

	// Progress subscriptions for clients connected to this process.
	router.Handle("/ws", wshandlers.NewLocalHandler(app.Hub))

	api.HandlerFromMux(handler, router)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.HTTPPort, "storage", cfg.StorageBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
