package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/quayside/suitebridge/internal/api"
	"github.com/quayside/suitebridge/internal/api/admin"
	"github.com/quayside/suitebridge/internal/api/webhooks"
	"github.com/quayside/suitebridge/internal/bridge"
	"github.com/quayside/suitebridge/internal/classify"
	"github.com/quayside/suitebridge/internal/config"
	"github.com/quayside/suitebridge/internal/database"
	"github.com/quayside/suitebridge/internal/hubspot"
	"github.com/quayside/suitebridge/internal/journal"
	"github.com/quayside/suitebridge/internal/netsuite"
	"github.com/quayside/suitebridge/internal/resolve"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	crm := hubspot.New(cfg.HubSpot.BaseURL, cfg.HubSpot.Token)
	erp := netsuite.New(netsuite.Credentials{
		Account:        cfg.NetSuite.Account,
		ConsumerKey:    cfg.NetSuite.ConsumerKey,
		ConsumerSecret: cfg.NetSuite.ConsumerSecret,
		TokenID:        cfg.NetSuite.TokenID,
		TokenSecret:    cfg.NetSuite.TokenSecret,
	}, cfg.NetSuite.RoutingCookie)

	j := journal.New(db)
	processor := bridge.NewProcessor(
		classify.New(crm, cfg.ClosedWonStage),
		resolve.New(crm, cfg.ItemIDProperties),
		erp,
		bridge.Endpoints{
			Customer: cfg.NetSuite.CustomerURL,
			Item:     cfg.NetSuite.ItemURL,
			Order:    cfg.NetSuite.OrderURL,
		},
		j,
	)

	mux := http.NewServeMux()

	// Webhook intake
	webhooks.RegisterRoutes(mux, processor)

	// Operator API
	admin.RegisterRoutes(mux, j)

	// Catch-all: unknown routes get the bridge error format.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		corrID := api.CorrelationID(r.Context())
		api.WriteError(w, http.StatusNotFound,
			fmt.Sprintf("No route found for %s %s", r.Method, r.URL.Path), corrID)
	})

	handler := api.Chain(mux,
		api.Recovery(),
		api.RequestID(),
		api.VerifySignature(cfg.HubSpot.AppSecret),
		api.Logging(),
	)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		slog.Info("shutting down server")
		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("starting suitebridge server", "addr", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}

	return nil
}
