package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lojasmm/rbm/internal/auth"
	"github.com/lojasmm/rbm/internal/bot"
	"github.com/lojasmm/rbm/internal/config"
	"github.com/lojasmm/rbm/internal/rbm"
	"github.com/lojasmm/rbm/internal/server"
	"github.com/lojasmm/rbm/internal/session"
	"github.com/lojasmm/rbm/internal/store"
	"github.com/lojasmm/rbm/internal/webhook"
)

// inboundRetention bounds how long processed message ids are remembered.
const inboundRetention = 7 * 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := cfg.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.NewBoltStore(filepath.Join(cfg.DataDir, "rbm.db"))
	if err != nil {
		logger.Fatal().Err(err).Msg("store")
	}
	defer db.Close()

	sa, err := auth.LoadServiceAccount(ctx, cfg.ServiceAccountFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("credentials")
	}
	rbmClient, err := rbm.NewClient(rbm.ClientConfig{
		Endpoint:   cfg.Endpoint,
		HTTPClient: sa.NewHTTPClient(context.Background(), cfg.HTTPTimeout),
		Logger:     &logger,
		Retry:      cfg.Retry,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("rbm client")
	}

	// Forget processed message ids once redelivery is no longer plausible
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := db.PruneInbound(time.Now().Add(-inboundRetention))
				if err != nil {
					logger.Error().Err(err).Msg("pruning inbound ids")
					continue
				}
				logger.Debug().Int("pruned", n).Msg("pruned inbound ids")
			}
		}
	}()

	botHandler := bot.NewHandler(rbmClient, db, session.NewManager(), cfg.BotImageURL, logger)
	webhookHandler := webhook.NewHandler(cfg.ClientToken, botHandler.HandleEvent, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server.NewRouter(logger, webhookHandler),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("service_account", sa.ClientEmail).
			Str("client_token", cfg.ClientToken).
			Msg("rbm-agent listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
		os.Exit(1)
	}
	logger.Info().Msg("stopped")
}
