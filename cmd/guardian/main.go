package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sune-guardian/internal/bot"
	"sune-guardian/internal/config"
	"sune-guardian/internal/gate"
	"sune-guardian/internal/market"
	"sune-guardian/internal/session"
	"sune-guardian/internal/storage"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := config.BuildLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	store, err := storage.New(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("storage init failed", zap.Error(err))
	}
	defer store.Close()
	if err := store.Migrate(); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	tracker := gate.NewTracker(cfg.Moderation.SpamThreshold,
		time.Duration(cfg.Moderation.SpamWindowSeconds)*time.Second)
	filter := gate.NewFilter(cfg.Moderation.ExtraScamPhrases...)
	moderationGate := gate.New(tracker, filter, store, logger, cfg.Moderation.MaxWarnings)
	sessions := session.New(time.Duration(cfg.Games.SessionTTLMinutes) * time.Minute)
	marketClient := market.New(cfg.Token.ContractAddress, cfg.Market.BirdeyeAPIKey,
		time.Duration(cfg.Market.TimeoutSeconds)*time.Second)

	botSvc, err := bot.New(cfg, logger, store, moderationGate, tracker, sessions, marketClient)
	if err != nil {
		logger.Fatal("bot init failed", zap.Error(err))
	}

	botSvc.Start()
	logger.Info("bot started")

	var server *http.Server
	if cfg.Health.Enabled {
		server = &http.Server{Addr: cfg.Health.Addr}
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		go func() {
			logger.Info("health endpoint enabled", zap.String("addr", cfg.Health.Addr))
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("health server error", zap.Error(err))
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutdown requested")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if server != nil {
		_ = server.Shutdown(ctx)
	}
	botSvc.Stop()
}
