// Package main provides the entry point for the admin panel. It wires
// the store, the screen controllers, the session gate and the AI
// gateway into the HTTP server, starts the simulated load tick, and
// shuts everything down cleanly on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nexus-panel/internal/ai"
	"nexus-panel/internal/auth"
	"nexus-panel/internal/config"
	"nexus-panel/internal/database"
	"nexus-panel/internal/logging"
	"nexus-panel/internal/monitoring"
	"nexus-panel/internal/session"
	"nexus-panel/internal/state"
	"nexus-panel/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFile)
	defer logger.Sync()

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		logger.Fatalw("failed to open database", "path", cfg.DatabasePath, "error", err)
	}
	if err := db.Seed(rand.New(rand.NewSource(time.Now().UnixNano()))); err != nil {
		logger.Fatalw("failed to seed database", "error", err)
	}

	flag := session.NewFlagStore(cfg.AuthFlagPath)
	gate, err := session.NewGate(cfg.AdminEmail, cfg.AdminPassword, flag, logger)
	if err != nil {
		logger.Fatalw("failed to create session gate", "error", err)
	}

	servers := state.NewServerController(db, logger)
	users := state.NewUserController(db, logger)
	monitor := monitoring.NewMonitor(db, logger)
	gateway := ai.NewGateway(cfg.GeminiAPIKey, cfg.GeminiModel, monitor.ReportJSON, logger)
	if !gateway.Enabled() {
		logger.Warnw("AI insights disabled, no API key configured")
	}

	server := web.NewServer(cfg.ListenAddr, web.Dependencies{
		DB:      db,
		Servers: servers,
		Users:   users,
		Gate:    gate,
		Tokens:  auth.NewManager(cfg.JWTSecret),
		Monitor: monitor,
		Gateway: gateway,
		Log:     logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := servers.RunTicker(ctx, cfg.TickPeriod); err != nil && !errors.Is(err, context.Canceled) {
			logger.Errorw("load ticker stopped", "error", err)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Infow("shutting down", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			logger.Fatalw("http server failed", "error", err)
		}
		return
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logger.Errorw("graceful shutdown failed", "error", err)
	}
}
