package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CheeKangSew/Shell-Petronas-recon/internal/api"
	"github.com/CheeKangSew/Shell-Petronas-recon/internal/application/service"
	"github.com/CheeKangSew/Shell-Petronas-recon/internal/infrastructure/config"
	"github.com/CheeKangSew/Shell-Petronas-recon/internal/infrastructure/logging"
)

func main() {
	cfg := config.LoadOrEnv()
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "api")

	recon := service.NewReconService(logger)
	server := api.NewServer(api.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, recon, logger)

	// Graceful shutdown on SIGINT/SIGTERM
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	<-done

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
}
