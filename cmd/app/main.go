package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"weatherproxy.app/internal/app"
	"weatherproxy.app/internal/cli"
	"weatherproxy.app/internal/config"
	"weatherproxy.app/pkg/logger"
)

func main() {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found or error loading it")
	}

	cmd := cli.New(cli.Options{
		Serve: serve,
		Open:  openStore,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger.SetDefault(logger.NewWithWriter(os.Stderr, logger.ParseLevel(cfg.Log.Level)).
		WithField("service", "weatherproxy"))
	return cfg, nil
}

func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}

	slog.Info("Configuration loaded successfully",
		"port", cfg.Server.Port,
		"cache", cfg.Cache.Type.String(),
		"snapshot_store", cfg.Storage.Type.String(),
		"event_log", cfg.EventLog.Driver.String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Start(ctx)
	}()

	select {
	case err := <-errCh:
		_ = application.Close()
		return err
	case <-ctx.Done():
		slog.Info("Received shutdown signal...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return <-errCh
}

func openStore() (cli.Store, func() error, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	application, err := app.NewApplication(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize application: %w", err)
	}

	return application.GetWeatherUseCase(), application.Close, nil
}
