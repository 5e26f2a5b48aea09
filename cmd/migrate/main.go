package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"parcelflow/internal/pkg/config"
	"parcelflow/internal/pkg/dotenv"
	"parcelflow/internal/pkg/postgres"
	"parcelflow/pkg/logger"
	"parcelflow/pkg/logger/zap_adapter"
)

func main() {
	zapLogger, err := zap_adapter.NewZapAdapter()
	if err != nil {
		stdlog.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := zapLogger.Sync(); err != nil {
			stdlog.Printf("failed to sync logger: %v", err)
		}
	}()

	var appLogger logger.Logger = zapLogger
	mainLog := appLogger.With()

	if _, err := os.Stat(".env"); err == nil {
		if err := dotenv.Load(); err != nil {
			mainLog.Error("failed to load .env file", logger.NewField("error", err))
			return
		}
	}

	// миграциям нужна только секция базы, полный config.Load требует kafka и http
	cfg, err := config.LoadDatabase()
	if err != nil {
		mainLog.Error("load config", logger.NewField("error", err))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	pool, err := postgres.NewConnPool(ctx, appLogger, cfg)
	if err != nil {
		mainLog.Error("database", logger.NewField("error", err))
		return
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, appLogger, pool); err != nil {
		mainLog.Error("migrate", logger.NewField("error", err))
		return
	}
}
