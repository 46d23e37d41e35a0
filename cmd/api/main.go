package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"orderbot/internal/config"
	"orderbot/internal/handler"
	"orderbot/internal/infra/db"
	infraRepo "orderbot/internal/infra/repository"
	"orderbot/internal/server"
	"orderbot/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Error("Failed to connect database", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	//Repository（GORM実装）生成
	itemRepo := infraRepo.NewCatalogItemGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//Handler生成
	catalogH := handler.NewCatalogHandler(usecase.NewCatalogUsecase(itemRepo))
	orderH := handler.NewOrderHandler(usecase.NewOrderUsecase(txm))

	e := server.New(logger, catalogH, orderH)

	//Server起動
	addr := cfg.Port
	if !strings.HasPrefix(addr, ":") {
		addr = ":" + addr
	}
	logger.Info("Server starting", "addr", addr, "db", cfg.DBDriver)
	if err := server.Start(ctx, e, addr); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Server exited gracefully.")
}
