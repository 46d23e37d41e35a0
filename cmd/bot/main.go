package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"orderbot/internal/cart"
	"orderbot/internal/catalog"
	"orderbot/internal/chat"
	"orderbot/internal/config"
	"orderbot/internal/infra/db"
	"orderbot/internal/infra/notify"
	infraRepo "orderbot/internal/infra/repository"
	"orderbot/internal/orderform"
	"orderbot/internal/transport/telegram"
	"orderbot/internal/usecase"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	//.env は無くてもよい
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.ValidateBot(); err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("bot stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("bot exited gracefully")
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//カタログ（壊れていたら起動しない）
	store, err := catalog.Open(cfg.CatalogPath)
	if err != nil {
		var le *catalog.LoadError
		if errors.As(err, &le) {
			logger.Error("invalid catalog", "path", cfg.CatalogPath, "record", le.Index, "field", le.Field, "reason", le.Reason)
		}
		return err
	}
	logger.Info("catalog loaded", "path", cfg.CatalogPath, "items", store.Len())

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	//Repository（GORM実装）生成
	itemRepo := infraRepo.NewCatalogItemGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	catalogUC := usecase.NewCatalogUsecase(itemRepo)
	if err := catalogUC.Sync(ctx, store.All()); err != nil {
		return err
	}

	carts := cart.NewRegistry()
	checkoutUC := usecase.NewCheckoutUsecase(txm, carts, store)

	//注文通知（任意）
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		checkoutUC.WithPublisher(notify.NewRedisPublisher(rdb, cfg.OrderEventsKey))
		logger.Info("order notifications enabled", "redis", cfg.RedisAddr, "key", cfg.OrderEventsKey)
	}

	form := orderform.NewMachine(carts, checkoutUC)
	dispatcher := chat.NewDispatcher(usecase.NewCartUsecase(carts, store), form, logger)

	//Telegram
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return err
	}
	logger.Info("telegram bot authorized", "username", api.Self.UserName, "workers", cfg.BotWorkers)

	runner := telegram.NewRunner(api, dispatcher, cfg.BotWorkers, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		//更新が止まったらリロード監視も止める
		defer stop()
		return runner.Run(gctx)
	})
	g.Go(func() error {
		watchReload(gctx, logger, catalogUC, store)
		return nil
	})
	return g.Wait()
}

// SIGHUP でカタログを読み直す
func watchReload(ctx context.Context, logger *slog.Logger, uc *usecase.CatalogUsecase, src usecase.CatalogSource) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			n, err := uc.Reload(ctx, src)
			if err != nil {
				logger.Error("catalog reload failed, keeping previous catalog", "error", err)
				continue
			}
			logger.Info("catalog reloaded", "items", n)
		}
	}
}
