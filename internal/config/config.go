package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // APIサーバーポート（8080）

	BotToken   string // Telegram Bot API トークン
	BotWorkers int    // 更新を処理するワーカー数（ユーザー単位で順序を守る）

	DBDriver    string // postgres / sqlite
	DatabaseURL string // あれば最優先（postgres）

	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string

	SQLitePath string // sqliteファイル

	CatalogPath string // メニュー（json/yaml）

	RedisAddr      string // 空なら注文通知はしない
	OrderEventsKey string // 注文通知を積むredisのキー

	LogLevel slog.Level
	GoEnv    string // dev/prod
}

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := atoiOr("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	workers, err := atoiOr("BOT_WORKERS", 8)
	if err != nil {
		return Config{}, err
	}
	if workers < 1 {
		return Config{}, fmt.Errorf("BOT_WORKERS must be >= 1")
	}
	level, err := parseLevel(getenv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: getenv("PORT", "8080"),

		BotToken:   strings.TrimSpace(os.Getenv("BOT_TOKEN")),
		BotWorkers: workers,

		DBDriver:    strings.ToLower(getenv("DB_DRIVER", DriverSQLite)),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "orderbot"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		SQLitePath: getenv("SQLITE_PATH", "data/orderbot.sqlite3"),

		CatalogPath: getenv("CATALOG_PATH", "data/menu.json"),

		RedisAddr:      os.Getenv("REDIS_ADDR"),
		OrderEventsKey: getenv("ORDER_EVENTS_KEY", "orders:placed"),

		LogLevel: level,
		GoEnv:    getenv("GO_ENV", "dev"),
	}

	//必須チェック
	switch cfg.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be %q or %q", DriverPostgres, DriverSQLite)
	}
	if cfg.CatalogPath == "" {
		return Config{}, fmt.Errorf("CATALOG_PATH is required")
	}

	return cfg, nil
}

// ValidateBot はbotプロセスだけに必要な項目を確認する
func (c Config) ValidateBot() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	return nil
}

// PostgresDSN は DATABASE_URL か POSTGRES_* から接続文字列を作る
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiOr(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func parseLevel(v string) (slog.Level, error) {
	switch strings.ToLower(v) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("LOG_LEVEL must be debug/info/warn/error")
}
