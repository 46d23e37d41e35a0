package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"orderbot/internal/config"
	"orderbot/internal/domain/model"

	"github.com/glebarez/sqlite"
	_ "github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return OpenPostgres(cfg.PostgresDSN())
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("sqlite dir: %w", err)
			}
		}
		return OpenSQLite(cfg.SQLitePath)
	}
	return nil, fmt.Errorf("unknown db driver %q", cfg.DBDriver)
}

// pgx の database/sql ドライバ経由で開く
func OpenPostgres(dsn string) (*gorm.DB, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)

	return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig())
}

// OpenSQLite はファイル（":memory:" も可）を開く。
// 接続は1本にして、外部キー（ON DELETE CASCADE）を有効にする。
func OpenSQLite(path string) (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return gdb, nil
}

// Migrate はテーブルを作る（catalog_items / orders / order_lines）
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&model.CatalogItem{},
		&model.Order{},
		&model.OrderLine{},
	)
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
}
