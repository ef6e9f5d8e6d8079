package repo

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"ConnKeeper/internal/model"
)

// DefaultSQLitePath — файл каталога, если DSN не задан.
const DefaultSQLitePath = "connkeeper.db"

// InitDB открывает БД каталога: postgres для DSN вида postgres://… или
// "host=…", иначе SQLite (modernc, без cgo) по пути из DSN. Схема
// мигрируется автоматически.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(dialector(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate создаёт или обновляет таблицы каталога.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Source{}, &model.CatalogEntry{}); err != nil {
		return fmt.Errorf("migrate catalog db: %w", err)
	}
	return nil
}

func dialector(dsn string) gorm.Dialector {
	if isPostgres(dsn) {
		return postgres.Open(dsn)
	}
	if dsn == "" {
		dsn = DefaultSQLitePath
	}
	return gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}
