package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/chrono-run/chrono-api/internal/config"
	"github.com/chrono-run/chrono-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Connect opens the connection pool described by cfg and, when enabled,
// migrates the schema. The caller owns the pool and must Close it.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseURL)
	case config.DriverSQLite:
		dialector = sqlite.Open(SQLiteDSN(cfg.DatabasePath))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(LogLevel(cfg.DBLogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get connection pool: %w", err)
	}
	if cfg.DBMaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
	if cfg.DBConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
	}

	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}

	return db, nil
}

// SQLiteDSN appends the pool options for sqlite: transactions take the write
// lock at BEGIN and wait up to busy_timeout for it instead of returning
// SQLITE_BUSY.
func SQLiteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_busy_timeout=5000&_txlock=immediate&_journal_mode=WAL"
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(&models.Runner{}, &models.Bib{}, &models.Race{}, &models.Registration{})
	if err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}

// Close drains the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LogLevel maps a config string onto a gorm logger level. Unknown values
// fall back to Warn.
func LogLevel(s string) logger.LogLevel {
	switch strings.ToLower(s) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// SeedBibs inserts count available bibs numbered from `from`. Numbers that
// already exist are skipped; the number of new rows is returned.
func SeedBibs(ctx context.Context, db *gorm.DB, from, count int) (int64, error) {
	if count <= 0 {
		return 0, nil
	}
	bibs := make([]models.Bib, 0, count)
	for n := from; n < from+count; n++ {
		bibs = append(bibs, models.Bib{Number: n, Available: true})
	}

	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "numero"}}, DoNothing: true}).
		CreateInBatches(&bibs, 200)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to seed bibs: %w", res.Error)
	}
	return res.RowsAffected, nil
}
