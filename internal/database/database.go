package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"api_ventas/internal/config"
	"api_ventas/internal/sales"
)

// Open connects to the configured relational database. It returns nil and
// no error for the in-memory driver.
func Open(cfg config.DatabaseConfig, logger *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverMemory:
		return nil, nil
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	logger.Info("connecting to database", zap.String("driver", cfg.Driver))
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}
	return db, nil
}

// NewStorage returns the sales storage backing the configured driver,
// migrating the schema when it is relational.
func NewStorage(cfg config.DatabaseConfig, logger *zap.Logger) (sales.Storage, func() error, error) {
	db, err := Open(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if db == nil {
		logger.Warn("using in-memory sales storage, data is lost on restart")
		return sales.NewLocalStorage(), func() error { return nil }, nil
	}

	storage := sales.NewGormStorage(db)
	if err := storage.Migrate(); err != nil {
		return nil, nil, fmt.Errorf("auto migration failed: %w", err)
	}
	logger.Info("ventas table migrated")

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	return storage, sqlDB.Close, nil
}
