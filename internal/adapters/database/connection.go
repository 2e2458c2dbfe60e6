// Package database provides the gorm-backed event log and its connections
package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"weatherproxy.app/internal/config"
	"weatherproxy.app/pkg/errors"
)

// Open connects to the event log database selected by cfg.Driver
func Open(cfg *config.EventLogConfig) (*gorm.DB, error) {
	if cfg == nil {
		return nil, errors.NewConfigurationError("event log config cannot be nil", nil)
	}

	gormConfig := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}

	switch cfg.Driver {
	case config.EventLogDriverSQLite:
		path := cfg.SQLiteFile()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.NewDatabaseError("failed to create event log directory", err)
		}

		db, err := gorm.Open(sqlite.Open(path), gormConfig)
		if err != nil {
			return nil, errors.NewDatabaseError("connect to sqlite event log", err)
		}

		// sqlite allows one writer; a single connection serializes appends
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.NewDatabaseError("get sqlite connection pool", err)
		}
		sqlDB.SetMaxOpenConns(1)
		return db, nil

	case config.EventLogDriverPostgres:
		db, err := gorm.Open(postgres.Open(cfg.Database.GetDSN()), gormConfig)
		if err != nil {
			return nil, errors.NewDatabaseError("connect to postgres event log", err)
		}
		return db, nil

	default:
		return nil, errors.NewConfigurationError(
			fmt.Sprintf("unsupported event log driver: %s", cfg.Driver.String()), nil)
	}
}

// Close safely closes the database connection
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
