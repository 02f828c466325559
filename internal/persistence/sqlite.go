package persistence

import (
	"context"
	"database/sql/driver"
	"errors"
	"strings"
	"sync"

	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SQLite wraps an embedded gorm database.
type SQLite struct {
	DB *gorm.DB
}

// UnicodeLower names a scalar function that lower-cases text with full Unicode
// case folding. SQLite's built-in LOWER only folds ASCII.
const UnicodeLower = "unicode_lower"

var (
	registerFuncsOnce sync.Once
	registerFuncsErr  error
)

// registerFunctions installs the custom scalar functions on the driver. They
// apply to every connection opened afterwards.
func registerFunctions() error {
	registerFuncsOnce.Do(func() {
		registerFuncsErr = gosqlite.RegisterDeterministicScalarFunction(UnicodeLower, 1, unicodeLower)
	})
	return registerFuncsErr
}

func unicodeLower(_ *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// NewSQLite opens (or creates) the database file at path. ":memory:" gives a
// private in-memory database.
func NewSQLite(path string, logger *zap.Logger) (*SQLite, error) {
	if err := registerFunctions(); err != nil {
		return nil, err
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("opened sqlite database", zap.String("path", path))
	}
	return &SQLite{DB: db}, nil
}

// Ping verifies the database is usable.
func (s *SQLite) Ping(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return errors.New("sqlite database not configured")
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection.
func (s *SQLite) Close() {
	if s == nil || s.DB == nil {
		return
	}
	if sqlDB, err := s.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
