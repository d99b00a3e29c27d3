package repository

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskboard/internal/model"
)

// DefaultDSN is the SQLite file used when no DSN is configured.
const DefaultDSN = "tasks.db"

// slowQueryThreshold marks statements worth a warning in the SQL log.
const slowQueryThreshold = time.Second

// sqliteParams are understood by the mattn/go-sqlite3 driver and apply to
// every connection the pool opens.
const sqliteParams = "_foreign_keys=on&_busy_timeout=5000"

// NewDB opens the SQLite store and makes sure the users and tasks tables exist.
func NewDB(dsn string) (*gorm.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		dsn = DefaultDSN
	}
	memory := isMemoryDSN(dsn)
	if !memory {
		if err := ensureDirForSQLite(dsn); err != nil {
			return nil, err
		}
		dsn = withSQLiteParams(dsn)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         newSQLLogger(),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if memory {
		// Every new connection to :memory: is a fresh empty database, so the
		// pool holds exactly one and the pragma only needs to run once.
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates missing tables and indexes. It is safe to run on every start.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		return fmt.Errorf("migrate db: %w", err)
	}
	return nil
}

func newSQLLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "[sql] ", log.LstdFlags),
		logger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

func withSQLiteParams(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqliteParams
	}
	return dsn + "?" + sqliteParams
}

// ensureDirForSQLite creates the parent directory of a file DSN.
func ensureDirForSQLite(dsn string) error {
	path, _, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
