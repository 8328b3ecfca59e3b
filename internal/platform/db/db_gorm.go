// Package db provides scoped acquisition of the sqlite store handle.
package db

import (
	"fmt"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DefaultPath is the store file used when no path is configured.
const DefaultPath = "stock_market.db"

// Config holds the database settings.
type Config struct {
	// Path is the sqlite database file. ":memory:" gives a throwaway store.
	Path string
}

// LoadConfigFromEnv reads the database configuration from environment
// variables, falling back to DefaultPath.
func LoadConfigFromEnv() Config {
	path := os.Getenv("PRICEPOINT_DB_PATH")
	if path == "" {
		path = DefaultPath
	}
	return Config{Path: path}
}

// Opener opens a gorm DB for a datasource path. It exists so tests can
// inject failures without a real file.
type Opener func(path string) (*gorm.DB, error)

// SQLiteOpener is the production Opener.
func SQLiteOpener(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path), &gorm.Config{})
}

// Open acquires the store handle. One handle is owned by one caller at a
// time; release it with Close on every exit path.
func Open(cfg Config) (*gorm.DB, error) {
	return OpenWith(cfg, SQLiteOpener)
}

// OpenWith acquires the store handle through a custom Opener.
func OpenWith(cfg Config, open Opener) (*gorm.DB, error) {
	gdb, err := open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open store %q: %w", cfg.Path, err)
	}
	return gdb, nil
}

// Close releases the underlying connection.
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("unwrap store handle: %w", err)
	}
	return sqlDB.Close()
}
