package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dharashakti/backoffice/internal/common/config"

	"github.com/glebarez/sqlite"
)

// SQLite implements the Database interface using SQLite
type SQLite struct {
	*store
}

// NewSQLite creates a new SQLite instance
func NewSQLite(cfg *config.DatabaseConfig) (Database, error) {
	if !isMemoryDSN(cfg.DBName) {
		dir := filepath.Dir(cfg.DBName)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	maxOpen := 0
	if isMemoryDSN(cfg.DBName) {
		// every pooled connection would otherwise get its own empty database
		maxOpen = 1
	}
	s, err := openStore(sqlite.Open(cfg.DBName), maxOpen)
	if err != nil {
		return nil, err
	}
	return &SQLite{store: s}, nil
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}
