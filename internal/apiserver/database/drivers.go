package database

import (
	"fmt"
	"time"

	"github.com/dharashakti/backoffice/internal/common/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// server databases keep a small pool; the back end serves one office
const (
	serverMaxOpenConns    = 10
	serverConnMaxLifetime = 30 * time.Minute
)

// Postgres implements Database on PostgreSQL
type Postgres struct {
	*store
}

// MySQL implements Database on MySQL
type MySQL struct {
	*store
}

// NewDatabase opens the database named by cfg.Type and migrates it
func NewDatabase(cfg *config.DatabaseConfig) (Database, error) {
	switch cfg.Type {
	case "sqlite":
		return NewSQLite(cfg)
	case "postgres":
		s, err := openServerStore(postgres.Open(cfg.GetDSN()))
		if err != nil {
			return nil, err
		}
		return &Postgres{store: s}, nil
	case "mysql":
		s, err := openServerStore(mysql.Open(cfg.GetDSN()))
		if err != nil {
			return nil, err
		}
		return &MySQL{store: s}, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

func openServerStore(dialector gorm.Dialector) (*store, error) {
	s, err := openStore(dialector, serverMaxOpenConns)
	if err != nil {
		return nil, err
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetConnMaxLifetime(serverConnMaxLifetime)
	return s, nil
}
