package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Database holds the job store connection pool.
type Database struct {
	*sql.DB
}

// New creates, configures, and verifies a MariaDB connection pool.
// It returns an error if the DSN is malformed or pinging the database fails.
func New(dsn string, maxOpen, maxIdle int, connMaxLifetime time.Duration) (*Database, error) {
	return open(dsn, false, maxOpen, maxIdle, connMaxLifetime)
}

func open(dsn string, multiStatements bool, maxOpen, maxIdle int, connMaxLifetime time.Duration) (*Database, error) {
	normalised, err := NormaliseDSN(dsn, multiStatements)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", normalised)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := db.Ping(); err != nil {
		if cErr := db.Close(); cErr != nil {
			return nil, cErr
		}
		return nil, err
	}
	return &Database{db}, nil
}

// NormaliseDSN forces the options the job repository relies on: DATETIME
// columns scanned into time.Time, in UTC.
func NormaliseDSN(dsn string, multiStatements bool) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid MariaDB DSN: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	if multiStatements {
		cfg.MultiStatements = true
	}
	return cfg.FormatDSN(), nil
}
