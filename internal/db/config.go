package db

import "time"

type MariaDbConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// MultiStatements is only needed to run migrations.
	MultiStatements bool
}

// NewFromConfig opens the pool described by cfg.
func NewFromConfig(cfg MariaDbConfig) (*Database, error) {
	return open(cfg.DSN, cfg.MultiStatements, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
}
