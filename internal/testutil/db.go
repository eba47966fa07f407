package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/db"
	"github.com/fhuszti/medias-pipeline-go/internal/migration"
	"github.com/go-sql-driver/mysql"
)

// TestDB is a freshly created, migrated schema that Cleanup drops again.
type TestDB struct {
	DB      *sql.DB
	Cleanup func() error
}

// SetupTestDB creates a uniquely named database on the server behind
// TEST_DB_DSN and applies the job store migrations to it.
func SetupTestDB() (*TestDB, error) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		return nil, fmt.Errorf("TEST_DB_DSN env-var not set")
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DSN %q: %w", dsn, err)
	}

	cfg.DBName = ""
	rootDB, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open root DB: %w", err)
	}

	dbName := fmt.Sprintf("jobs_test_%d", time.Now().UnixNano())
	if _, err := rootDB.Exec("CREATE DATABASE " + dbName); err != nil {
		_ = rootDB.Close()
		return nil, fmt.Errorf("create database %q: %w", dbName, err)
	}
	dropRoot := func() {
		_, _ = rootDB.Exec("DROP DATABASE " + dbName)
		_ = rootDB.Close()
	}

	cfg.DBName = dbName
	testDSN, err := db.NormaliseDSN(cfg.FormatDSN(), true)
	if err != nil {
		dropRoot()
		return nil, err
	}
	conn, err := sql.Open("mysql", testDSN)
	if err != nil {
		dropRoot()
		return nil, fmt.Errorf("open test DB %q: %w", dbName, err)
	}
	if err := migration.MigrateUp(conn); err != nil {
		_ = conn.Close()
		dropRoot()
		return nil, err
	}

	cleanup := func() error {
		if err := conn.Close(); err != nil {
			return err
		}
		if _, err := rootDB.Exec("DROP DATABASE " + dbName); err != nil {
			_ = rootDB.Close()
			return fmt.Errorf("drop database %q: %w", dbName, err)
		}
		return rootDB.Close()
	}

	return &TestDB{DB: conn, Cleanup: cleanup}, nil
}

// EnsureMariaDB exports TEST_DB_DSN, starting a container when it is unset.
func EnsureMariaDB() (func(), error) {
	if os.Getenv("TEST_DB_DSN") != "" {
		return func() {}, nil
	}
	c, err := StartMariaDB()
	if err != nil {
		return nil, err
	}
	if err := os.Setenv("TEST_DB_DSN", c.Address); err != nil {
		c.Cleanup()
		return nil, err
	}
	return c.Cleanup, nil
}

// EnsureMinIO exports TEST_MINIO_ENDPOINT and its credentials, starting a
// container when the endpoint is unset.
func EnsureMinIO() (func(), error) {
	if os.Getenv("TEST_MINIO_ENDPOINT") != "" {
		return func() {}, nil
	}
	c, err := StartMinIO()
	if err != nil {
		return nil, err
	}
	for k, v := range map[string]string{
		"TEST_MINIO_ENDPOINT":   c.Address,
		"TEST_MINIO_ACCESS_KEY": MinioRootUser,
		"TEST_MINIO_SECRET_KEY": MinioRootPassword,
	} {
		if err := os.Setenv(k, v); err != nil {
			c.Cleanup()
			return nil, err
		}
	}
	return c.Cleanup, nil
}
