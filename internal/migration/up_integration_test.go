//go:build integration

package migration_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/fhuszti/medias-pipeline-go/internal/migration"
	"github.com/fhuszti/medias-pipeline-go/internal/testutil"
)

func TestMain(m *testing.M) {
	code := func() int {
		cleanup, err := testutil.EnsureMariaDB()
		if err != nil {
			fmt.Fprintf(os.Stderr, "DB setup failed: %v\n", err)
			return 1
		}
		defer cleanup()
		return m.Run()
	}()
	os.Exit(code)
}

func TestMigrateUpIntegration(t *testing.T) {
	// SetupTestDB already ran MigrateUp once
	testDB, err := testutil.SetupTestDB()
	if err != nil {
		t.Fatalf("setup DB: %v", err)
	}
	defer func() { _ = testDB.Cleanup() }()

	if err := migration.MigrateUp(testDB.DB); err != nil {
		t.Fatalf("second MigrateUp should be a no-op, got %v", err)
	}

	var rows int
	if err := testDB.DB.QueryRow("SELECT COUNT(*) FROM jobs").Scan(&rows); err != nil {
		t.Fatalf("failed to query migrated table: %v", err)
	}
	if rows != 0 {
		t.Errorf("expected 0 rows in jobs after migration, got %d", rows)
	}

	var indexes int
	if err := testDB.DB.QueryRow(
		"SELECT COUNT(DISTINCT index_name) FROM information_schema.statistics WHERE table_schema = DATABASE() AND table_name = 'jobs' AND index_name LIKE 'idx_jobs_status_%'",
	).Scan(&indexes); err != nil {
		t.Fatalf("failed to query indexes: %v", err)
	}
	if indexes != 2 {
		t.Errorf("expected 2 terminal indexes, got %d", indexes)
	}

	var encodingCols int
	if err := testDB.DB.QueryRow(
		"SELECT COUNT(*) FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = 'jobs' AND column_name IN ('profile', 'overrides')",
	).Scan(&encodingCols); err != nil {
		t.Fatalf("failed to query columns: %v", err)
	}
	if encodingCols != 2 {
		t.Errorf("expected profile and overrides columns, got %d", encodingCols)
	}
}
