package repository

import (
	"fmt"

	"github.com/fhuszti/medias-pipeline-go/internal/config"
	"github.com/fhuszti/medias-pipeline-go/internal/db"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
	"github.com/fhuszti/medias-pipeline-go/internal/repository/mariadb"
	"github.com/fhuszti/medias-pipeline-go/internal/repository/pebblestore"
)

// Open connects the job store selected by JOB_STORE_DRIVER. Every call to the
// returned store is bounded by STORE_TIMEOUT; the closer releases it.
func Open(cfg *config.Settings) (port.JobRepository, func() error, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMariaDB:
		database, err := db.New(cfg.MariaDBDSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to MariaDB: %w", err)
		}
		return WithTimeout(mariadb.NewJobRepository(database.DB), cfg.StoreTimeout), database.Close, nil
	case config.StoreDriverPebble:
		store, err := pebblestore.Open(cfg.PebblePath)
		if err != nil {
			return nil, nil, err
		}
		return WithTimeout(store, cfg.StoreTimeout), store.Close, nil
	default:
		return nil, nil, fmt.Errorf("JOB_STORE_DRIVER %q is not supported", cfg.StoreDriver)
	}
}
