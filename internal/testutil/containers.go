// Package testutil starts throwaway MariaDB and MinIO containers for the
// integration tests. Tests reuse an existing instance when the matching
// TEST_* environment variables are set.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/logger"
	_ "github.com/go-sql-driver/mysql"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

const (
	MinioRootUser     = "minioadmin"
	MinioRootPassword = "minioadmin"
)

// Container is a running dependency and the function that removes it.
type Container struct {
	// Address is a DSN for MariaDB and a host:port endpoint for MinIO.
	Address string
	Cleanup func()
}

func run(opts *dockertest.RunOptions) (*dockertest.Pool, *dockertest.Resource, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to docker: %w", err)
	}
	pool.MaxWait = 2 * time.Minute

	resource, err := pool.RunWithOptions(opts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not start %s container: %w", opts.Repository, err)
	}
	return pool, resource, nil
}

func purger(pool *dockertest.Pool, resource *dockertest.Resource) func() {
	return func() {
		if err := pool.Purge(resource); err != nil {
			logger.Warnf(context.Background(), "could not purge container %s: %s", resource.Container.Name, err)
		}
	}
}

// StartMariaDB runs MariaDB 10.11 and waits until it accepts connections.
// The returned DSN points at the root schema; use SetupTestDB for an isolated database.
func StartMariaDB() (*Container, error) {
	const rootPassword = "root"

	pool, resource, err := run(&dockertest.RunOptions{
		Repository: "mariadb",
		Tag:        "10.11",
		Env:        []string{"MARIADB_ROOT_PASSWORD=" + rootPassword},
	})
	if err != nil {
		return nil, err
	}

	var dsn string
	if err := pool.Retry(func() error {
		dsn = fmt.Sprintf("root:%s@(localhost:%s)/mysql?parseTime=true", rootPassword, resource.GetPort("3306/tcp"))
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		return db.Ping()
	}); err != nil {
		_ = pool.Purge(resource)
		return nil, fmt.Errorf("mariadb did not become ready: %w", err)
	}

	return &Container{Address: dsn, Cleanup: purger(pool, resource)}, nil
}

// StartMinIO runs a MinIO server and waits until ListBuckets succeeds.
func StartMinIO() (*Container, error) {
	pool, resource, err := run(&dockertest.RunOptions{
		Repository: "minio/minio",
		Tag:        "latest",
		Env: []string{
			"MINIO_ROOT_USER=" + MinioRootUser,
			"MINIO_ROOT_PASSWORD=" + MinioRootPassword,
		},
		Cmd: []string{"server", "/data"},
	})
	if err != nil {
		return nil, err
	}

	var endpoint string
	if err := pool.Retry(func() error {
		endpoint = "localhost:" + resource.GetPort("9000/tcp")
		client, err := minio.New(endpoint, &minio.Options{
			Creds: credentials.NewStaticV4(MinioRootUser, MinioRootPassword, ""),
		})
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, err = client.ListBuckets(ctx)
		return err
	}); err != nil {
		_ = pool.Purge(resource)
		return nil, fmt.Errorf("minio did not become ready: %w", err)
	}

	return &Container{Address: endpoint, Cleanup: purger(pool, resource)}, nil
}
