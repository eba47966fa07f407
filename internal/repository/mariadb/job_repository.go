package mariadb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/encoding"
	"github.com/fhuszti/medias-pipeline-go/internal/logger"
	"github.com/fhuszti/medias-pipeline-go/internal/model"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
	"github.com/go-sql-driver/mysql"
)

// mysqlErrDuplicateEntry is ER_DUP_ENTRY.
const mysqlErrDuplicateEntry = 1062

type JobRepository struct {
	db *sql.DB
}

// compile-time check: *JobRepository must satisfy port.JobRepository
var _ port.JobRepository = (*JobRepository)(nil)

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

const jobColumns = `name, size_bytes, media_type, status, retry_count, last_error, result,
        created_at, updated_at, processing_started_at, completed_at, failed_at,
        profile, overrides`

func (r *JobRepository) Create(ctx context.Context, job *model.Job) error {
	logger.Debugf(ctx, "creating database record for job %q, at status %q...", job.Name, job.Status)

	const query = `
      INSERT INTO jobs
        (name, size_bytes, media_type, status, retry_count, last_error, result,
        created_at, updated_at, processing_started_at, completed_at, failed_at,
        profile, overrides)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	overrides, err := encodeOverrides(job.Overrides)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	_, err = r.db.ExecContext(ctx, query,
		job.Name, job.SizeBytes, job.MediaType, job.Status, job.RetryCount,
		job.LastError, job.Result,
		job.CreatedAt, job.UpdatedAt,
		job.ProcessingStartedAt, job.CompletedAt, job.FailedAt,
		job.Profile, overrides,
	)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == mysqlErrDuplicateEntry {
			return fmt.Errorf("%w: %q", model.ErrJobAlreadyExists, job.Name)
		}
		return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}

	return nil
}

// Update replaces the stored record. The current status and retry count are
// read under a row lock, so a stale write can neither leave a terminal status,
// skip a lifecycle step, nor lower the retry count.
func (r *JobRepository) Update(ctx context.Context, job *model.Job) error {
	logger.Debugf(ctx, "updating database record for job %q, with status %q...", job.Name, job.Status)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	var current model.Job
	err = tx.QueryRowContext(ctx, `SELECT status, retry_count FROM jobs WHERE name = ? FOR UPDATE`, job.Name).
		Scan(&current.Status, &current.RetryCount)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %q", model.ErrJobNotFound, job.Name)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	if reason := current.UpdateConflict(job); reason != "" {
		logger.Warnf(ctx, "ignoring update of job %q: %s", job.Name, reason)
		return nil
	}

	const query = `
      UPDATE jobs
      SET
        size_bytes            = ?,
        media_type            = ?,
        status                = ?,
        retry_count           = ?,
        last_error            = ?,
        result                = ?,
        updated_at            = ?,
        processing_started_at = ?,
        completed_at          = ?,
        failed_at             = ?
      WHERE name = ?
    `
	if _, err := tx.ExecContext(ctx, query,
		job.SizeBytes,
		job.MediaType,
		job.Status,
		job.RetryCount,
		job.LastError,
		job.Result,
		job.UpdatedAt,
		job.ProcessingStartedAt,
		job.CompletedAt,
		job.FailedAt,
		job.Name, // WHERE clause
	); err != nil {
		return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *JobRepository) GetByName(ctx context.Context, name string) (*model.Job, error) {
	logger.Debugf(ctx, "fetching job %q from the database...", name)

	query := `SELECT ` + jobColumns + ` FROM jobs WHERE name = ?`
	job, err := scanJob(r.db.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", model.ErrJobNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	return job, nil
}

func (r *JobRepository) Delete(ctx context.Context, name string) error {
	logger.Debugf(ctx, "deleting job %q from the database...", name)

	if _, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE name = ?`, name); err != nil {
		return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *JobRepository) ListTerminalBefore(ctx context.Context, before time.Time) ([]*model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs
      WHERE (status = ? AND completed_at < ?)
         OR (status = ? AND failed_at < ?)`
	rows, err := r.db.QueryContext(ctx, query,
		model.JobStatusCompleted, before,
		model.JobStatusFailed, before,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	var jobs []*model.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	return jobs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*model.Job, error) {
	var (
		job                              model.Job
		lastError                        sql.NullString
		result                           []byte
		startedAt, completedAt, failedAt sql.NullTime
		overrides                        []byte
	)
	if err := row.Scan(
		&job.Name, &job.SizeBytes, &job.MediaType, &job.Status, &job.RetryCount,
		&lastError, &result,
		&job.CreatedAt, &job.UpdatedAt,
		&startedAt, &completedAt, &failedAt,
		&job.Profile, &overrides,
	); err != nil {
		return nil, err
	}

	if lastError.Valid {
		job.LastError = &lastError.String
	}
	if len(result) > 0 {
		var res model.JobResult
		if err := json.Unmarshal(result, &res); err != nil {
			return nil, fmt.Errorf("decode result of job %q: %w", job.Name, err)
		}
		job.Result = &res
	}
	if len(overrides) > 0 {
		var o encoding.Overrides
		if err := json.Unmarshal(overrides, &o); err != nil {
			return nil, fmt.Errorf("decode overrides of job %q: %w", job.Name, err)
		}
		job.Overrides = &o
	}
	job.ProcessingStartedAt = nullTime(startedAt)
	job.CompletedAt = nullTime(completedAt)
	job.FailedAt = nullTime(failedAt)
	return &job, nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// encodeOverrides maps nil to SQL NULL.
func encodeOverrides(o *encoding.Overrides) (any, error) {
	if o == nil {
		return nil, nil
	}
	return json.Marshal(o)
}
