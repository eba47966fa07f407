package mock

import (
	"context"
	"time"
)

// Cache implements port.Cache for tests.
type Cache struct {
	// stored values
	JobOut  []byte
	EtagJob string

	// captured inputs
	ValidUntil time.Time

	// errors
	GetJobErr     error
	GetEtagJobErr error
	DelJobErr     error
	DelEtagJobErr error

	// call flags
	GetJobCalled     bool
	GetEtagJobCalled bool
	SetJobCalled     bool
	SetEtagJobCalled bool
	DelJobCalled     bool
	DelEtagJobCalled bool
}

func (c *Cache) GetJobDetails(ctx context.Context, name string) ([]byte, error) {
	c.GetJobCalled = true
	if c.GetJobErr != nil {
		return nil, c.GetJobErr
	}
	return c.JobOut, nil
}

func (c *Cache) GetEtagJobDetails(ctx context.Context, name string) (string, error) {
	c.GetEtagJobCalled = true
	if c.GetEtagJobErr != nil {
		return "", c.GetEtagJobErr
	}
	return c.EtagJob, nil
}

func (c *Cache) SetJobDetails(ctx context.Context, name string, data []byte, validUntil time.Time) {
	c.SetJobCalled = true
	c.JobOut = data
	c.ValidUntil = validUntil
}

func (c *Cache) SetEtagJobDetails(ctx context.Context, name string, etag string, validUntil time.Time) {
	c.SetEtagJobCalled = true
	c.EtagJob = etag
}

func (c *Cache) DeleteJobDetails(ctx context.Context, name string) error {
	c.DelJobCalled = true
	return c.DelJobErr
}

func (c *Cache) DeleteEtagJobDetails(ctx context.Context, name string) error {
	c.DelEtagJobCalled = true
	return c.DelEtagJobErr
}
