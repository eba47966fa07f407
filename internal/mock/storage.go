package mock

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/port"
)

// Storage implements port.Storage for tests.
type Storage struct {
	// stored values
	StatInfoOut port.FileInfo
	GetOut      []byte
	URLOut      string

	// captured inputs
	TTL         time.Duration
	SavedBucket string
	SavedKey    string
	SavedData   []byte
	SavedCT     string
	CopiedSrc   string
	CopiedDest  string
	RemovedKeys []string

	// errors
	InitBucketErr           error
	GenerateDownloadLinkErr error
	StatErr                 error
	RemoveErr               error
	GetErr                  error
	SaveErr                 error
	CopyErr                 error

	// call flags
	InitBucketCalled           bool
	GenerateDownloadLinkCalled bool
	StatCalled                 bool
	RemoveCalled               bool
	GetCalled                  bool
	SaveCalled                 bool
	CopyCalled                 bool
}

func (m *Storage) InitBucket(bucket string) error {
	m.InitBucketCalled = true
	return m.InitBucketErr
}

func (m *Storage) GeneratePresignedDownloadURL(ctx context.Context, bucket, fileKey string, expiry time.Duration) (string, error) {
	m.GenerateDownloadLinkCalled = true
	m.TTL = expiry
	if m.GenerateDownloadLinkErr != nil {
		return "", m.GenerateDownloadLinkErr
	}
	if m.URLOut != "" {
		return m.URLOut, nil
	}
	return "https://example.com/" + bucket + "/" + fileKey, nil
}

func (m *Storage) StatFile(ctx context.Context, bucket, fileKey string) (port.FileInfo, error) {
	m.StatCalled = true
	return m.StatInfoOut, m.StatErr
}

func (m *Storage) RemoveFile(ctx context.Context, bucket, fileKey string) error {
	m.RemoveCalled = true
	m.RemovedKeys = append(m.RemovedKeys, bucket+"/"+fileKey)
	return m.RemoveErr
}

func (m *Storage) GetFile(ctx context.Context, bucket, fileKey string) (io.ReadSeekCloser, error) {
	m.GetCalled = true
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return noopRSC{bytes.NewReader(m.GetOut)}, nil
}

func (m *Storage) SaveFile(ctx context.Context, bucket, fileKey string, reader io.Reader, fileSize int64, opts map[string]string) error {
	m.SaveCalled = true
	if m.SaveErr != nil {
		return m.SaveErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.SavedBucket = bucket
	m.SavedKey = fileKey
	m.SavedData = data
	m.SavedCT = opts["Content-Type"]
	return nil
}

func (m *Storage) CopyFile(ctx context.Context, bucket, srcKey, destKey string) error {
	m.CopyCalled = true
	m.CopiedSrc = srcKey
	m.CopiedDest = destKey
	return m.CopyErr
}
