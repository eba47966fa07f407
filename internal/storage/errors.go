package storage

import (
	"errors"
	"fmt"

	"github.com/fhuszti/medias-pipeline-go/internal/usecase/media"
	"github.com/minio/minio-go/v7"
)

func mapMinioErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, media.ErrObjectNotFound) || errors.Is(err, media.ErrBucketNotFound) {
		return err
	}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchObject":
		return media.ErrObjectNotFound
	case "NoSuchBucket":
		return media.ErrBucketNotFound
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return media.ErrUnauthorized
	default:
		return fmt.Errorf("%w: %v", media.ErrInternal, err)
	}
}
