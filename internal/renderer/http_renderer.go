package renderer

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/port"
)

type httpRenderer struct {
	cache port.Cache
	now   func() time.Time
}

// compile-time check: *httpRenderer must satisfy port.HTTPRenderer
var _ port.HTTPRenderer = (*httpRenderer)(nil)

// NewHTTPRenderer creates a new HTTPRenderer implementation.
func NewHTTPRenderer(cache port.Cache) port.HTTPRenderer {
	return &httpRenderer{cache: cache, now: time.Now}
}

// RenderGetJob fetches job details either from cache or from the wrapped use
// case. It returns the JSON encoded output and a quoted ETag string. Only
// documents that declare a validity window are cached.
func (r *httpRenderer) RenderGetJob(ctx context.Context, getter port.JobGetter, name string) ([]byte, string, error) {
	raw, err := r.cache.GetJobDetails(ctx, name)
	etag, errEtag := r.cache.GetEtagJobDetails(ctx, name)
	if err == nil && errEtag == nil && raw != nil && etag != "" {
		return raw, etag, nil
	}

	out, err := getter.GetJob(ctx, name)
	if err != nil {
		return nil, "", err
	}

	raw, err = json.Marshal(out)
	if err != nil {
		return nil, "", fmt.Errorf("json marshal: %w", err)
	}

	etag = fmt.Sprintf("\"%08x\"", crc32.ChecksumIEEE(raw))
	if out.ValidUntil.After(r.now()) {
		r.cache.SetJobDetails(ctx, name, raw, out.ValidUntil)
		r.cache.SetEtagJobDetails(ctx, name, etag, out.ValidUntil)
	}

	return raw, etag, nil
}
