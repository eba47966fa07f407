package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/fhuszti/medias-pipeline-go/internal/api_context"
	"github.com/fhuszti/medias-pipeline-go/internal/handler/api"
	"github.com/go-chi/chi/v5"
)

// WithJobName reads the {name} route parameter into the request context.
func WithJobName() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name := chi.URLParam(r, "name")
			if name == "" {
				api.WriteError(w, http.StatusBadRequest, "job name is required", nil)
				return
			}
			if strings.ContainsAny(name, "/\\") || len(name) > 512 {
				api.WriteError(w, http.StatusBadRequest, fmt.Sprintf("job name %q is not valid", name), nil)
				return
			}

			ctx := context.WithValue(r.Context(), api_context.JobNameKey, name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
