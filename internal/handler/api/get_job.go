package api

import (
	"errors"
	"net/http"

	"github.com/fhuszti/medias-pipeline-go/internal/api_context"
	"github.com/fhuszti/medias-pipeline-go/internal/logger"
	"github.com/fhuszti/medias-pipeline-go/internal/model"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
)

func GetJobHandler(renderer port.HTTPRenderer, svc port.JobGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, ok := api_context.JobNameFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "job name is required", nil)
			return
		}

		raw, etag, err := renderer.RenderGetJob(r.Context(), svc, name)
		if err != nil {
			if errors.Is(err, model.ErrJobNotFound) {
				WriteRequestError(r, w, http.StatusNotFound, "Job not found", nil)
				return
			}
			WriteRequestError(r, w, http.StatusInternalServerError, "Could not get job details", err)
			return
		}

		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "no-cache")
		if match := r.Header.Get("If-None-Match"); match == etag {
			w.WriteHeader(http.StatusNotModified)
			logger.Debugf(r.Context(), "✅  Returning cached job %q", name)
			return
		}

		RespondRawJSON(w, http.StatusOK, raw)
		logger.Debugf(r.Context(), "✅  Returned details for job %q", name)
	}
}
