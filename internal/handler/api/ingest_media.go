package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fhuszti/medias-pipeline-go/internal/api_context"
	"github.com/fhuszti/medias-pipeline-go/internal/logger"
	"github.com/fhuszti/medias-pipeline-go/internal/model"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
	"github.com/fhuszti/medias-pipeline-go/internal/validation"
)

// IngestMediaHandler registers an uploaded artifact and queues its first attempt.
func IngestMediaHandler(svc port.MediaIngester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req port.IngestMediaInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteRequestError(r, w, http.StatusBadRequest, "invalid request payload", err)
			return
		}

		if errs := validation.ValidateStruct(req); errs != nil {
			errsJSON, err := validation.ErrorsToJson(errs)
			if err != nil {
				WriteRequestError(r, w, http.StatusInternalServerError, "failed to encode validation errors", err)
				return
			}
			RespondRawJSON(w, http.StatusBadRequest, []byte(errsJSON))
			logger.Warnf(r.Context(), "❌  Validation failed: %s", errsJSON)
			return
		}

		ctx := context.WithValue(r.Context(), api_context.JobNameKey, req.Name)
		r = r.WithContext(ctx)

		out, err := svc.IngestMedia(ctx, req)
		switch {
		case err == nil:
		case errors.Is(err, model.ErrValidation):
			WriteRequestError(r, w, http.StatusBadRequest, err.Error(), nil)
			return
		case errors.Is(err, model.ErrJobAlreadyExists):
			WriteRequestError(r, w, http.StatusConflict, fmt.Sprintf("job %q already exists", req.Name), nil)
			return
		case errors.Is(err, model.ErrQueueUnavailable), errors.Is(err, model.ErrStoreUnavailable):
			WriteRequestError(r, w, http.StatusServiceUnavailable, "could not accept the job right now", err)
			return
		default:
			WriteRequestError(r, w, http.StatusInternalServerError, fmt.Sprintf("could not ingest %q", req.Name), err)
			return
		}

		RespondJSON(w, http.StatusAccepted, out)
		logger.Infof(ctx, "✅  Accepted job %q with %s priority", out.Name, out.Priority)
	}
}
