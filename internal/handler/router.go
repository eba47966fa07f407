// Package handler assembles the HTTP routes served by cmd/api, and by
// cmd/worker when the job store is embedded.
package handler

import (
	"github.com/fhuszti/medias-pipeline-go/internal/handler/api"
	"github.com/fhuszti/medias-pipeline-go/internal/middleware"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

type RouterDeps struct {
	Ingester     port.MediaIngester
	Getter       port.JobGetter
	Renderer     port.HTTPRenderer
	APIKey       string
	JWTPublicKey string
}

func NewRouter(d RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.WithAuth(d.APIKey, d.JWTPublicKey))

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	r.Post("/jobs", api.IngestMediaHandler(d.Ingester))
	r.With(middleware.WithJobName()).
		Get("/jobs/{name}", api.GetJobHandler(d.Renderer, d.Getter))

	return r
}
