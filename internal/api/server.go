// Package api assembles the chi router for the preview API.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"

	"github.com/roundnetatlas/atlas-data/internal/api/handler"
	"github.com/roundnetatlas/atlas-data/internal/config"
	"github.com/roundnetatlas/atlas-data/internal/dataset"
)

// NewRouter creates and configures the chi router with all middleware and
// routes.
func NewRouter(ds *dataset.Dataset, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5)) // gzip

	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"Link", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	h := handler.New(ds)

	r.Get("/", h.Root)
	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/countries", h.GetCountries)
		r.Get("/cities", h.GetCities)
		r.Get("/clubs", h.GetClubs)
		r.Get("/clubs/{slug}", h.GetClub)
	})

	return r
}
