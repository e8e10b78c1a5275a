// Package handler provides HTTP handlers for the preview API. The dataset
// is loaded once at startup; collection responses are pre-marshaled, so
// handlers pass raw bytes through.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roundnetatlas/atlas-data/internal/api/respond"
	"github.com/roundnetatlas/atlas-data/internal/dataset"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	ds *dataset.Dataset
}

// New creates a Handler over a loaded dataset.
func New(ds *dataset.Dataset) *Handler {
	return &Handler{ds: ds}
}

// Root serves API info at /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Roundnet Atlas Data API",
		"version": "1.0.0",
		"status":  "running",
		"counts": map[string]int{
			"countries": h.ds.Countries.Len,
			"cities":    h.ds.Cities.Len,
			"clubs":     h.ds.Clubs.Len,
		},
	})
}

// HealthCheck reports liveness.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetCountries serves the country collection.
func (h *Handler) GetCountries(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, r, h.ds.Countries.JSON, h.ds.Countries.ETag)
}

// GetCities serves the city collection.
func (h *Handler) GetCities(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, r, h.ds.Cities.JSON, h.ds.Cities.ETag)
}

// GetClubs serves the club collection.
func (h *Handler) GetClubs(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, r, h.ds.Clubs.JSON, h.ds.Clubs.ETag)
}

// GetClub serves a single club by slug.
func (h *Handler) GetClub(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	club, ok := h.ds.Club(slug)
	if !ok {
		respond.WriteError(w, http.StatusNotFound, "club_not_found", "no club with slug "+slug)
		return
	}
	data, err := json.Marshal(club)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	respond.WriteJSON(w, r, data, dataset.ComputeETag(data))
}
