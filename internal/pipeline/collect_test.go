package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roundnetatlas/atlas-data/internal/config"
	"github.com/roundnetatlas/atlas-data/internal/outscraper"
)

func TestCollectDeduplicatesAcrossSearches(t *testing.T) {
	// Both searches return the same place under place_id; the second also
	// returns a new listing identified only by google_id.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))
		assert.Equal(t, "false", r.URL.Query().Get("async"))

		q := r.URL.Query().Get("query")
		w.Header().Set("Content-Type", "application/json")
		if q == "roundnet club, Germany" {
			fmt.Fprint(w, `{"data": [[
				{"name": "Roundnet Berlin", "place_id": "p1"},
				{"name": "Roundnet München", "place_id": "p2"}
			]]}`)
			return
		}
		fmt.Fprint(w, `{"data": [[
			{"name": "Roundnet Berlin", "place_id": "p1"},
			{"name": "Spikeball Wien", "google_id": "g1"}
		]]}`)
	}))
	defer server.Close()

	client := outscraper.New(server.URL, "test-key", 0, testLogger)
	searches := []config.Search{
		{Query: "roundnet club", Region: "Germany"},
		{Query: "spikeball verein", Region: "Austria"},
	}

	listings, result := Collect(context.Background(), client, searches, 10, testLogger)
	require.Len(t, listings, 3)
	assert.Equal(t, 3, result.Out)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Errors)
}

func TestCollectContinuesAfterFailedQuery(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "upstream timeout", http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"data": [{"name": "Roundnet Zürich", "place_id": "p9"}]}`)
	}))
	defer server.Close()

	client := outscraper.New(server.URL, "test-key", 0, testLogger)
	searches := []config.Search{
		{Query: "roundnet", Region: "Germany"},
		{Query: "roundnet", Region: "Switzerland"},
	}

	listings, result := Collect(context.Background(), client, searches, 10, testLogger)
	require.Len(t, listings, 1)
	assert.Equal(t, "Roundnet Zürich", listings[0].Name)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Germany")
}

func TestCollectSkipsListingsWithoutIdentity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": [[
			{"name": "Named Only Club"},
			{"place_id": "", "google_id": "", "name": ""}
		]]}`)
	}))
	defer server.Close()

	client := outscraper.New(server.URL, "test-key", 0, testLogger)
	listings, result := Collect(context.Background(), client, []config.Search{{Query: "roundnet", Region: "France"}}, 10, testLogger)

	// The named listing falls back to its name as identity; the blank one
	// has none and is dropped.
	require.Len(t, listings, 1)
	assert.Equal(t, "Named Only Club", listings[0].Name)
	assert.Equal(t, 1, result.Skipped)
}
