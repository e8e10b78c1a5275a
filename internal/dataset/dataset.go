// Package dataset loads the exported collections for the preview API.
// The data is immutable for the lifetime of the process; responses and
// ETags are precomputed once at load.
package dataset

import (
	"crypto/md5"
	"encoding/json"
	"fmt"

	"github.com/roundnetatlas/atlas-data/internal/checkpoint"
	"github.com/roundnetatlas/atlas-data/internal/model"
)

// Collection is one pre-marshaled response body with its ETag.
type Collection struct {
	JSON []byte
	ETag string
	Len  int
}

// Dataset holds the three exported collections plus per-club lookups.
type Dataset struct {
	Countries Collection
	Cities    Collection
	Clubs     Collection

	clubsBySlug map[string]model.Club
}

// Load reads the final checkpoints from dataDir. All three files must
// exist; run the aggregate stage first.
func Load(dataDir string) (*Dataset, error) {
	countries, err := checkpoint.Read[[]model.Country](checkpoint.Path(dataDir, checkpoint.FinalCountriesFile))
	if err != nil {
		return nil, err
	}
	cities, err := checkpoint.Read[[]model.City](checkpoint.Path(dataDir, checkpoint.FinalCitiesFile))
	if err != nil {
		return nil, err
	}
	clubs, err := checkpoint.Read[[]model.Club](checkpoint.Path(dataDir, checkpoint.FinalClubsFile))
	if err != nil {
		return nil, err
	}

	ds := &Dataset{clubsBySlug: make(map[string]model.Club, len(clubs))}
	if ds.Countries, err = makeCollection(countries, len(countries)); err != nil {
		return nil, err
	}
	if ds.Cities, err = makeCollection(cities, len(cities)); err != nil {
		return nil, err
	}
	if ds.Clubs, err = makeCollection(clubs, len(clubs)); err != nil {
		return nil, err
	}
	for _, c := range clubs {
		ds.clubsBySlug[c.Slug] = c
	}
	return ds, nil
}

// Club looks up a single club by slug.
func (d *Dataset) Club(slug string) (model.Club, bool) {
	c, ok := d.clubsBySlug[slug]
	return c, ok
}

func makeCollection(v any, n int) (Collection, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Collection{}, fmt.Errorf("encode collection: %w", err)
	}
	return Collection{JSON: data, ETag: ComputeETag(data), Len: n}, nil
}

// ComputeETag generates a weak ETag from response data using MD5.
func ComputeETag(data []byte) string {
	hash := md5.Sum(data)
	return fmt.Sprintf(`W/"%x"`, hash[:8])
}
