// Package checkpoint reads and writes the JSON artifacts that chain the
// pipeline stages together. Each stage consumes exactly one checkpoint and
// produces exactly one, so any stage can be re-run in isolation.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Stage output paths, relative to the configured data directory.
const (
	RawFile      = "raw/listings.json"
	CleanedFile  = "cleaned/clubs.json"
	VerifiedFile = "verified/clubs.json"
	EnrichedFile = "enriched/clubs.json"
	ImagesFile   = "images/clubs.json"
	FeaturesFile = "features/clubs.json"

	FinalClubsFile     = "final/clubs.json"
	FinalCitiesFile    = "final/cities.json"
	FinalCountriesFile = "final/countries.json"
)

// Path joins the data directory with a checkpoint file name.
func Path(dataDir, file string) string {
	return filepath.Join(dataDir, filepath.FromSlash(file))
}

// Exists reports whether a checkpoint file is present.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Read loads one JSON checkpoint. A missing file is reported as an error;
// callers treat it as fatal for the stage invocation.
func Read[T any](path string) (T, error) {
	var out T
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return out, fmt.Errorf("input checkpoint %s not found; run the previous stage first", path)
	}
	if err != nil {
		return out, fmt.Errorf("read checkpoint %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode checkpoint %s: %w", path, err)
	}
	return out, nil
}

// Write serializes v as indented UTF-8 JSON and writes it in a single
// write, creating parent directories as needed.
func Write(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode checkpoint %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create checkpoint dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write checkpoint %s: %w", path, err)
	}
	return nil
}
