package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/roundnetatlas/atlas-data/internal/model"
)

// Validate applies the export-time schema pass: feature tags outside the
// recognized set are dropped and unrecognized types are coerced to the
// default. Returns a new slice; input records are not mutated.
func Validate(clubs []model.Club) []model.Club {
	out := make([]model.Club, len(clubs))
	for i, club := range clubs {
		if !model.KnownClubTypes[club.Type] {
			club.Type = model.DefaultClubType
		}
		var features []model.FeatureTag
		for _, f := range club.Features {
			if model.KnownFeatures[f] {
				features = append(features, f)
			}
		}
		club.Features = features
		out[i] = club
	}
	return out
}

// Export serializes the three collections into the TypeScript data module
// the web app imports. The generated file is named distinctly from
// hand-authored data files so manual edits are never silently overwritten.
func Export(ds model.Dataset, now time.Time) ([]byte, error) {
	if ds.Countries == nil {
		ds.Countries = []model.Country{}
	}
	if ds.Cities == nil {
		ds.Cities = []model.City{}
	}
	if ds.Clubs == nil {
		ds.Clubs = []model.Club{}
	}

	countries, err := encodeTS(ds.Countries)
	if err != nil {
		return nil, fmt.Errorf("encode countries: %w", err)
	}
	cities, err := encodeTS(ds.Cities)
	if err != nil {
		return nil, fmt.Errorf("encode cities: %w", err)
	}
	clubs, err := encodeTS(Validate(ds.Clubs))
	if err != nil {
		return nil, fmt.Errorf("encode clubs: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Auto-generated from the scraping pipeline. Do not edit by hand.\n")
	fmt.Fprintf(&buf, "// Generated: %s\n", now.Format(time.RFC3339))
	fmt.Fprintf(&buf, "// Total: %d countries, %d cities, %d clubs\n\n",
		len(ds.Countries), len(ds.Cities), len(ds.Clubs))
	fmt.Fprintf(&buf, "import type { Country, City, Club } from './schemas';\n\n")
	fmt.Fprintf(&buf, "export const scrapedCountries: Country[] = %s;\n\n", countries)
	fmt.Fprintf(&buf, "export const scrapedCities: City[] = %s;\n\n", cities)
	fmt.Fprintf(&buf, "export const scrapedClubs: Club[] = %s;\n", clubs)
	return buf.Bytes(), nil
}

// encodeTS marshals v as indented JSON without HTML escaping, suitable for
// embedding in a TypeScript source file.
func encodeTS(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
