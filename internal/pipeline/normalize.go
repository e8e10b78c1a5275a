package pipeline

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/roundnetatlas/atlas-data/internal/geo"
	"github.com/roundnetatlas/atlas-data/internal/model"
	"github.com/roundnetatlas/atlas-data/internal/slug"
)

// relevanceKeywords must appear somewhere in a listing's combined text for
// it to be considered a roundnet club at all.
var relevanceKeywords = []string{"roundnet", "spikeball", "spike"}

// legalEntityMarkers in a club name imply an officially registered club.
var legalEntityMarkers = []string{"e.v.", "e. v.", "association"}

const maxPhotos = 5

// Normalize maps each raw listing to zero or one Club: relevance filter,
// country/city resolution, slug generation, social-link classification,
// feature and type inference, then slug dedup (first occurrence wins) and
// a final (country, city, name) sort.
func Normalize(listings []model.RawListing, logger *slog.Logger) ([]model.Club, StageResult) {
	var result StageResult
	result.In = len(listings)

	var clubs []model.Club
	for _, raw := range listings {
		club, ok := normalizeListing(raw)
		if !ok {
			result.Skipped++
			continue
		}
		clubs = append(clubs, club)
	}

	// Dedup by slug, first-by-input-order wins.
	seen := make(map[string]bool, len(clubs))
	unique := clubs[:0]
	for _, club := range clubs {
		if seen[club.Slug] {
			logger.Info("duplicate slug skipped", "slug", club.Slug, "name", club.Name)
			result.Skipped++
			continue
		}
		seen[club.Slug] = true
		unique = append(unique, club)
	}

	sort.Slice(unique, func(i, j int) bool {
		a, b := unique[i], unique[j]
		if a.Country != b.Country {
			return a.Country < b.Country
		}
		if a.City != b.City {
			return a.City < b.City
		}
		return a.Name < b.Name
	})

	result.Out = len(unique)
	return unique, result
}

// normalizeListing converts one raw listing, returning ok=false when the
// listing is irrelevant, has no resolvable country, or slugifies to "".
func normalizeListing(raw model.RawListing) (model.Club, bool) {
	if !isRelevant(raw) {
		return model.Club{}, false
	}

	name := strings.TrimSpace(raw.Name)
	country, code := geo.Resolve(raw.Country, raw.CountryCode)
	if country == "" {
		return model.Club{}, false
	}

	clubSlug := slug.Make(name)
	if clubSlug == "" {
		return model.Club{}, false
	}

	city := extractCity(raw)
	citySlug := ""
	if city != "" {
		citySlug = slug.Make(city)
	}
	countrySlug, ok := geo.CountrySlugByName[country]
	if !ok {
		countrySlug = slug.Make(country)
	}

	website, instagram, facebook := classifySite(raw.Site)

	photos := raw.PhotosSample
	if len(photos) > maxPhotos {
		photos = photos[:maxPhotos]
	}

	return model.Club{
		Name:             name,
		Slug:             clubSlug,
		Description:      strings.TrimSpace(raw.Description),
		Type:             inferType(name),
		Address:          raw.FullAddress,
		City:             city,
		CitySlug:         citySlug,
		Country:          country,
		CountrySlug:      countrySlug,
		CountryCode:      code,
		Flag:             geo.FlagForCode(code),
		Latitude:         raw.Latitude,
		Longitude:        raw.Longitude,
		Website:          website,
		Email:            raw.Email,
		Phone:            raw.Phone,
		Instagram:        instagram,
		Facebook:         facebook,
		Features:         inferFeatures(raw),
		Rating:           raw.Rating,
		ReviewCount:      raw.Reviews,
		Photos:           photos,
		PlaceID:          placeID(raw),
		IsVerified:       false,
		TrainingSchedule: raw.MondayHours(),
	}, true
}

// placeID keeps the external identity for later dedup against the live
// dataset; unlike the collector's dedup key it never falls back to the name.
func placeID(raw model.RawListing) string {
	if raw.PlaceID != "" {
		return raw.PlaceID
	}
	return raw.GoogleID
}

// isRelevant rejects listings that are country names, unnamed, or whose
// combined text never mentions the sport.
func isRelevant(raw model.RawListing) bool {
	name := strings.ToLower(strings.TrimSpace(raw.Name))
	if name == "" || name == "n/a" {
		return false
	}
	if geo.IsCountryName(name) {
		return false
	}

	allText := strings.ToLower(strings.Join([]string{
		name,
		raw.Description,
		raw.Category,
		strings.Join(raw.Subtypes, " "),
	}, " "))
	for _, kw := range relevanceKeywords {
		if strings.Contains(allText, kw) {
			return true
		}
	}
	return false
}

var postalLeading = regexp.MustCompile(`^\d{4,5}`)

// extractCity prefers the explicit city field; otherwise it walks the
// comma-separated address parts and takes the first one that is neither a
// postal-code-leading token, nor a street-style token containing digits,
// nor a country name. Best-effort: address component ordering varies
// across countries.
func extractCity(raw model.RawListing) string {
	city := strings.TrimSpace(raw.City)
	if city != "" && city != "None" {
		return city
	}

	for _, part := range strings.Split(raw.FullAddress, ",") {
		part = strings.TrimSpace(part)
		if part == "" || postalLeading.MatchString(part) {
			continue
		}
		if strings.ContainsAny(part, "0123456789") {
			continue
		}
		if geo.IsCountryName(part) {
			continue
		}
		return part
	}
	return ""
}

// classifySite sorts a single source URL into exactly one of website,
// instagram, or facebook.
func classifySite(site string) (website, instagram, facebook string) {
	switch {
	case site == "":
		return "", "", ""
	case strings.Contains(site, "instagram.com"):
		return "", site, ""
	case strings.Contains(site, "facebook.com"):
		return "", "", site
	default:
		return site, "", ""
	}
}

// inferType marks clubs carrying a legal-entity marker as official.
func inferType(name string) model.ClubType {
	lower := strings.ToLower(name)
	for _, marker := range legalEntityMarkers {
		if strings.Contains(lower, marker) {
			return model.TypeOfficial
		}
	}
	return model.DefaultClubType
}

// inferFeatures scans name+description for fixed substrings. Clubs that
// mention neither indoor nor outdoor default to outdoor.
func inferFeatures(raw model.RawListing) []model.FeatureTag {
	text := strings.ToLower(raw.Name + " " + raw.Description)

	var features []model.FeatureTag
	if strings.Contains(text, "indoor") {
		features = append(features, model.FeatureIndoor)
	}
	if strings.Contains(text, "outdoor") {
		features = append(features, model.FeatureOutdoor)
	}
	if strings.Contains(text, "training") || strings.Contains(text, "treningi") {
		features = append(features, model.FeatureWeeklyMeetups)
	}
	if strings.Contains(text, "beginner") || strings.Contains(text, "anfänger") {
		features = append(features, model.FeatureBeginnerFriendly)
	}
	if strings.Contains(text, "tournament") || strings.Contains(text, "turnier") {
		features = append(features, model.FeatureTournaments)
	}

	if !strings.Contains(text, "indoor") && !strings.Contains(text, "outdoor") {
		features = append(features, model.FeatureOutdoor)
	}
	return features
}

// ByCountry returns club counts grouped by country name, for the summary
// breakdown the collector and normalizer print.
func ByCountry(clubs []model.Club) map[string]int {
	counts := make(map[string]int)
	for _, c := range clubs {
		counts[c.Country]++
	}
	return counts
}
