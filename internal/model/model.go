// Package model defines the entities flowing through the pipeline:
// raw search listings, canonical clubs, and the country/city aggregates
// derived from them. All values are produced by one stage and consumed
// read-only by the next.
package model

import "encoding/json"

// ClubType classifies how a club is organized.
type ClubType string

const (
	TypeOfficial     ClubType = "official"
	TypeCommunity    ClubType = "community"
	TypeUniversity   ClubType = "university"
	TypeRecreational ClubType = "recreational"
)

// DefaultClubType is used whenever a type is missing or unrecognized.
const DefaultClubType = TypeCommunity

// KnownClubTypes is the enumeration accepted by the consuming app.
var KnownClubTypes = map[ClubType]bool{
	TypeOfficial:     true,
	TypeCommunity:    true,
	TypeUniversity:   true,
	TypeRecreational: true,
}

// FeatureTag is one value from the fixed feature enumeration.
type FeatureTag string

const (
	FeatureBeginnerFriendly     FeatureTag = "beginner_friendly"
	FeatureEquipmentProvided    FeatureTag = "equipment_provided"
	FeatureIndoor               FeatureTag = "indoor"
	FeatureOutdoor              FeatureTag = "outdoor"
	FeatureCoaching             FeatureTag = "coaching"
	FeatureTournaments          FeatureTag = "tournaments"
	FeatureWeeklyMeetups        FeatureTag = "weekly_meetups"
	FeatureYouthProgram         FeatureTag = "youth_program"
	FeatureWheelchairAccessible FeatureTag = "wheelchair_accessible"
)

// KnownFeatures is the enumeration accepted by the consuming app.
// Tags outside this set are dropped at export.
var KnownFeatures = map[FeatureTag]bool{
	FeatureBeginnerFriendly:     true,
	FeatureEquipmentProvided:    true,
	FeatureIndoor:               true,
	FeatureOutdoor:              true,
	FeatureCoaching:             true,
	FeatureTournaments:          true,
	FeatureWeeklyMeetups:        true,
	FeatureYouthProgram:         true,
	FeatureWheelchairAccessible: true,
}

// RawListing is an unprocessed maps-search result. Field names follow the
// search API's JSON. Ephemeral: exists only between collection and
// normalization.
type RawListing struct {
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Category     string          `json:"category,omitempty"`
	Subtypes     []string        `json:"subtypes,omitempty"`
	FullAddress  string          `json:"full_address,omitempty"`
	City         string          `json:"city,omitempty"`
	Country      string          `json:"country,omitempty"`
	CountryCode  string          `json:"country_code,omitempty"`
	Latitude     *float64        `json:"latitude,omitempty"`
	Longitude    *float64        `json:"longitude,omitempty"`
	Site         string          `json:"site,omitempty"`
	Email        string          `json:"email,omitempty"`
	Phone        string          `json:"phone,omitempty"`
	Rating       *float64        `json:"rating,omitempty"`
	Reviews      *int            `json:"reviews,omitempty"`
	PhotosSample []string        `json:"photos_sample,omitempty"`
	PlaceID      string          `json:"place_id,omitempty"`
	GoogleID     string          `json:"google_id,omitempty"`
	WorkingHours json.RawMessage `json:"working_hours,omitempty"`
}

// DedupKey returns the priority-ordered identity used by the collector:
// place id, else generic id, else listing name.
func (l RawListing) DedupKey() string {
	if l.PlaceID != "" {
		return l.PlaceID
	}
	if l.GoogleID != "" {
		return l.GoogleID
	}
	return l.Name
}

// MondayHours extracts the Monday entry from the listing's working hours,
// when the API returned them as a day-to-string object. Any other shape
// yields "".
func (l RawListing) MondayHours() string {
	if len(l.WorkingHours) == 0 {
		return ""
	}
	var hours map[string]string
	if err := json.Unmarshal(l.WorkingHours, &hours); err != nil {
		return ""
	}
	return hours["Monday"]
}

// WebsiteVerification records the outcome of a single website check.
type WebsiteVerification struct {
	URL         string `json:"url"`
	Status      string `json:"status"` // "active" | "error"
	IsRelevant  bool   `json:"isRelevant"`
	Title       string `json:"title,omitempty"`
	HasContact  bool   `json:"hasContact,omitempty"`
	HasSchedule bool   `json:"hasSchedule,omitempty"`
	Content     string `json:"content,omitempty"` // page text, truncated for enrichment prompts
	Error       string `json:"error,omitempty"`
}

// VerifiedImage is a photo that passed vision classification.
type VerifiedImage struct {
	URL         string `json:"url"`
	ImageType   string `json:"imageType,omitempty"`
	Quality     int    `json:"quality"`
	Description string `json:"description,omitempty"`
}

// Club is the canonical entity. Optional fields are encoded sparsely:
// empty values are omitted from checkpoints and exports rather than
// serialized as nulls.
type Club struct {
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description,omitempty"`
	Type        ClubType `json:"type"`
	Address     string   `json:"address,omitempty"`
	City        string   `json:"city,omitempty"`
	CitySlug    string   `json:"citySlug,omitempty"`
	Country     string   `json:"country"`
	CountrySlug string   `json:"countrySlug"`
	CountryCode string   `json:"countryCode,omitempty"`
	Flag        string   `json:"flag,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`

	Website   string `json:"website,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`

	Features    []FeatureTag `json:"features,omitempty"`
	Rating      *float64     `json:"rating,omitempty"`
	ReviewCount *int         `json:"reviewCount,omitempty"`
	Photos      []string     `json:"photos,omitempty"`
	PlaceID     string       `json:"placeId,omitempty"`
	IsVerified  bool         `json:"isVerified"`

	// Filled by enrichment only.
	MemberCount      *int     `json:"memberCount,omitempty"`
	FoundedYear      *int     `json:"foundedYear,omitempty"`
	TrainingSchedule string   `json:"trainingSchedule,omitempty"`
	ContactPerson    string   `json:"contactPerson,omitempty"`
	Languages        []string `json:"languages,omitempty"`
	Level            string   `json:"level,omitempty"`
	Equipment        string   `json:"equipment,omitempty"`
	Pricing          string   `json:"pricing,omitempty"`

	// Filled by the verifier / image classifier.
	WebsiteVerified     *bool                `json:"websiteVerified,omitempty"`
	WebsiteVerification *WebsiteVerification `json:"websiteVerification,omitempty"`
	VerifiedImages      []VerifiedImage      `json:"verifiedImages,omitempty"`
}

// HasFeature reports whether the club carries the given tag.
func (c Club) HasFeature(tag FeatureTag) bool {
	for _, f := range c.Features {
		if f == tag {
			return true
		}
	}
	return false
}

// Country is an aggregate keyed by slug, fully recomputed from the club
// collection at aggregation time.
type Country struct {
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	Code      string `json:"code,omitempty"`
	Flag      string `json:"flag,omitempty"`
	ClubCount int    `json:"clubCount"`
	CityCount int    `json:"cityCount"`
}

// City is an aggregate keyed by (countrySlug, slug). Coordinates are
// inherited from the first club seen in the group.
type City struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name,omitempty"`
	CountrySlug string   `json:"countrySlug"`
	ClubCount   int      `json:"clubCount"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// Dataset bundles the three exported collections.
type Dataset struct {
	Countries []Country
	Cities    []City
	Clubs     []Club
}
