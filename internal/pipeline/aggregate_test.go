package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roundnetatlas/atlas-data/internal/model"
)

func testClub(name, country, countrySlug, city, citySlug string) model.Club {
	return model.Club{
		Name:        name,
		Slug:        name,
		Country:     country,
		CountrySlug: countrySlug,
		City:        city,
		CitySlug:    citySlug,
		Type:        model.TypeCommunity,
	}
}

func TestAggregateCounts(t *testing.T) {
	lat := 48.2
	clubs := []model.Club{
		testClub("a", "Austria", "austria", "Vienna", "vienna"),
		testClub("b", "Austria", "austria", "Vienna", "vienna"),
		testClub("c", "Austria", "austria", "Graz", "graz"),
		testClub("d", "Germany", "germany", "Berlin", "berlin"),
		testClub("e", "Germany", "germany", "", ""), // no city: counted for the country only
	}
	clubs[0].Latitude = &lat

	countries, cities := Aggregate(clubs)
	require.Len(t, countries, 2)
	require.Len(t, cities, 3)

	assert.Equal(t, "Austria", countries[0].Name)
	assert.Equal(t, 3, countries[0].ClubCount)
	assert.Equal(t, 2, countries[0].CityCount)

	assert.Equal(t, "Germany", countries[1].Name)
	assert.Equal(t, 2, countries[1].ClubCount)
	assert.Equal(t, 1, countries[1].CityCount)

	vienna := cities[1]
	assert.Equal(t, "vienna", vienna.Slug)
	assert.Equal(t, 2, vienna.ClubCount)
	require.NotNil(t, vienna.Latitude)
	assert.Equal(t, lat, *vienna.Latitude) // first club seen in group
}

func TestAggregateConsistency(t *testing.T) {
	clubs := []model.Club{
		testClub("a", "Austria", "austria", "Vienna", "vienna"),
		testClub("b", "Germany", "germany", "Berlin", "berlin"),
		testClub("c", "Germany", "germany", "Berlin", "berlin"),
		testClub("d", "Germany", "germany", "Hamburg", "hamburg"),
		{Name: "no-country", Slug: "no-country"}, // excluded from aggregation
	}

	countries, _ := Aggregate(clubs)

	withCountry := 0
	for _, c := range clubs {
		if c.CountrySlug != "" {
			withCountry++
		}
	}
	total := 0
	for _, c := range countries {
		total += c.ClubCount
	}
	assert.Equal(t, withCountry, total)

	for _, country := range countries {
		distinct := make(map[string]bool)
		for _, c := range clubs {
			if c.CountrySlug == country.Slug && c.CitySlug != "" && c.City != "" {
				distinct[c.CitySlug] = true
			}
		}
		assert.Equal(t, len(distinct), country.CityCount, "cityCount for %s", country.Slug)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	clubs := []model.Club{
		testClub("a", "Austria", "austria", "Vienna", "vienna"),
		testClub("b", "Germany", "germany", "Berlin", "berlin"),
	}

	c1, ci1 := Aggregate(clubs)
	c2, ci2 := Aggregate(clubs)
	assert.Equal(t, c1, c2)
	assert.Equal(t, ci1, ci2)
}

func TestAggregateEmpty(t *testing.T) {
	countries, cities := Aggregate(nil)
	assert.Empty(t, countries)
	assert.Empty(t, cities)
}
