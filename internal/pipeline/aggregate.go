package pipeline

import (
	"sort"

	"github.com/roundnetatlas/atlas-data/internal/model"
)

// Aggregate fully recomputes the Country and City summaries from the club
// collection. Countries aggregate every club with a country slug; cities
// additionally require a city slug. Display fields and coordinates are
// inherited from the first club seen in each group. Safe to re-run any
// number of times over the same input.
func Aggregate(clubs []model.Club) ([]model.Country, []model.City) {
	countries := make(map[string]*model.Country)
	citySets := make(map[string]map[string]bool)
	cities := make(map[[2]string]*model.City)

	var countryOrder []string
	var cityOrder [][2]string

	for _, club := range clubs {
		if club.CountrySlug == "" {
			continue
		}

		country, ok := countries[club.CountrySlug]
		if !ok {
			country = &model.Country{
				Slug: club.CountrySlug,
				Name: club.Country,
				Code: club.CountryCode,
				Flag: club.Flag,
			}
			countries[club.CountrySlug] = country
			citySets[club.CountrySlug] = make(map[string]bool)
			countryOrder = append(countryOrder, club.CountrySlug)
		}
		country.ClubCount++
		if club.CitySlug != "" && club.City != "" {
			citySets[club.CountrySlug][club.CitySlug] = true
		}

		if club.CitySlug == "" {
			continue
		}
		key := [2]string{club.CountrySlug, club.CitySlug}
		city, ok := cities[key]
		if !ok {
			city = &model.City{
				Slug:        club.CitySlug,
				Name:        club.City,
				CountrySlug: club.CountrySlug,
				Latitude:    club.Latitude,
				Longitude:   club.Longitude,
			}
			cities[key] = city
			cityOrder = append(cityOrder, key)
		}
		city.ClubCount++
	}

	countryList := make([]model.Country, 0, len(countryOrder))
	for _, slug := range countryOrder {
		c := countries[slug]
		c.CityCount = len(citySets[slug])
		countryList = append(countryList, *c)
	}
	sort.Slice(countryList, func(i, j int) bool { return countryList[i].Name < countryList[j].Name })

	cityList := make([]model.City, 0, len(cityOrder))
	for _, key := range cityOrder {
		cityList = append(cityList, *cities[key])
	}
	sort.Slice(cityList, func(i, j int) bool {
		a, b := cityList[i], cityList[j]
		if a.CountrySlug != b.CountrySlug {
			return a.CountrySlug < b.CountrySlug
		}
		return a.Slug < b.Slug
	})

	return countryList, cityList
}
