// Package publish upserts the final dataset into the consuming app's
// Postgres database, keyed on slugs so re-publishing the same dataset is
// idempotent.
package publish

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roundnetatlas/atlas-data/internal/model"
	"github.com/roundnetatlas/atlas-data/internal/pipeline"
)

const (
	countriesTable = "countries"
	citiesTable    = "cities"
	clubsTable     = "clubs"
)

// Dataset upserts countries, then cities, then clubs. Per-row failures are
// collected into the result; one bad row never aborts the batch.
func Dataset(ctx context.Context, pool *pgxpool.Pool, ds model.Dataset, logger *slog.Logger) pipeline.StageResult {
	var result pipeline.StageResult
	result.In = len(ds.Countries) + len(ds.Cities) + len(ds.Clubs)

	logger.Info("publishing countries", "count", len(ds.Countries))
	for _, c := range ds.Countries {
		if err := upsertCountry(ctx, pool, c); err != nil {
			result.AddErrorf("upsert country %s: %v", c.Slug, err)
		} else {
			result.Out++
		}
	}

	logger.Info("publishing cities", "count", len(ds.Cities))
	for _, c := range ds.Cities {
		if err := upsertCity(ctx, pool, c); err != nil {
			result.AddErrorf("upsert city %s/%s: %v", c.CountrySlug, c.Slug, err)
		} else {
			result.Out++
		}
	}

	logger.Info("publishing clubs", "count", len(ds.Clubs))
	for _, c := range ds.Clubs {
		if err := upsertClub(ctx, pool, c); err != nil {
			result.AddErrorf("upsert club %s: %v", c.Slug, err)
		} else {
			result.Out++
		}
	}

	logger.Info("publish complete", "summary", result.Summary())
	return result
}

func upsertCountry(ctx context.Context, pool *pgxpool.Pool, c model.Country) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO `+countriesTable+` (slug, name, code, flag, club_count, city_count)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			code = EXCLUDED.code,
			flag = EXCLUDED.flag,
			club_count = EXCLUDED.club_count,
			city_count = EXCLUDED.city_count,
			updated_at = NOW()`,
		c.Slug, c.Name, nilEmpty(c.Code), nilEmpty(c.Flag), c.ClubCount, c.CityCount,
	)
	return err
}

func upsertCity(ctx context.Context, pool *pgxpool.Pool, c model.City) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO `+citiesTable+` (slug, country_slug, name, club_count, latitude, longitude)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (slug, country_slug) DO UPDATE SET
			name = EXCLUDED.name,
			club_count = EXCLUDED.club_count,
			latitude = COALESCE(EXCLUDED.latitude, `+citiesTable+`.latitude),
			longitude = COALESCE(EXCLUDED.longitude, `+citiesTable+`.longitude),
			updated_at = NOW()`,
		c.Slug, c.CountrySlug, nilEmpty(c.Name), c.ClubCount, c.Latitude, c.Longitude,
	)
	return err
}

func upsertClub(ctx context.Context, pool *pgxpool.Pool, c model.Club) error {
	features := make([]string, len(c.Features))
	for i, f := range c.Features {
		features[i] = string(f)
	}
	_, err := pool.Exec(ctx, `
		INSERT INTO `+clubsTable+` (
			slug, name, description, type, address, city, city_slug,
			country, country_slug, country_code, latitude, longitude,
			website, email, phone, instagram, facebook, features,
			rating, review_count, place_id, is_verified,
			member_count, founded_year, training_schedule
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			description = COALESCE(EXCLUDED.description, `+clubsTable+`.description),
			type = EXCLUDED.type,
			address = COALESCE(EXCLUDED.address, `+clubsTable+`.address),
			city = COALESCE(EXCLUDED.city, `+clubsTable+`.city),
			city_slug = COALESCE(EXCLUDED.city_slug, `+clubsTable+`.city_slug),
			country = EXCLUDED.country,
			country_slug = EXCLUDED.country_slug,
			country_code = COALESCE(EXCLUDED.country_code, `+clubsTable+`.country_code),
			latitude = COALESCE(EXCLUDED.latitude, `+clubsTable+`.latitude),
			longitude = COALESCE(EXCLUDED.longitude, `+clubsTable+`.longitude),
			website = COALESCE(EXCLUDED.website, `+clubsTable+`.website),
			email = COALESCE(EXCLUDED.email, `+clubsTable+`.email),
			phone = COALESCE(EXCLUDED.phone, `+clubsTable+`.phone),
			instagram = COALESCE(EXCLUDED.instagram, `+clubsTable+`.instagram),
			facebook = COALESCE(EXCLUDED.facebook, `+clubsTable+`.facebook),
			features = EXCLUDED.features,
			rating = COALESCE(EXCLUDED.rating, `+clubsTable+`.rating),
			review_count = COALESCE(EXCLUDED.review_count, `+clubsTable+`.review_count),
			place_id = COALESCE(EXCLUDED.place_id, `+clubsTable+`.place_id),
			is_verified = EXCLUDED.is_verified,
			member_count = COALESCE(EXCLUDED.member_count, `+clubsTable+`.member_count),
			founded_year = COALESCE(EXCLUDED.founded_year, `+clubsTable+`.founded_year),
			training_schedule = COALESCE(EXCLUDED.training_schedule, `+clubsTable+`.training_schedule),
			last_scraped_at = NOW(),
			updated_at = NOW()`,
		c.Slug, c.Name, nilEmpty(c.Description), string(c.Type), nilEmpty(c.Address),
		nilEmpty(c.City), nilEmpty(c.CitySlug), c.Country, c.CountrySlug,
		nilEmpty(c.CountryCode), c.Latitude, c.Longitude,
		nilEmpty(c.Website), nilEmpty(c.Email), nilEmpty(c.Phone),
		nilEmpty(c.Instagram), nilEmpty(c.Facebook), features,
		c.Rating, c.ReviewCount, nilEmpty(c.PlaceID), c.IsVerified,
		c.MemberCount, c.FoundedYear, nilEmpty(c.TrainingSchedule),
	)
	return err
}

// nilEmpty maps "" to SQL NULL so sparse fields stay null in the database.
func nilEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
