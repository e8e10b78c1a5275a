package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roundnetatlas/atlas-data/internal/config"
	"github.com/roundnetatlas/atlas-data/internal/model"
	"github.com/roundnetatlas/atlas-data/internal/outscraper"
)

// Collect runs every configured search against the maps-search API and
// merges the results, deduplicating by place identity (first occurrence
// wins). A failed query logs and contributes nothing; the remaining
// queries still run.
func Collect(ctx context.Context, client *outscraper.Client, searches []config.Search, limit int, logger *slog.Logger) ([]model.RawListing, StageResult) {
	var result StageResult
	result.In = len(searches)

	seen := make(map[string]bool)
	var listings []model.RawListing

	for i, s := range searches {
		logger.Info("searching", "query", s.Query, "region", s.Region, "progress", progress(i+1, len(searches)))

		found, err := client.Search(ctx, s.Query, s.Region, limit)
		if err != nil {
			result.AddErrorf("search %q in %q: %v", s.Query, s.Region, err)
			logger.Error("search failed", "query", s.Query, "region", s.Region, "error", err)
			continue
		}
		logger.Info("search done", "query", s.Query, "region", s.Region, "results", len(found))

		for _, l := range found {
			key := l.DedupKey()
			if key == "" || seen[key] {
				result.Skipped++
				continue
			}
			seen[key] = true
			listings = append(listings, l)
		}
	}

	result.Out = len(listings)
	return listings, result
}

func progress(i, n int) string {
	return fmt.Sprintf("%d/%d", i, n)
}
