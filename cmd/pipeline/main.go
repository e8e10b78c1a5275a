// Command pipeline is the Roundnet Atlas data pipeline CLI.
//
// Each subcommand runs one stage over the previous stage's checkpoint:
//
//	atlas-pipeline collect      # maps-search API -> data/raw
//	atlas-pipeline normalize    # data/raw -> data/cleaned
//	atlas-pipeline verify       # data/cleaned -> data/verified
//	atlas-pipeline enrich       # data/verified -> data/enriched
//	atlas-pipeline images       # data/enriched -> data/images
//	atlas-pipeline features     # data/images -> data/features
//	atlas-pipeline aggregate    # data/features -> data/final
//	atlas-pipeline export       # data/final -> lib/data/scraped-data.ts
//	atlas-pipeline publish      # data/final -> Postgres
//	atlas-pipeline run          # collect through export in sequence
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/roundnetatlas/atlas-data/internal/anthropic"
	"github.com/roundnetatlas/atlas-data/internal/checkpoint"
	"github.com/roundnetatlas/atlas-data/internal/config"
	"github.com/roundnetatlas/atlas-data/internal/crawler"
	"github.com/roundnetatlas/atlas-data/internal/db"
	"github.com/roundnetatlas/atlas-data/internal/model"
	"github.com/roundnetatlas/atlas-data/internal/outscraper"
	"github.com/roundnetatlas/atlas-data/internal/pipeline"
	"github.com/roundnetatlas/atlas-data/internal/publish"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "atlas-pipeline",
		Short: "Roundnet club directory scraping pipeline",
	}

	root.AddCommand(
		stageCmd("collect", "Query the maps-search API and write raw listings", runCollect),
		stageCmd("normalize", "Clean raw listings into canonical clubs", runNormalize),
		stageCmd("verify", "Check club websites for liveness and relevance", runVerify),
		stageCmd("enrich", "Infer soft attributes via the language model", runEnrich),
		stageCmd("images", "Screen club photos via the vision model", runImages),
		stageCmd("features", "Recompute standardized feature tags", runFeatures),
		stageCmd("aggregate", "Derive country and city summaries", runAggregate),
		stageCmd("export", "Generate the TypeScript data module", runExport),
		stageCmd("publish", "Upsert the final dataset into Postgres", runPublish),
		stageCmd("run", "Run collect through export in sequence", runAll),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// stageCmd wraps a stage function with config loading and signal handling.
func stageCmd(use, short string, fn func(ctx context.Context, cfg *config.Config) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			start := time.Now()
			if err := fn(ctx, cfg); err != nil {
				logger.Error("stage failed", "stage", use, "error", err)
				return err
			}
			logger.Info("stage finished", "stage", use, "duration", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}

// --------------------------------------------------------------------------
// Stages
// --------------------------------------------------------------------------

func runCollect(ctx context.Context, cfg *config.Config) error {
	if cfg.OutscraperAPIKey == "" {
		return fmt.Errorf("OUTSCRAPER_API_KEY is required")
	}
	client := outscraper.New(cfg.OutscraperBaseURL, cfg.OutscraperAPIKey, cfg.SearchPause, logger)

	listings, result := pipeline.Collect(ctx, client, config.Searches, cfg.SearchLimit, logger)
	logStageResult("collect", result)

	return checkpoint.Write(checkpoint.Path(cfg.DataDir, checkpoint.RawFile), listings)
}

func runNormalize(ctx context.Context, cfg *config.Config) error {
	listings, err := checkpoint.Read[[]model.RawListing](checkpoint.Path(cfg.DataDir, checkpoint.RawFile))
	if err != nil {
		return err
	}
	logger.Info("loaded raw listings", "count", len(listings))

	clubs, result := pipeline.Normalize(listings, logger)
	logStageResult("normalize", result)
	logCountryBreakdown(clubs)

	return checkpoint.Write(checkpoint.Path(cfg.DataDir, checkpoint.CleanedFile), clubs)
}

func runVerify(ctx context.Context, cfg *config.Config) error {
	clubs, err := checkpoint.Read[[]model.Club](checkpoint.Path(cfg.DataDir, checkpoint.CleanedFile))
	if err != nil {
		return err
	}

	verified, result := pipeline.Verify(ctx, clubs, crawler.New(cfg.CrawlTimeout), logger)
	logStageResult("verify", result)

	return checkpoint.Write(checkpoint.Path(cfg.DataDir, checkpoint.VerifiedFile), verified)
}

func runEnrich(ctx context.Context, cfg *config.Config) error {
	clubs, err := checkpoint.Read[[]model.Club](checkpoint.Path(cfg.DataDir, checkpoint.VerifiedFile))
	if err != nil {
		return err
	}

	var llm pipeline.TextCompleter
	if cfg.AnthropicAPIKey != "" {
		llm = anthropic.New(cfg.AnthropicBaseURL, cfg.AnthropicAPIKey, cfg.AnthropicModel)
	}

	enriched, result := pipeline.Enrich(ctx, clubs, llm, logger)
	logStageResult("enrich", result)

	return checkpoint.Write(checkpoint.Path(cfg.DataDir, checkpoint.EnrichedFile), enriched)
}

func runImages(ctx context.Context, cfg *config.Config) error {
	clubs, err := checkpoint.Read[[]model.Club](checkpoint.Path(cfg.DataDir, checkpoint.EnrichedFile))
	if err != nil {
		return err
	}

	var vision pipeline.ImageClassifier
	var fetcher pipeline.ImageFetcher
	if cfg.AnthropicAPIKey != "" {
		vision = anthropic.New(cfg.AnthropicBaseURL, cfg.AnthropicAPIKey, cfg.AnthropicModel)
		fetcher = crawler.New(cfg.CrawlTimeout)
	}

	screened, result := pipeline.ClassifyImages(ctx, clubs, fetcher, vision, logger)
	logStageResult("images", result)

	return checkpoint.Write(checkpoint.Path(cfg.DataDir, checkpoint.ImagesFile), screened)
}

func runFeatures(ctx context.Context, cfg *config.Config) error {
	// The image stage is optional; fall back to the enriched checkpoint.
	input := checkpoint.Path(cfg.DataDir, checkpoint.ImagesFile)
	if !checkpoint.Exists(input) {
		input = checkpoint.Path(cfg.DataDir, checkpoint.EnrichedFile)
	}

	clubs, err := checkpoint.Read[[]model.Club](input)
	if err != nil {
		return err
	}

	extracted, result := pipeline.ExtractFeatures(clubs, logger)
	logStageResult("features", result)

	return checkpoint.Write(checkpoint.Path(cfg.DataDir, checkpoint.FeaturesFile), extracted)
}

func runAggregate(ctx context.Context, cfg *config.Config) error {
	clubs, err := checkpoint.Read[[]model.Club](checkpoint.Path(cfg.DataDir, checkpoint.FeaturesFile))
	if err != nil {
		return err
	}

	countries, cities := pipeline.Aggregate(clubs)
	logger.Info("aggregated", "countries", len(countries), "cities", len(cities), "clubs", len(clubs))

	if err := checkpoint.Write(checkpoint.Path(cfg.DataDir, checkpoint.FinalCountriesFile), countries); err != nil {
		return err
	}
	if err := checkpoint.Write(checkpoint.Path(cfg.DataDir, checkpoint.FinalCitiesFile), cities); err != nil {
		return err
	}
	return checkpoint.Write(checkpoint.Path(cfg.DataDir, checkpoint.FinalClubsFile), clubs)
}

func runExport(ctx context.Context, cfg *config.Config) error {
	ds, err := loadFinal(cfg)
	if err != nil {
		return err
	}

	out, err := pipeline.Export(ds, time.Now())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.ExportPath), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	if err := os.WriteFile(cfg.ExportPath, out, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	logger.Info("export written", "path", cfg.ExportPath,
		"countries", len(ds.Countries), "cities", len(ds.Cities), "clubs", len(ds.Clubs))
	return nil
}

func runPublish(ctx context.Context, cfg *config.Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	ds, err := loadFinal(cfg)
	if err != nil {
		return err
	}

	pool, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	result := publish.Dataset(ctx, pool.Pool, ds, logger)
	logStageResult("publish", result)
	if result.Failed > 0 {
		return fmt.Errorf("publish finished with %d failed rows", result.Failed)
	}
	return nil
}

func runAll(ctx context.Context, cfg *config.Config) error {
	stages := []func(context.Context, *config.Config) error{
		runCollect, runNormalize, runVerify, runEnrich,
		runImages, runFeatures, runAggregate, runExport,
	}
	for _, stage := range stages {
		if err := stage(ctx, cfg); err != nil {
			return err
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Shared helpers
// --------------------------------------------------------------------------

func loadFinal(cfg *config.Config) (model.Dataset, error) {
	countries, err := checkpoint.Read[[]model.Country](checkpoint.Path(cfg.DataDir, checkpoint.FinalCountriesFile))
	if err != nil {
		return model.Dataset{}, err
	}
	cities, err := checkpoint.Read[[]model.City](checkpoint.Path(cfg.DataDir, checkpoint.FinalCitiesFile))
	if err != nil {
		return model.Dataset{}, err
	}
	clubs, err := checkpoint.Read[[]model.Club](checkpoint.Path(cfg.DataDir, checkpoint.FinalClubsFile))
	if err != nil {
		return model.Dataset{}, err
	}
	return model.Dataset{Countries: countries, Cities: cities, Clubs: clubs}, nil
}

func logStageResult(stage string, result pipeline.StageResult) {
	logger.Info(stage+" done", "summary", result.Summary())
	for _, e := range result.Errors {
		logger.Error(stage+" error", "error", e)
	}
}

func logCountryBreakdown(clubs []model.Club) {
	counts := pipeline.ByCountry(clubs)
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		logger.Info("clubs by country", "country", name, "clubs", counts[name])
	}
}
