package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/roundnetatlas/atlas-data/internal/crawler"
	"github.com/roundnetatlas/atlas-data/internal/model"
)

// websiteKeywords mark a fetched page as actually about the sport.
var websiteKeywords = []string{"roundnet", "spikeball", "spike ball", "round net"}

var scheduleKeywords = []string{"schedule", "training", "practice", "meetup"}

// Verify fetches each club's website and records liveness and relevance.
// A club is websiteVerified only when the fetch succeeded AND the page
// text matched a relevance keyword. Fetch failures mark the club
// unverified and never abort the batch. A nil crawler makes the stage a
// passthrough.
func Verify(ctx context.Context, clubs []model.Club, c *crawler.Client, logger *slog.Logger) ([]model.Club, StageResult) {
	var result StageResult
	result.In = len(clubs)
	result.Out = len(clubs)

	if c == nil {
		logger.Info("no crawler configured, skipping website verification")
		result.Skipped = len(clubs)
		return clubs, result
	}

	verified := make([]model.Club, len(clubs))
	for i, club := range clubs {
		verified[i] = verifyClub(ctx, club, c, &result, logger, i+1, len(clubs))
	}
	return verified, result
}

func verifyClub(ctx context.Context, club model.Club, c *crawler.Client, result *StageResult, logger *slog.Logger, i, n int) model.Club {
	no := false
	if club.Website == "" {
		club.WebsiteVerified = &no
		result.Skipped++
		return club
	}

	logger.Info("verifying website", "club", club.Slug, "url", club.Website, "progress", progress(i, n))

	page, err := c.Fetch(ctx, club.Website)
	if err != nil {
		result.AddErrorf("verify %s: %v", club.Slug, err)
		club.WebsiteVerified = &no
		club.WebsiteVerification = &model.WebsiteVerification{
			URL:    club.Website,
			Status: "error",
			Error:  err.Error(),
		}
		return club
	}

	text := strings.ToLower(page.Text)
	relevant := containsAny(text, websiteKeywords)
	club.WebsiteVerification = &model.WebsiteVerification{
		URL:         club.Website,
		Status:      "active",
		IsRelevant:  relevant,
		Title:       page.Title,
		HasContact:  strings.Contains(text, "contact") || strings.Contains(text, "email"),
		HasSchedule: containsAny(text, scheduleKeywords),
		Content:     truncateText(page.Text, maxPageContent),
	}
	club.WebsiteVerified = &relevant
	return club
}

// maxPageContent bounds how much page text is carried forward for the
// enrichment prompt.
const maxPageContent = 2000

func truncateText(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
