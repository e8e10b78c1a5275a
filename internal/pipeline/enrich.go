package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"dario.cat/mergo"

	"github.com/roundnetatlas/atlas-data/internal/model"
)

// TextCompleter is the language-model collaborator for record enrichment.
type TextCompleter interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

const enrichMaxTokens = 1024

const enrichPromptTemplate = `You are enriching data for a Roundnet/Spikeball club directory.

Given this club data and website content:

Club: %s

Website content (if available): %s

Return a JSON object with any of these fields you can determine:
- trainingSchedule: human-readable training schedule (e.g. "Tuesdays 18:00-20:00")
- memberCount: estimated number of active members, or null
- foundedYear: year the club was founded, or null
- contactPerson: name of a contact person if mentioned
- languages: array of languages spoken at the club
- level: one of "all_levels", "beginners", "intermediate", "competitive"
- equipment: equipment info - do they provide nets/balls?
- pricing: membership or session pricing if mentioned

Only return valid JSON, no markdown.`

// Enrichment is the structured response expected from the model. Fields
// absent from the response stay zero-valued and never override the club.
type Enrichment struct {
	TrainingSchedule string   `json:"trainingSchedule"`
	MemberCount      *int     `json:"memberCount"`
	FoundedYear      *int     `json:"foundedYear"`
	ContactPerson    string   `json:"contactPerson"`
	Languages        []string `json:"languages"`
	Level            string   `json:"level"`
	Equipment        string   `json:"equipment"`
	Pricing          string   `json:"pricing"`
}

// Enrich asks the language model for soft attributes per club and shallow-
// merges the response into the record, model output winning per key. An
// unparseable response keeps the record unchanged. A nil completer makes
// the stage a passthrough.
func Enrich(ctx context.Context, clubs []model.Club, llm TextCompleter, logger *slog.Logger) ([]model.Club, StageResult) {
	var result StageResult
	result.In = len(clubs)
	result.Out = len(clubs)

	if llm == nil {
		logger.Info("no language model configured, skipping enrichment")
		result.Skipped = len(clubs)
		return clubs, result
	}

	enriched := make([]model.Club, len(clubs))
	for i, club := range clubs {
		logger.Info("enriching", "club", club.Slug, "progress", progress(i+1, len(clubs)))

		reply, err := llm.Complete(ctx, enrichPrompt(club), enrichMaxTokens)
		if err != nil {
			result.AddErrorf("enrich %s: %v", club.Slug, err)
			enriched[i] = club
			continue
		}

		var e Enrichment
		if err := decodeModelJSON(reply, &e); err != nil {
			result.AddErrorf("enrich %s: unparseable response: %v", club.Slug, err)
			enriched[i] = club
			continue
		}
		enriched[i] = mergeEnrichment(club, e)
	}
	return enriched, result
}

func enrichPrompt(club model.Club) string {
	clubJSON, _ := json.MarshalIndent(club, "", "  ")
	content := "Not available"
	if club.WebsiteVerification != nil && club.WebsiteVerification.Content != "" {
		content = club.WebsiteVerification.Content
	}
	return fmt.Sprintf(enrichPromptTemplate, clubJSON, content)
}

// mergeEnrichment overlays non-empty enrichment fields onto the club.
// Precedence is explicit: the model's output wins for every key it set.
func mergeEnrichment(club model.Club, e Enrichment) model.Club {
	patch := model.Club{
		TrainingSchedule: e.TrainingSchedule,
		MemberCount:      e.MemberCount,
		FoundedYear:      e.FoundedYear,
		ContactPerson:    e.ContactPerson,
		Languages:        e.Languages,
		Level:            e.Level,
		Equipment:        e.Equipment,
		Pricing:          e.Pricing,
	}
	if err := mergo.Merge(&club, patch, mergo.WithOverride); err != nil {
		return club
	}
	return club
}

// decodeModelJSON parses a model reply expected to be a bare JSON object,
// tolerating a wrapping markdown code fence.
func decodeModelJSON(reply string, v any) error {
	s := strings.TrimSpace(reply)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	return json.Unmarshal([]byte(s), v)
}
