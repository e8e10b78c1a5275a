package pipeline

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/roundnetatlas/atlas-data/internal/model"
)

// featureKeywords maps each standard feature tag to the multilingual
// substrings that imply it. Immutable configuration data, loaded once.
var featureKeywords = map[model.FeatureTag][]string{
	model.FeatureBeginnerFriendly: {
		"beginner", "anfänger", "débutant", "principiante", "newbie",
		"all levels", "alle niveaus", "tous niveaux",
	},
	model.FeatureEquipmentProvided: {
		"equipment", "ausrüstung", "équipement", "nets provided",
		"we provide", "balls available", "gear",
	},
	model.FeatureIndoor: {
		"indoor", "halle", "salle", "gym", "gymnasium", "sports hall",
		"winter", "covered",
	},
	model.FeatureOutdoor: {
		"outdoor", "park", "beach", "strand", "plage", "grass",
		"summer", "open air",
	},
	model.FeatureCoaching: {
		"coach", "trainer", "training", "lessons", "instruction",
		"learn", "technique", "skills",
	},
	model.FeatureTournaments: {
		"tournament", "turnier", "tournoi", "competition", "competitive",
		"league", "championship", "ranked",
	},
	model.FeatureWeeklyMeetups: {
		"weekly", "wöchentlich", "hebdomadaire", "regular", "every week",
		"meetup", "session", "practice",
	},
	model.FeatureYouthProgram: {
		"youth", "kids", "children", "junior", "kinder", "jeunes",
		"school", "under 18",
	},
	model.FeatureWheelchairAccessible: {
		"accessible", "wheelchair", "disability", "barrier-free",
		"rollstuhl", "handicap",
	},
}

// ExtractFeatures recomputes each club's feature set: the union of its
// existing tags, keyword-dictionary matches over accumulated text, and a
// forced weekly_meetups whenever a training schedule is present. Set
// semantics make the stage order-independent and idempotent.
func ExtractFeatures(clubs []model.Club, logger *slog.Logger) ([]model.Club, StageResult) {
	var result StageResult
	result.In = len(clubs)
	result.Out = len(clubs)

	out := make([]model.Club, len(clubs))
	for i, club := range clubs {
		club.Features = extractClubFeatures(club)
		out[i] = club
	}

	counts := make(map[model.FeatureTag]int)
	for _, club := range out {
		for _, f := range club.Features {
			counts[f]++
		}
	}
	for tag, n := range counts {
		logger.Info("feature distribution", "feature", string(tag), "clubs", n)
	}
	return out, result
}

func extractClubFeatures(club model.Club) []model.FeatureTag {
	text := strings.ToLower(strings.Join([]string{
		club.Description,
		club.TrainingSchedule,
		club.Equipment,
		club.Level,
	}, " "))

	set := make(map[model.FeatureTag]bool, len(club.Features))
	for _, f := range club.Features {
		set[f] = true
	}

	for tag, keywords := range featureKeywords {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				set[tag] = true
				break
			}
		}
	}

	if club.TrainingSchedule != "" {
		set[model.FeatureWeeklyMeetups] = true
	}

	features := make([]model.FeatureTag, 0, len(set))
	for tag := range set {
		features = append(features, tag)
	}
	sort.Slice(features, func(i, j int) bool { return features[i] < features[j] })
	return features
}
