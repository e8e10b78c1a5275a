package pipeline

import (
	"context"
	"log/slog"
	"sort"

	"github.com/roundnetatlas/atlas-data/internal/model"
)

// ImageClassifier is the vision-capable language-model collaborator.
type ImageClassifier interface {
	ClassifyImage(ctx context.Context, data []byte, mediaType, prompt string, maxTokens int) (string, error)
}

// ImageFetcher downloads photo bytes for classification.
type ImageFetcher interface {
	FetchImage(ctx context.Context, imgURL string) (data []byte, mediaType string, err error)
}

const (
	imagesPerClubChecked = 5
	imagesPerClubKept    = 3
	classifyMaxTokens    = 512
)

const classifyPrompt = `Analyze this image for a Roundnet/Spikeball club directory.

Determine:
1. isRelevant: is this image related to Roundnet/Spikeball? (true/false)
2. imageType: one of "action_shot", "team_photo", "equipment", "venue", "logo", "event", "other"
3. quality: rate 1-10 (composition, resolution, relevance)
4. description: brief description of the image
5. usable: would this be a good image for a club listing? (true/false)

Return only valid JSON.`

// imageAnalysis is the structured classification expected from the model.
type imageAnalysis struct {
	IsRelevant  bool   `json:"isRelevant"`
	ImageType   string `json:"imageType"`
	Quality     int    `json:"quality"`
	Description string `json:"description"`
	Usable      bool   `json:"usable"`
}

// ClassifyImages screens up to five photos per club through the vision
// model, keeps the usable ones sorted by quality, and retains at most
// three. Any per-image failure counts the image as unusable; the batch
// always completes. Nil collaborators make the stage a passthrough.
func ClassifyImages(ctx context.Context, clubs []model.Club, fetcher ImageFetcher, vision ImageClassifier, logger *slog.Logger) ([]model.Club, StageResult) {
	var result StageResult
	result.In = len(clubs)
	result.Out = len(clubs)

	if fetcher == nil || vision == nil {
		logger.Info("no vision model configured, skipping image classification")
		result.Skipped = len(clubs)
		return clubs, result
	}

	out := make([]model.Club, len(clubs))
	for i, club := range clubs {
		if len(club.Photos) == 0 {
			out[i] = club
			result.Skipped++
			continue
		}
		logger.Info("classifying images", "club", club.Slug, "photos", len(club.Photos), "progress", progress(i+1, len(clubs)))

		photos := club.Photos
		if len(photos) > imagesPerClubChecked {
			photos = photos[:imagesPerClubChecked]
		}

		var kept []model.VerifiedImage
		for _, photoURL := range photos {
			img, ok := classifyOne(ctx, photoURL, fetcher, vision, &result)
			if ok {
				kept = append(kept, img)
			}
		}

		sort.SliceStable(kept, func(a, b int) bool { return kept[a].Quality > kept[b].Quality })
		if len(kept) > imagesPerClubKept {
			kept = kept[:imagesPerClubKept]
		}
		club.VerifiedImages = kept
		out[i] = club
	}
	return out, result
}

func classifyOne(ctx context.Context, photoURL string, fetcher ImageFetcher, vision ImageClassifier, result *StageResult) (model.VerifiedImage, bool) {
	data, mediaType, err := fetcher.FetchImage(ctx, photoURL)
	if err != nil {
		result.AddErrorf("download %s: %v", photoURL, err)
		return model.VerifiedImage{}, false
	}

	reply, err := vision.ClassifyImage(ctx, data, mediaType, classifyPrompt, classifyMaxTokens)
	if err != nil {
		result.AddErrorf("classify %s: %v", photoURL, err)
		return model.VerifiedImage{}, false
	}

	var analysis imageAnalysis
	if err := decodeModelJSON(reply, &analysis); err != nil {
		result.AddErrorf("classify %s: unparseable response: %v", photoURL, err)
		return model.VerifiedImage{}, false
	}
	if !analysis.Usable {
		return model.VerifiedImage{}, false
	}
	return model.VerifiedImage{
		URL:         photoURL,
		ImageType:   analysis.ImageType,
		Quality:     analysis.Quality,
		Description: analysis.Description,
	}, true
}
