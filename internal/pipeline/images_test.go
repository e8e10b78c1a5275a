package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roundnetatlas/atlas-data/internal/model"
)

type fakeFetcher struct {
	failFor map[string]bool
}

func (f *fakeFetcher) FetchImage(ctx context.Context, imgURL string) ([]byte, string, error) {
	if f.failFor[imgURL] {
		return nil, "", errors.New("connection reset")
	}
	return []byte("jpeg-bytes"), "image/jpeg", nil
}

// fakeVision replies per URL keyed by the order images are fetched.
type fakeVision struct {
	replies []string
	calls   int
}

func (f *fakeVision) ClassifyImage(ctx context.Context, data []byte, mediaType, prompt string, maxTokens int) (string, error) {
	if f.calls >= len(f.replies) {
		return "", errors.New("unexpected call")
	}
	reply := f.replies[f.calls]
	f.calls++
	return reply, nil
}

func usableReply(imageType string, quality int) string {
	return fmt.Sprintf(`{"isRelevant": true, "imageType": %q, "quality": %d, "description": "d", "usable": true}`, imageType, quality)
}

const unusableReply = `{"isRelevant": false, "imageType": "other", "quality": 2, "description": "d", "usable": false}`

func TestClassifyImagesKeepsBestThree(t *testing.T) {
	clubs := []model.Club{{
		Slug:   "photogenic",
		Photos: []string{"u1", "u2", "u3", "u4", "u5", "u6", "u7"},
	}}
	vision := &fakeVision{replies: []string{
		usableReply("venue", 4),
		usableReply("action_shot", 9),
		unusableReply,
		usableReply("team_photo", 6),
		usableReply("logo", 7),
	}}

	out, result := ClassifyImages(context.Background(), clubs, &fakeFetcher{}, vision, testLogger)
	require.Len(t, out, 1)

	// Only the first five photos are checked.
	assert.Equal(t, 5, vision.calls)
	assert.Equal(t, 0, result.Failed)

	imgs := out[0].VerifiedImages
	require.Len(t, imgs, 3)
	assert.Equal(t, "u2", imgs[0].URL)
	assert.Equal(t, 9, imgs[0].Quality)
	assert.Equal(t, "u5", imgs[1].URL)
	assert.Equal(t, "u4", imgs[2].URL)
}

func TestClassifyImagesDownloadFailureCountsAsUnusable(t *testing.T) {
	clubs := []model.Club{{Slug: "flaky", Photos: []string{"bad", "good"}}}
	vision := &fakeVision{replies: []string{usableReply("venue", 5)}}

	out, result := ClassifyImages(context.Background(), clubs, &fakeFetcher{failFor: map[string]bool{"bad": true}}, vision, testLogger)
	require.Len(t, out[0].VerifiedImages, 1)
	assert.Equal(t, "good", out[0].VerifiedImages[0].URL)
	assert.Equal(t, 1, result.Failed)
}

func TestClassifyImagesUnparseableReplyDropsImage(t *testing.T) {
	clubs := []model.Club{{Slug: "garbled", Photos: []string{"u1"}}}
	vision := &fakeVision{replies: []string{"not json at all"}}

	out, result := ClassifyImages(context.Background(), clubs, &fakeFetcher{}, vision, testLogger)
	assert.Empty(t, out[0].VerifiedImages)
	assert.Equal(t, 1, result.Failed)
}

func TestClassifyImagesSkipsClubsWithoutPhotos(t *testing.T) {
	clubs := []model.Club{{Slug: "camera-shy"}}
	vision := &fakeVision{}

	out, result := ClassifyImages(context.Background(), clubs, &fakeFetcher{}, vision, testLogger)
	assert.Empty(t, out[0].VerifiedImages)
	assert.Equal(t, 0, vision.calls)
	assert.Equal(t, 1, result.Skipped)
}

func TestClassifyImagesNilCollaboratorsPassThrough(t *testing.T) {
	clubs := []model.Club{{Slug: "untouched", Photos: []string{"u1"}}}

	out, result := ClassifyImages(context.Background(), clubs, nil, nil, testLogger)
	assert.Equal(t, clubs, out)
	assert.Equal(t, len(clubs), result.Skipped)
}
