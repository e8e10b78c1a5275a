package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roundnetatlas/atlas-data/internal/crawler"
	"github.com/roundnetatlas/atlas-data/internal/model"
)

func TestVerifyRelevantWebsite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Roundnet Berlin e.V.</title></head>
			<body><script>var x = 1;</script>
			<p>We play roundnet every week. Training schedule below.</p>
			<p>Contact us via email.</p></body></html>`)
	}))
	defer server.Close()

	clubs := []model.Club{{Slug: "roundnet-berlin", Website: server.URL}}
	out, result := Verify(context.Background(), clubs, crawler.New(5*time.Second), testLogger)
	require.Len(t, out, 1)
	assert.Equal(t, 0, result.Failed)

	club := out[0]
	require.NotNil(t, club.WebsiteVerified)
	assert.True(t, *club.WebsiteVerified)

	v := club.WebsiteVerification
	require.NotNil(t, v)
	assert.Equal(t, "active", v.Status)
	assert.True(t, v.IsRelevant)
	assert.Equal(t, "Roundnet Berlin e.V.", v.Title)
	assert.True(t, v.HasContact)
	assert.True(t, v.HasSchedule)
	assert.Contains(t, v.Content, "We play roundnet")
	assert.NotContains(t, v.Content, "var x", "script text must be stripped")
}

func TestVerifyLivePageWithoutKeywordsIsUnverified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>We sell used cars.</p></body></html>`)
	}))
	defer server.Close()

	clubs := []model.Club{{Slug: "cars", Website: server.URL}}
	out, _ := Verify(context.Background(), clubs, crawler.New(5*time.Second), testLogger)

	require.NotNil(t, out[0].WebsiteVerified)
	assert.False(t, *out[0].WebsiteVerified)
	require.NotNil(t, out[0].WebsiteVerification)
	assert.Equal(t, "active", out[0].WebsiteVerification.Status)
	assert.False(t, out[0].WebsiteVerification.IsRelevant)
}

func TestVerifyFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	clubs := []model.Club{
		{Slug: "dead-site", Website: server.URL},
		{Slug: "no-site"},
	}
	out, result := Verify(context.Background(), clubs, crawler.New(5*time.Second), testLogger)
	require.Len(t, out, 2)

	require.NotNil(t, out[0].WebsiteVerified)
	assert.False(t, *out[0].WebsiteVerified)
	require.NotNil(t, out[0].WebsiteVerification)
	assert.Equal(t, "error", out[0].WebsiteVerification.Status)
	assert.NotEmpty(t, out[0].WebsiteVerification.Error)
	assert.Equal(t, 1, result.Failed)

	// A club without a website is skipped, not failed.
	require.NotNil(t, out[1].WebsiteVerified)
	assert.False(t, *out[1].WebsiteVerified)
	assert.Nil(t, out[1].WebsiteVerification)
	assert.Equal(t, 1, result.Skipped)
}

func TestVerifyNilCrawlerPassesThrough(t *testing.T) {
	clubs := []model.Club{{Slug: "untouched", Website: "https://example.com"}}
	out, result := Verify(context.Background(), clubs, nil, testLogger)
	assert.Equal(t, clubs, out)
	assert.Equal(t, len(clubs), result.Skipped)
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "abc", truncateText("abc", 5))
	assert.Equal(t, "abcde", truncateText("abcdefgh", 5))
}
