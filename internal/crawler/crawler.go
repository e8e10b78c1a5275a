// Package crawler fetches club websites and photos for the verification
// stages. It renders nothing; pages are reduced to their title and visible
// text, which is all the keyword checks need.
package crawler

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const userAgent = "atlas-data/1.0 (+https://github.com/roundnetatlas/atlas-data)"

// Page is the distilled content of a fetched website.
type Page struct {
	Title string
	Text  string
}

// Client fetches websites with a bounded per-request timeout.
type Client struct {
	http *resty.Client
}

// New creates a crawler whose requests abort after timeout.
func New(timeout time.Duration) *Client {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", userAgent)
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))
	return &Client{http: client}
}

var whitespace = regexp.MustCompile(`\s+`)

// Fetch downloads a page and extracts its title and visible text.
func (c *Client) Fetch(ctx context.Context, pageURL string) (Page, error) {
	res, err := c.http.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return Page{}, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	if res.StatusCode() >= 400 {
		return Page{}, fmt.Errorf("fetch %s: status %d", pageURL, res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return Page{}, fmt.Errorf("parse %s: %w", pageURL, err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("script, style, noscript").Remove()
	body := doc.Find("body")
	text := body.Text()
	if body.Length() == 0 {
		text = doc.Text()
	}
	text = strings.TrimSpace(whitespace.ReplaceAllString(text, " "))

	return Page{Title: title, Text: text}, nil
}

// FetchImage downloads an image, returning its bytes and media type.
func (c *Client) FetchImage(ctx context.Context, imgURL string) ([]byte, string, error) {
	res, err := c.http.R().SetContext(ctx).Get(imgURL)
	if err != nil {
		return nil, "", fmt.Errorf("download %s: %w", imgURL, err)
	}
	if res.StatusCode() != 200 {
		return nil, "", fmt.Errorf("download %s: status %d", imgURL, res.StatusCode())
	}
	mediaType := res.Header().Get("Content-Type")
	if mediaType == "" {
		mediaType = "image/jpeg"
	}
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	return res.Body(), mediaType, nil
}
