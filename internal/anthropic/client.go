// Package anthropic is a minimal client for the Anthropic Messages API,
// covering the two calls the pipeline makes: a text completion for record
// enrichment and a vision classification for photo screening.
package anthropic

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/go-resty/resty/v2"
)

const apiVersion = "2023-06-01"

// Client calls the Messages API with a fixed model.
type Client struct {
	http  *resty.Client
	model string
}

// New creates a client for the given API endpoint and model.
func New(baseURL, apiKey, model string) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("x-api-key", apiKey)
	client.SetHeader("anthropic-version", apiVersion)
	client.SetHeader("Content-Type", "application/json")
	return &Client{http: client, model: model}
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type request struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type response struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends a single user prompt and returns the model's text reply.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return c.send(ctx, maxTokens, []contentBlock{{Type: "text", Text: prompt}})
}

// ClassifyImage sends image bytes plus an instruction and returns the
// model's text reply.
func (c *Client) ClassifyImage(ctx context.Context, data []byte, mediaType, prompt string, maxTokens int) (string, error) {
	return c.send(ctx, maxTokens, []contentBlock{
		{
			Type: "image",
			Source: &imageSource{
				Type:      "base64",
				MediaType: mediaType,
				Data:      base64.StdEncoding.EncodeToString(data),
			},
		},
		{Type: "text", Text: prompt},
	})
}

func (c *Client) send(ctx context.Context, maxTokens int, content []contentBlock) (string, error) {
	var out response
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(request{
			Model:     c.model,
			MaxTokens: maxTokens,
			Messages:  []message{{Role: "user", Content: content}},
		}).
		SetResult(&out).
		SetError(&out).
		ForceContentType("application/json").
		Post("/v1/messages")
	if err != nil {
		return "", fmt.Errorf("messages request: %w", err)
	}
	if res.StatusCode() != 200 {
		if out.Error != nil {
			return "", fmt.Errorf("messages API %d: %s", res.StatusCode(), out.Error.Message)
		}
		return "", fmt.Errorf("messages API returned %d", res.StatusCode())
	}
	for _, block := range out.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("messages API returned no text content")
}
