package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteSendsVersionedRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		assert.Equal(t, apiVersion, r.Header.Get("anthropic-version"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req["model"])
		assert.Equal(t, float64(256), req["max_tokens"])

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"content": [{"type": "text", "text": "hello"}]}`)
	}))
	defer server.Close()

	client := New(server.URL, "key", "test-model")
	reply, err := client.Complete(context.Background(), "say hello", 256)
	require.NoError(t, err)
	assert.Equal(t, "hello", reply)
}

func TestClassifyImageEncodesBase64Source(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content []struct {
					Type   string `json:"type"`
					Source *struct {
						Type      string `json:"type"`
						MediaType string `json:"media_type"`
						Data      string `json:"data"`
					} `json:"source"`
				} `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		require.Len(t, req.Messages[0].Content, 2)

		img := req.Messages[0].Content[0]
		assert.Equal(t, "image", img.Type)
		require.NotNil(t, img.Source)
		assert.Equal(t, "base64", img.Source.Type)
		assert.Equal(t, "image/png", img.Source.MediaType)
		assert.Equal(t, "cGl4ZWxz", img.Source.Data) // "pixels"

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"content": [{"type": "text", "text": "{\"usable\": true}"}]}`)
	}))
	defer server.Close()

	client := New(server.URL, "key", "test-model")
	reply, err := client.ClassifyImage(context.Background(), []byte("pixels"), "image/png", "classify", 128)
	require.NoError(t, err)
	assert.Contains(t, reply, "usable")
}

func TestCompleteSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"type": "rate_limit_error", "message": "slow down"}}`)
	}))
	defer server.Close()

	client := New(server.URL, "key", "test-model")
	_, err := client.Complete(context.Background(), "p", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "slow down")
}

func TestCompleteToleratesMissingContentType(t *testing.T) {
	// Some proxies strip or rewrite the content type; decoding must not
	// depend on it.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, `{"content": [{"type": "text", "text": "still decoded"}]}`)
	}))
	defer server.Close()

	client := New(server.URL, "key", "test-model")
	reply, err := client.Complete(context.Background(), "p", 10)
	require.NoError(t, err)
	assert.Equal(t, "still decoded", reply)
}
