package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gizikita/backend/internal/logger"
	"github.com/gizikita/backend/internal/service"
)

func TestGeminiClientGenerateContent(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "key-123", r.Header.Get("x-goog-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"[{\"nama_menu\":"},{"text":"\"Sate\"}]"}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	client := service.NewGeminiClient("key-123", "gemini-test", srv.URL+"/v1beta/", nil, logger.Nop())
	text, err := client.GenerateContent(context.Background(), service.GenerateRequest{
		Parts:       []service.Part{{Text: "halo"}},
		JSON:        true,
		Temperature: 0.2,
	})
	require.NoError(t, err)
	assert.Equal(t, `[{"nama_menu":"Sate"}]`, text)

	cfg := captured["generationConfig"].(map[string]any)
	assert.Equal(t, "application/json", cfg["responseMimeType"])
	contents := captured["contents"].([]any)
	require.Len(t, contents, 1)
}

func TestGeminiClientErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		overloaded bool
	}{
		{"quota", http.StatusTooManyRequests, `{"error":{"message":"Resource exhausted"}}`, true},
		{"unavailable", http.StatusServiceUnavailable, `{"error":{"message":"overloaded"}}`, true},
		{"bad request", http.StatusBadRequest, `{"error":{"message":"invalid image"}}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := service.NewGeminiClient("key", "m", srv.URL, nil, logger.Nop())
			_, err := client.GenerateContent(context.Background(), service.GenerateRequest{Parts: []service.Part{{Text: "x"}}})

			var perr *service.ProviderError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.status, perr.StatusCode)
			assert.Equal(t, tt.overloaded, errors.Is(err, service.ErrProviderOverload))
		})
	}
}

func TestGeminiClientEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	client := service.NewGeminiClient("key", "m", srv.URL, nil, logger.Nop())
	_, err := client.GenerateContent(context.Background(), service.GenerateRequest{Parts: []service.Part{{Text: "x"}}})
	assert.Error(t, err)
}

func TestGeminiClientRequiresKey(t *testing.T) {
	client := service.NewGeminiClient("", "m", "http://127.0.0.1:1", nil, logger.Nop())
	_, err := client.GenerateContent(context.Background(), service.GenerateRequest{})
	assert.Error(t, err)
}

func TestHTTPImageFetcher(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000000000")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/typed.webp":
			w.Header().Set("Content-Type", "image/webp")
			_, _ = w.Write([]byte("RIFF....WEBP"))
		case "/sniffed":
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write(png)
		case "/unknown":
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write([]byte("????"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	fetcher := service.NewHTTPImageFetcher(nil)
	ctx := context.Background()

	img, err := fetcher.Fetch(ctx, srv.URL+"/typed.webp")
	require.NoError(t, err)
	assert.Equal(t, "image/webp", img.ContentType)

	img, err = fetcher.Fetch(ctx, srv.URL+"/sniffed")
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, png, img.Data)

	img, err = fetcher.Fetch(ctx, srv.URL+"/unknown")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.ContentType)

	_, err = fetcher.Fetch(ctx, srv.URL+"/missing")
	assert.Error(t, err)
}

func TestPublicImageFetcherRefusesInternalTargets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("\x89PNG\r\n\x1a\n"))
	}))
	defer srv.Close()
	ctx := context.Background()

	open := service.NewPublicImageFetcher(nil)
	for _, u := range []string{
		srv.URL + "/menu.png",
		"http://169.254.169.254/latest/meta-data/",
		"file:///etc/passwd",
		"ftp://cdn.example.com/menu.png",
	} {
		_, err := open.Fetch(ctx, u)
		assert.ErrorIs(t, err, service.ErrImageURLNotAllowed, u)
	}

	scoped := service.NewPublicImageFetcher([]string{"https://cdn.example.com"})
	for _, u := range []string{
		"https://cdn.example.com.evil.test/menu.png",
		"https://other.example.com/menu.png",
	} {
		_, err := scoped.Fetch(ctx, u)
		assert.ErrorIs(t, err, service.ErrImageURLNotAllowed, u)
	}
}
