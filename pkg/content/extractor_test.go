package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPExtractor_Extract(t *testing.T) {
	tests := []struct {
		name        string
		htmlContent string
		wantContent string
		wantErr     bool
		statusCode  int
	}{
		{
			name: "main text",
			htmlContent: `<!DOCTYPE html>
				<html>
				<head><title>Test Article</title></head>
				<body>
					<article>
						<h1>Test Article Title</h1>
						<p>This is the main content of the article about neural networks.</p>
						<p>It has multiple paragraphs.</p>
					</article>
				</body>
				</html>`,
			wantContent: "main content of the article",
			statusCode:  http.StatusOK,
		},
		{
			name: "meta description wins",
			htmlContent: `<!DOCTYPE html>
				<html>
				<head><title>Paper</title><meta name="description" content="A short description of the paper."></head>
				<body><article><p>Long body text of the paper goes here and continues for a while.</p></article></body>
				</html>`,
			wantContent: "A short description of the paper.",
			statusCode:  http.StatusOK,
		},
		{
			name:        "server error",
			htmlContent: "error",
			wantErr:     true,
			statusCode:  http.StatusInternalServerError,
		},
		{
			name:        "not found",
			htmlContent: "not found",
			wantErr:     true,
			statusCode:  http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
				if tt.statusCode == http.StatusOK {
					w.Header().Set("Content-Type", "text/html")
				}
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.htmlContent))
			}))
			defer server.Close()

			extractor := NewHTTPExtractor(10*time.Second, "test-agent", 0)
			content, err := extractor.Extract(context.Background(), server.URL)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Contains(t, content, tt.wantContent)
			assert.NotContains(t, content, "\n")
		})
	}
}

func TestHTTPExtractor_Extract_Truncated(t *testing.T) {
	long := strings.Repeat("word ", 200)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><meta name="description" content="` + long + `"></head><body><article><h1>Title</h1><p>This is the main content of the article about neural networks.</p></article></body></html>`))
	}))
	defer server.Close()

	content, err := NewHTTPExtractor(10*time.Second, "", 100).Extract(context.Background(), server.URL)
	require.NoError(t, err)
	assert.LessOrEqual(t, utf8.RuneCountInString(content), 101)
	assert.True(t, strings.HasSuffix(content, "…"))
}

func TestHTTPExtractor_Extract_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body>Too late</body></html>"))
	}))
	defer server.Close()

	_, err := NewHTTPExtractor(50*time.Millisecond, "", 0).Extract(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Client.Timeout exceeded")
}

func TestHTTPExtractor_Extract_InvalidURL(t *testing.T) {
	extractor := NewHTTPExtractor(time.Second, "", 0)

	for _, u := range []string{"", "not-a-url", "http://localhost:99999/test"} {
		t.Run(u, func(t *testing.T) {
			_, err := extractor.Extract(context.Background(), u)
			require.Error(t, err)
		})
	}
}

func TestHTTPExtractor_Extract_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(5 * time.Second):
			_, _ = w.Write([]byte("<html><body>Content</body></html>"))
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPExtractor(5*time.Second, "", 0).Extract(ctx, server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context canceled")
}
