package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsdigest/pkg/domain"
	"github.com/umputun/newsdigest/pkg/repository"
)

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun_MissingConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: "non-existent-config.yml"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: writeTestConfig(t, "invalid: yaml: content: [")})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")

	err = run(ctx, Opts{Config: writeTestConfig(t, "feeds: []\n")})
	require.Error(t, err)
	require.Contains(t, err.Error(), "at least one feed is required")
}

func TestRun_MarkAllSent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "digest.db")
	dsn := "file:" + dbPath + "?_txlock=immediate"

	repos, err := repository.NewRepositories(context.Background(), repository.Config{DSN: dsn})
	require.NoError(t, err)
	for _, link := range []string{"https://example.com/1", "https://example.com/2"} {
		_, err := repos.Item.TryInsert(context.Background(), &domain.FeedItem{ID: domain.ItemID(link), Title: "t", Link: link})
		require.NoError(t, err)
	}
	require.NoError(t, repos.Close())

	cfg := fmt.Sprintf("feeds:\n  - url: https://example.com/feed\ndatabase:\n  dsn: %q\n", dsn)
	require.NoError(t, run(context.Background(), Opts{Config: writeTestConfig(t, cfg), MarkAllSent: true}))

	repos, err = repository.NewRepositories(context.Background(), repository.Config{DSN: dsn})
	require.NoError(t, err)
	defer repos.Close()
	unsent, err := repos.Item.CountUnsent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), unsent)
}

func TestRun_ServerStartStop(t *testing.T) {
	feedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = fmt.Fprintf(w, `<?xml version="1.0"?><rss version="2.0"><channel><title>t</title>
<item><title>Deep learning today</title><link>https://example.com/dl</link><pubDate>%s</pubDate></item>
</channel></rss>`, time.Now().UTC().Format(time.RFC1123Z))
	}))
	defer feedSrv.Close()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	dir := t.TempDir()
	cfg := fmt.Sprintf(`
server:
  listen: "127.0.0.1:%d"
database:
  dsn: "file:%s?_txlock=immediate"
feeds:
  - url: %s
    name: test feed
keywords_file: %s
notify:
  destinations: ["log://"]
dispatch:
  batch_pause: 1ms
`, port, filepath.Join(dir, "digest.db"), feedSrv.URL, filepath.Join(dir, "missing-keywords.txt"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- run(ctx, Opts{Config: writeTestConfig(t, cfg)}) }()

	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/ping")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && string(body) == "pong"
	}, 5*time.Second, 50*time.Millisecond)

	// the first ingestion and dispatch run right after start
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/api/v1/status")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && strings.Contains(string(body), `"dispatches":1`) &&
			strings.Contains(string(body), `"total":1`) && strings.Contains(string(body), `"unsent":0`)
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-runErr:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown timeout")
	}
}

func TestSetupLog(t *testing.T) {
	t.Run("debug mode enabled", func(t *testing.T) {
		SetupLog(true)
	})

	t.Run("debug mode disabled", func(t *testing.T) {
		SetupLog(false)
	})

	t.Run("with secrets", func(t *testing.T) {
		SetupLog(true, "secret1", "secret2")
	})
}
