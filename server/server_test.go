package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsdigest/pkg/config"
	"github.com/umputun/newsdigest/pkg/scheduler"
	"github.com/umputun/newsdigest/server/mocks"
)

func testConfig() *mocks.ConfigProviderMock {
	return &mocks.ConfigProviderMock{
		GetServerConfigFunc: func() (string, time.Duration) { return ":8080", 30 * time.Second },
		GetBaseURLFunc:      func() string { return "http://localhost:8080" },
	}
}

func TestServer_New(t *testing.T) {
	srv := New(testConfig(), &mocks.DatabaseMock{}, &mocks.SchedulerMock{}, "1.0.0", false)
	assert.NotNil(t, srv)
	assert.Equal(t, "1.0.0", srv.version)
	assert.False(t, srv.debug)
}

func TestServer_Run(t *testing.T) {
	// find free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	cfg := &mocks.ConfigProviderMock{
		GetServerConfigFunc: func() (string, time.Duration) {
			return fmt.Sprintf("127.0.0.1:%d", port), 30 * time.Second
		},
	}
	srv := New(cfg, &mocks.DatabaseMock{}, &mocks.SchedulerMock{}, "1.0.0", true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	// wait for server to start
	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(fmt.Sprintf("http://127.0.0.1:%d/ping", port))
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))
	assert.Equal(t, "newsdigest", resp.Header.Get("App-Name"))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("server didn't stop")
	}
}

func TestServer_RunListenError(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	cfg := &mocks.ConfigProviderMock{
		GetServerConfigFunc: func() (string, time.Duration) { return listener.Addr().String(), time.Second },
	}
	srv := New(cfg, &mocks.DatabaseMock{}, &mocks.SchedulerMock{}, "1.0.0", false)
	err = srv.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http server error")
}

func TestServer_Routes(t *testing.T) {
	sched := &mocks.SchedulerMock{
		TriggerFunc: func(task scheduler.Task) error { return nil },
	}
	srv := New(testConfig(), &mocks.DatabaseMock{}, sched, "1.0.0", false)

	tests := []struct {
		method, path string
		code         int
	}{
		{http.MethodPost, "/api/v1/ingest", http.StatusAccepted},
		{http.MethodPost, "/api/v1/dispatch", http.StatusAccepted},
		{http.MethodGet, "/api/v1/ingest", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			w := httptest.NewRecorder()
			srv.router.ServeHTTP(w, req)
			assert.Equal(t, tt.code, w.Code)
		})
	}
	require.Len(t, sched.TriggerCalls(), 2)
	assert.Equal(t, scheduler.TaskIngest, sched.TriggerCalls()[0].Task)
	assert.Equal(t, scheduler.TaskDispatch, sched.TriggerCalls()[1].Task)
}

func TestConfigAdapter(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Listen = ":9090"
	cfg.Server.Timeout = 5 * time.Second
	cfg.Server.BaseURL = "https://digest.example.com"

	adapter := NewConfigAdapter(cfg)
	listen, timeout := adapter.GetServerConfig()
	assert.Equal(t, ":9090", listen)
	assert.Equal(t, 5*time.Second, timeout)
	assert.Equal(t, "https://digest.example.com", adapter.GetBaseURL())
}
