package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gizikita/backend/config"
	"github.com/gizikita/backend/internal/api"
	"github.com/gizikita/backend/internal/logger"
)

func testConfig(port string) *config.Config {
	return &config.Config{
		ServerHost:  "127.0.0.1",
		ServerPort:  port,
		JWTSecret:   "test-secret",
		CORSOrigins: []string{"http://localhost:3000"},
	}
}

func TestNew(t *testing.T) {
	server := New(testConfig("8080"), api.Services{}, logger.Nop())
	require.NotNil(t, server)
	assert.Equal(t, "127.0.0.1:8080", server.http.Addr)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	server.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	_, port, _ := net.SplitHostPort(l.Addr().String())
	require.NoError(t, l.Close())

	server := New(testConfig(port), api.Services{}, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://127.0.0.1:" + port + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
