// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ceremo Contributors

package httpapi_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ceremo/partnerauth/internal/config"
	"github.com/ceremo/partnerauth/internal/httpapi"
)

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		Addr:            "127.0.0.1:0",
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		IdleTimeout:     30 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

func TestServer_StartServesAndStops(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	defer http.DefaultClient.CloseIdleConnections()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	handlers := httpapi.NewHandlers(&stubAuthService{}, logger, nil)
	router := httpapi.NewRouter(handlers, logger, nil, "*")

	server := httpapi.NewServer(testServerConfig(), router)

	errCh, err := server.Start()
	require.NoError(t, err)
	require.NotEmpty(t, server.Addr())

	resp, err := http.Get("http://" + server.Addr() + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Stop(ctx))

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			t.Errorf("unexpected error on shutdown: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("timeout waiting for error channel to close")
	}
}

func TestServer_DoubleStartFails(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	handlers := httpapi.NewHandlers(&stubAuthService{}, logger, nil)
	router := httpapi.NewRouter(handlers, logger, nil, "*")

	server := httpapi.NewServer(testServerConfig(), router)

	_, err := server.Start()
	require.NoError(t, err)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Stop(ctx)
	}()

	_, err = server.Start()
	require.Error(t, err)
}

func TestServer_StopIdempotent(t *testing.T) {
	server := httpapi.NewServer(testServerConfig(), http.NotFoundHandler())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Stop(ctx))
}

func TestServer_InvalidAddrFails(t *testing.T) {
	cfg := testServerConfig()
	cfg.Addr = "256.256.256.256:99999"
	server := httpapi.NewServer(cfg, http.NotFoundHandler())

	_, err := server.Start()
	require.Error(t, err)
}
