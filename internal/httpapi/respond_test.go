// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ceremo Contributors

package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceremo/partnerauth/internal/auth"
	"github.com/ceremo/partnerauth/internal/logging"
)

func decodeErrorEnvelope(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(rec, http.StatusCreated, map[string]string{"k": "v"}, "done")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var env map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, true, env["success"])
	assert.Equal(t, "done", env["message"])
	assert.Equal(t, map[string]any{"k": "v"}, env["data"])
}

func TestWriteError_RecognizedCodes(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(bytes.NewBuffer(nil), nil))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", oops.Code(auth.CodeValidation).Errorf("bad input"), http.StatusBadRequest, auth.CodeValidation},
		{"unauthorized", oops.Code(auth.CodeUnauthorized).Errorf("Invalid email or password"), http.StatusUnauthorized, auth.CodeUnauthorized},
		{"forbidden", oops.Code(auth.CodeForbidden).Errorf("nope"), http.StatusForbidden, auth.CodeForbidden},
		{"not found", oops.Code(auth.CodeNotFound).Errorf("missing"), http.StatusNotFound, auth.CodeNotFound},
		{"conflict", oops.Code(auth.CodeConflict).Errorf("Email already exists"), http.StatusConflict, auth.CodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(context.Background(), rec, logger, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			env := decodeErrorEnvelope(t, rec)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			assert.Equal(t, tt.err.Error(), env.Error.Message)
		})
	}
}

func TestWriteError_DetailsFromContext(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(bytes.NewBuffer(nil), nil))
	err := oops.Code(auth.CodeConflict).With("field", "email").Errorf("Email already exists")

	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, logger, err)

	env := decodeErrorEnvelope(t, rec)
	require.NotNil(t, env.Error.Details)
	assert.Equal(t, "email", env.Error.Details["field"])
}

func TestWriteError_UnrecognizedErrorIsGeneric500(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := logging.WithRequestID(context.Background(), "req-123")
	err := oops.Code("PARTNER_CREATE_FAILED").Wrap(errors.New("pq: relation does not exist"))

	rec := httptest.NewRecorder()
	writeError(ctx, rec, logger, err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	env := decodeErrorEnvelope(t, rec)
	assert.Equal(t, auth.CodeInternal, env.Error.Code)
	assert.Equal(t, "Internal server error", env.Error.Message)
	// raw database text must not leak into the response
	assert.NotContains(t, rec.Body.String(), "pq: relation")

	// full detail goes to the log, correlated by request id
	logOutput := buf.String()
	assert.Contains(t, logOutput, "pq: relation does not exist")
	assert.Contains(t, logOutput, "req-123")
}

func TestWriteError_PlainErrorIsGeneric500(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, logger, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decodeErrorEnvelope(t, rec)
	assert.Equal(t, "Internal server error", env.Error.Message)
	assert.Contains(t, buf.String(), "boom")
}
