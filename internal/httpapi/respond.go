// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ceremo Contributors

package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/samber/oops"

	"github.com/ceremo/partnerauth/internal/auth"
	"github.com/ceremo/partnerauth/internal/logging"
	"github.com/ceremo/partnerauth/pkg/errutil"
)

// successEnvelope is the uniform success response shape.
type successEnvelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// errorEnvelope is the uniform failure response shape.
type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// statusByCode is the closed mapping from failure kind to HTTP status.
// Anything outside it is treated as an internal error.
var statusByCode = map[string]int{
	auth.CodeValidation:   http.StatusBadRequest,
	auth.CodeUnauthorized: http.StatusUnauthorized,
	auth.CodeForbidden:    http.StatusForbidden,
	auth.CodeNotFound:     http.StatusNotFound,
	auth.CodeConflict:     http.StatusConflict,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // response write error means the client is gone
	json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, successEnvelope{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// writeError translates err into the error envelope. Recognized failure
// kinds keep their message and structured details; everything else becomes
// a generic 500 with the full error logged under the request id.
func writeError(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, err error) {
	code := errutil.Code(err)
	status, recognized := statusByCode[code]
	if !recognized {
		log := logger
		if id := logging.RequestIDFrom(ctx); id != "" {
			log = logger.With("request_id", id)
		}
		errutil.LogError(log, "request failed", err)

		writeJSON(w, http.StatusInternalServerError, errorEnvelope{
			Success: false,
			Error: errorBody{
				Code:    auth.CodeInternal,
				Message: "Internal server error",
			},
		})
		return
	}

	body := errorBody{
		Code:    code,
		Message: err.Error(),
	}
	if oopsErr, ok := oops.AsOops(err); ok {
		if errCtx := oopsErr.Context(); len(errCtx) > 0 {
			body.Details = errCtx
		}
	}

	writeJSON(w, status, errorEnvelope{Success: false, Error: body})
}
