// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ceremo Contributors

// Package errutil provides helpers for working with coded errors.
package errutil

import (
	"log/slog"

	"github.com/samber/oops"
)

// Code extracts the oops error code from err.
// Returns empty string for nil errors, plain errors, or oops errors without a code.
func Code(err error) string {
	if err == nil {
		return ""
	}
	if oopsErr, ok := oops.AsOops(err); ok {
		if code := oopsErr.Code(); code != nil {
			if s, ok := code.(string); ok {
				return s
			}
		}
	}
	return ""
}

// LogError logs an error with structured context if it's an oops error.
// For oops errors, it extracts and logs the message, code, and context.
// For standard errors, it logs the error string.
func LogError(logger *slog.Logger, msg string, err error) {
	if oopsErr, ok := oops.AsOops(err); ok {
		attrs := []any{
			"error", oopsErr.Error(),
		}
		if code := oopsErr.Code(); code != nil {
			attrs = append(attrs, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
		logger.Error(msg, attrs...)
	} else {
		logger.Error(msg, "error", err)
	}
}
