// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ceremo Contributors

package auth

import "errors"

// Failure taxonomy codes shared with the HTTP boundary.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned by repositories when an insert hits the
// unique email constraint.
var ErrEmailExists = errors.New("email already exists")
