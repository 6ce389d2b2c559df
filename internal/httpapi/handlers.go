// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ceremo Contributors

// Package httpapi implements the JSON/HTTP boundary of the partner auth
// service.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ceremo/partnerauth/internal/auth"
	"github.com/ceremo/partnerauth/internal/observability"
	"github.com/ceremo/partnerauth/pkg/errutil"
)

// AuthService is the workflow surface the handlers depend on.
type AuthService interface {
	SignUp(ctx context.Context, in auth.SignUpInput) (*auth.AuthResult, error)
	SignIn(ctx context.Context, email, password string, rememberMe bool) (*auth.AuthResult, error)
}

// Handlers provides the HTTP handlers for the auth API.
type Handlers struct {
	auth    AuthService
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewHandlers creates new auth API handlers. metrics may be nil.
func NewHandlers(service AuthService, logger *slog.Logger, metrics *observability.Metrics) *Handlers {
	return &Handlers{
		auth:    service,
		logger:  logger,
		metrics: metrics,
	}
}

// RegisterRoutes registers all auth API routes.
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/auth/partner/signup", h.SignUp).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/partner/signin", h.SignIn).Methods(http.MethodPost)

	r.HandleFunc("/", h.Index).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
}

// SignUp handles POST /api/auth/partner/signup.
func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "received sign up request")

	var req SignUpRequest
	if err := decodeJSON(r, &req); err != nil {
		h.recordAttempt("signup", err)
		writeError(ctx, w, h.logger, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.recordAttempt("signup", err)
		writeError(ctx, w, h.logger, err)
		return
	}

	result, err := h.auth.SignUp(ctx, auth.SignUpInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		AgreeToTerms:    req.AgreeToTerms,
	})
	if err != nil {
		h.recordAttempt("signup", err)
		writeError(ctx, w, h.logger, err)
		return
	}

	h.recordAttempt("signup", nil)
	h.logger.InfoContext(ctx, "sign up successful")
	writeSuccess(w, http.StatusCreated, result, result.Message)
}

// SignIn handles POST /api/auth/partner/signin.
func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "received sign in request")

	var req SignInRequest
	if err := decodeJSON(r, &req); err != nil {
		h.recordAttempt("signin", err)
		writeError(ctx, w, h.logger, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.recordAttempt("signin", err)
		writeError(ctx, w, h.logger, err)
		return
	}

	result, err := h.auth.SignIn(ctx, req.Email, req.Password, req.RememberMe)
	if err != nil {
		h.recordAttempt("signin", err)
		writeError(ctx, w, h.logger, err)
		return
	}

	h.recordAttempt("signin", nil)
	h.logger.InfoContext(ctx, "sign in successful")
	writeSuccess(w, http.StatusOK, result, result.Message)
}

// Index handles GET /.
func (h *Handlers) Index(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to Ceremo Services",
		"status":  "running",
	})
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "partnerauth",
	})
}

func (h *Handlers) recordAttempt(operation string, err error) {
	if h.metrics == nil {
		return
	}
	h.metrics.RecordAuthAttempt(operation, outcomeForError(err))
}

func outcomeForError(err error) string {
	if err == nil {
		return "success"
	}
	switch errutil.Code(err) {
	case auth.CodeValidation:
		return "validation"
	case auth.CodeUnauthorized:
		return "unauthorized"
	case auth.CodeConflict:
		return "conflict"
	default:
		return "error"
	}
}
