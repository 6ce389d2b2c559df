// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ceremo Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
)

// PartnerRepository provides rental partner persistence.
type PartnerRepository interface {
	// FindByEmail retrieves a partner by exact email match.
	// Returns ErrNotFound (wrapped) when no partner has that email.
	FindByEmail(ctx context.Context, email string) (*RentalPartner, error)

	// Create stores a new partner. Returns ErrEmailExists (wrapped) when the
	// storage-level unique email constraint rejects the insert.
	Create(ctx context.Context, partner *RentalPartner) error
}

// Policy holds the token and password policy for the workflow.
type Policy struct {
	// TokenExpiryHours is the primary token lifetime for a plain sign-in.
	TokenExpiryHours int
	// RefreshExpiryHours is the refresh token lifetime, independent of remember-me.
	RefreshExpiryHours int
	// MinPasswordLength is the minimum accepted password length at sign-up.
	MinPasswordLength int
	// RememberMeMultiplier scales TokenExpiryHours when remember-me is requested.
	RememberMeMultiplier int
}

// Validate checks that all policy values are usable.
func (p Policy) Validate() error {
	if p.TokenExpiryHours <= 0 {
		return oops.Code("POLICY_INVALID").Errorf("token expiry hours must be positive")
	}
	if p.RefreshExpiryHours <= 0 {
		return oops.Code("POLICY_INVALID").Errorf("refresh expiry hours must be positive")
	}
	if p.MinPasswordLength <= 0 {
		return oops.Code("POLICY_INVALID").Errorf("minimum password length must be positive")
	}
	if p.RememberMeMultiplier <= 0 {
		return oops.Code("POLICY_INVALID").Errorf("remember-me multiplier must be positive")
	}
	return nil
}

// SignUpInput carries the sign-up request fields.
type SignUpInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	Phone           string
	AgreeToTerms    bool
}

// UserSummary is the partner projection returned to clients.
type UserSummary struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// AuthResult is the uniform outcome of a successful sign-up or sign-in.
type AuthResult struct {
	User         UserSummary `json:"user"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	Message      string      `json:"-"`
}

// Success messages returned in the response envelope.
const (
	MsgRegistrationSuccessful = "Registration successful"
	MsgSignInSuccessful       = "Sign in successful"
)

// invalidCredentialsMessage is identical for unknown emails and
// wrong passwords so error text cannot be used to enumerate accounts.
const invalidCredentialsMessage = "Invalid email or password"

// dummyPasswordHash is used when no partner matches the email so that password
// verification still runs and response time stays consistent.
// This is NOT a real credential.
//
//nolint:gosec // G101: intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Service provides the sign-up and sign-in operations.
type Service struct {
	partners PartnerRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	policy   Policy
	logger   *slog.Logger
}

// NewService creates a Service using the default logger.
func NewService(partners PartnerRepository, hasher PasswordHasher, tokens TokenIssuer, policy Policy) (*Service, error) {
	return NewServiceWithLogger(partners, hasher, tokens, policy, slog.Default())
}

// NewServiceWithLogger creates a Service with an explicit logger.
func NewServiceWithLogger(partners PartnerRepository, hasher PasswordHasher, tokens TokenIssuer, policy Policy, logger *slog.Logger) (*Service, error) {
	if partners == nil {
		return nil, oops.Errorf("partners repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Errorf("token issuer is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		partners: partners,
		hasher:   hasher,
		tokens:   tokens,
		policy:   policy,
		logger:   logger,
	}, nil
}

// SignUp registers a new rental partner and issues a token pair.
// Checks fail fast in a fixed order; no partner row is created unless all pass.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error) {
	if !in.AgreeToTerms {
		return nil, oops.Code(CodeValidation).Errorf("You must agree to terms and conditions")
	}
	if in.Password != in.ConfirmPassword {
		return nil, oops.Code(CodeValidation).Errorf("Passwords do not match")
	}
	if len(in.Password) < s.policy.MinPasswordLength {
		return nil, oops.Code(CodeValidation).
			Errorf("Password must be at least %d characters", s.policy.MinPasswordLength)
	}

	// Advisory pre-check only: concurrent sign-ups race past it, and the
	// storage-level unique constraint is the real enforcement point.
	_, err := s.partners.FindByEmail(ctx, in.Email)
	if err == nil {
		return nil, errEmailConflict()
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "find partner by email").
			Wrap(err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	partner, err := NewRentalPartner(in.Email, hash, in.FirstName, in.LastName, in.Phone)
	if err != nil {
		return nil, err
	}

	if err := s.partners.Create(ctx, partner); err != nil {
		if errors.Is(err, ErrEmailExists) {
			// Lost the race against a concurrent sign-up; indistinguishable
			// from the pre-check conflict for callers.
			return nil, errEmailConflict()
		}
		return nil, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "create partner").
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "partner registered", "partner_id", partner.ID.String())
	return s.authResult(partner, MsgRegistrationSuccessful, s.policy.TokenExpiryHours)
}

// SignIn authenticates a rental partner and issues a token pair.
// Uses a dummy hash verification for unknown emails to keep timing uniform.
func (s *Service) SignIn(ctx context.Context, email, password string, rememberMe bool) (*AuthResult, error) {
	partner, lookupErr := s.partners.FindByEmail(ctx, email)

	targetHash := dummyPasswordHash
	exists := false
	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, oops.Code("AUTH_SIGNIN_FAILED").
				With("operation", "find partner by email").
				Wrap(lookupErr)
		}
	} else {
		targetHash = partner.PasswordHash
		exists = true
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !exists {
			return nil, errInvalidCredentials()
		}
		return nil, oops.Code("AUTH_SIGNIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !exists || !valid {
		return nil, errInvalidCredentials()
	}

	expiryHours := s.policy.TokenExpiryHours
	if rememberMe {
		expiryHours *= s.policy.RememberMeMultiplier
	}

	s.logger.InfoContext(ctx, "partner signed in",
		"partner_id", partner.ID.String(),
		"remember_me", rememberMe,
	)
	return s.authResult(partner, MsgSignInSuccessful, expiryHours)
}

// authResult builds the success result: user summary plus a primary token with
// the given expiry and a refresh token with the fixed refresh expiry.
func (s *Service) authResult(partner *RentalPartner, message string, tokenHours int) (*AuthResult, error) {
	token, err := s.tokens.Issue(partner.ID.String(), time.Duration(tokenHours)*time.Hour)
	if err != nil {
		return nil, oops.Code("AUTH_TOKEN_FAILED").
			With("operation", "issue primary token").
			Wrap(err)
	}

	refreshToken, err := s.tokens.Issue(partner.ID.String(), time.Duration(s.policy.RefreshExpiryHours)*time.Hour)
	if err != nil {
		return nil, oops.Code("AUTH_TOKEN_FAILED").
			With("operation", "issue refresh token").
			Wrap(err)
	}

	return &AuthResult{
		User: UserSummary{
			ID:        partner.ID.String(),
			Email:     partner.Email,
			FirstName: partner.FirstName,
			LastName:  partner.LastName,
			Phone:     partner.Phone,
		},
		Token:        token,
		RefreshToken: refreshToken,
		Message:      message,
	}, nil
}

func errEmailConflict() error {
	return oops.Code(CodeConflict).With("field", "email").Errorf("Email already exists")
}

func errInvalidCredentials() error {
	return oops.Code(CodeUnauthorized).Errorf("%s", invalidCredentialsMessage)
}
