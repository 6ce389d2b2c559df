// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ceremo Contributors

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// TokenIssuer mints signed bearer tokens for a subject.
type TokenIssuer interface {
	// Issue produces a compact signed token for the subject,
	// valid from now until now + ttl.
	Issue(subject string, ttl time.Duration) (string, error)
}

// JWTIssuer implements TokenIssuer using HS256-signed JWTs.
// Tokens carry the subject id, issued-at, and expiry, and are verifiable
// by any holder of the secret without server-side state.
type JWTIssuer struct {
	secret []byte
}

// NewJWTIssuer creates a JWTIssuer signing with the given symmetric secret.
func NewJWTIssuer(secret string) (*JWTIssuer, error) {
	if secret == "" {
		return nil, oops.Code("AUTH_SECRET_EMPTY").Errorf("signing secret cannot be empty")
	}
	return &JWTIssuer{secret: []byte(secret)}, nil
}

// Issue mints a signed token for the subject.
func (i *JWTIssuer) Issue(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", oops.Code("AUTH_TOKEN_FAILED").Errorf("token subject cannot be empty")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", oops.Code("AUTH_TOKEN_FAILED").With("operation", "sign token").Wrap(err)
	}
	return token, nil
}

// Parse verifies the token's signature and expiry and returns its claims.
func (i *JWTIssuer) Parse(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(_ *jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, oops.Code(CodeUnauthorized).With("operation", "parse token").Wrap(err)
	}
	if !token.Valid {
		return nil, oops.Code(CodeUnauthorized).Errorf("invalid token")
	}

	return claims, nil
}
