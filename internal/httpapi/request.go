// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ceremo Contributors

package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/mail"
	"strings"

	"github.com/samber/oops"

	"github.com/ceremo/partnerauth/internal/auth"
)

// SignUpRequest is the sign-up request body.
type SignUpRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	AgreeToTerms    bool   `json:"agreeToTerms"`
}

// Validate checks field presence and email format. All failing fields are
// reported in one message, joined with "; ".
func (r SignUpRequest) Validate() error {
	var errs []string
	if r.FirstName == "" {
		errs = append(errs, "firstName: field required")
	}
	if r.LastName == "" {
		errs = append(errs, "lastName: field required")
	}
	errs = appendEmailErrors(errs, r.Email)
	if r.Phone == "" {
		errs = append(errs, "phone: field required")
	}
	if r.Password == "" {
		errs = append(errs, "password: field required")
	}
	if r.ConfirmPassword == "" {
		errs = append(errs, "confirmPassword: field required")
	}
	return validationError(errs)
}

// SignInRequest is the sign-in request body.
type SignInRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

// Validate checks field presence and email format.
func (r SignInRequest) Validate() error {
	var errs []string
	errs = appendEmailErrors(errs, r.Email)
	if r.Password == "" {
		errs = append(errs, "password: field required")
	}
	return validationError(errs)
}

func appendEmailErrors(errs []string, email string) []string {
	if email == "" {
		return append(errs, "email: field required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return append(errs, "email: value is not a valid email address")
	}
	return errs
}

func validationError(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return oops.Code(auth.CodeValidation).Errorf("%s", strings.Join(errs, "; "))
}

// decodeJSON reads a JSON request body into dst. Wrong content type, an
// empty body, and malformed JSON are all validation failures.
func decodeJSON(r *http.Request, dst any) error {
	ct := r.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(ct); err != nil || mediaType != "application/json" {
		return oops.Code(auth.CodeValidation).Errorf("Content-Type must be application/json")
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return oops.Code(auth.CodeValidation).Errorf("Request body must contain valid JSON")
		}
		return oops.Code(auth.CodeValidation).Errorf("Invalid JSON format")
	}
	return nil
}
