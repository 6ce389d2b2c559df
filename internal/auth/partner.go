// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ceremo Contributors

package auth

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// istLocation is the fixed business timezone for persisted timestamps.
var istLocation = loadISTLocation()

func loadISTLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Hosts without tzdata still get the correct UTC+5:30 offset.
		return time.FixedZone("IST", 5*3600+30*60)
	}
	return loc
}

// NowIST returns the current time in India Standard Time.
func NowIST() time.Time {
	return time.Now().In(istLocation)
}

// RentalPartner represents a rental partner account.
type RentalPartner struct {
	ID           ulid.ULID
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewRentalPartner creates a validated RentalPartner instance.
// The id is generated here and both timestamps are stamped in IST.
func NewRentalPartner(email, passwordHash, firstName, lastName, phone string) (*RentalPartner, error) {
	if email == "" {
		return nil, oops.Code(CodeValidation).With("field", "email").Errorf("email cannot be empty")
	}
	if passwordHash == "" {
		return nil, oops.Code(CodeValidation).Errorf("password hash cannot be empty")
	}
	if firstName == "" {
		return nil, oops.Code(CodeValidation).With("field", "firstName").Errorf("first name cannot be empty")
	}
	if lastName == "" {
		return nil, oops.Code(CodeValidation).With("field", "lastName").Errorf("last name cannot be empty")
	}
	if phone == "" {
		return nil, oops.Code(CodeValidation).With("field", "phone").Errorf("phone cannot be empty")
	}

	now := NowIST()
	return &RentalPartner{
		ID:           ulid.Make(),
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
