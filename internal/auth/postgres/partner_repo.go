// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ceremo Contributors

// Package postgres implements auth repositories using PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/ceremo/partnerauth/internal/auth"
)

// poolIface is the subset of pgxpool.Pool the repository uses.
// pgxmock satisfies it in unit tests.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PartnerRepository implements auth.PartnerRepository using PostgreSQL.
type PartnerRepository struct {
	pool poolIface
}

// NewPartnerRepository creates a new PartnerRepository.
func NewPartnerRepository(pool poolIface) *PartnerRepository {
	return &PartnerRepository{pool: pool}
}

// Create stores a new rental partner.
// The unique index on email is the enforcement point for duplicates: a
// concurrent insert that wins the race surfaces here as auth.ErrEmailExists.
func (r *PartnerRepository) Create(ctx context.Context, partner *auth.RentalPartner) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO rental_partners (
			id, email, password_hash, first_name, last_name, phone,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		partner.ID.String(),
		partner.Email,
		partner.PasswordHash,
		partner.FirstName,
		partner.LastName,
		partner.Phone,
		partner.CreatedAt,
		partner.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("PARTNER_EMAIL_EXISTS").
				With("email", partner.Email).
				Wrap(auth.ErrEmailExists)
		}
		return oops.Code("PARTNER_CREATE_FAILED").
			With("operation", "insert partner").
			Wrap(err)
	}
	return nil
}

// FindByEmail retrieves a rental partner by exact email match.
func (r *PartnerRepository) FindByEmail(ctx context.Context, email string) (*auth.RentalPartner, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, first_name, last_name, phone,
		       created_at, updated_at
		FROM rental_partners
		WHERE email = $1
	`, email)

	partner, err := scanPartner(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("PARTNER_NOT_FOUND").
			With("email", email).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("PARTNER_FIND_FAILED").
			With("operation", "find partner by email").
			Wrap(err)
	}
	return partner, nil
}

// scanPartner scans a single row into a RentalPartner.
// Callers are responsible for handling pgx.ErrNoRows.
func scanPartner(row pgx.Row) (*auth.RentalPartner, error) {
	var (
		idStr        string
		email        string
		passwordHash string
		firstName    string
		lastName     string
		phone        string
		createdAt    time.Time
		updatedAt    time.Time
	)

	if err := row.Scan(&idStr, &email, &passwordHash, &firstName, &lastName, &phone, &createdAt, &updatedAt); err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with operation context
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("PARTNER_ID_INVALID").With("id", idStr).Wrap(err)
	}

	return &auth.RentalPartner{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        phone,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}
