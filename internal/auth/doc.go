// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ceremo Contributors

// Package auth implements the rental partner authentication workflow.
//
// # Domain Types
//
// RentalPartner instances should be created with NewRentalPartner, which
// validates required fields and stamps creation timestamps. Direct struct
// initialization bypasses validation and may create invalid state; repository
// implementations receive pre-validated values from the constructor.
//
// # Services
//
// Service coordinates sign-up and sign-in over three collaborators: a
// PartnerRepository for persistence, a PasswordHasher for credential
// storage and verification, and a TokenIssuer for minting bearer tokens.
// All failures carry oops codes from the shared taxonomy (CodeValidation,
// CodeUnauthorized, CodeConflict, ...) which the HTTP boundary maps to
// response statuses.
package auth
