// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ceremo Contributors

// Package mocks provides testify mocks for the auth package interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ceremo/partnerauth/internal/auth"
)

// testingT is the subset of *testing.T the mock constructors need.
type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockPartnerRepository is a mock implementation of auth.PartnerRepository.
type MockPartnerRepository struct {
	mock.Mock
}

// NewMockPartnerRepository creates a MockPartnerRepository that asserts its
// expectations during test cleanup.
func NewMockPartnerRepository(t testingT) *MockPartnerRepository {
	m := &MockPartnerRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// FindByEmail mocks auth.PartnerRepository.FindByEmail.
func (m *MockPartnerRepository) FindByEmail(ctx context.Context, email string) (*auth.RentalPartner, error) {
	args := m.Called(ctx, email)
	var partner *auth.RentalPartner
	if v := args.Get(0); v != nil {
		partner = v.(*auth.RentalPartner)
	}
	return partner, args.Error(1)
}

// Create mocks auth.PartnerRepository.Create.
func (m *MockPartnerRepository) Create(ctx context.Context, partner *auth.RentalPartner) error {
	args := m.Called(ctx, partner)
	return args.Error(0)
}

// MockPasswordHasher is a mock implementation of auth.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher creates a MockPasswordHasher that asserts its
// expectations during test cleanup.
func NewMockPasswordHasher(t testingT) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Hash mocks auth.PasswordHasher.Hash.
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

// Verify mocks auth.PasswordHasher.Verify.
func (m *MockPasswordHasher) Verify(password, hash string) (bool, error) {
	args := m.Called(password, hash)
	return args.Bool(0), args.Error(1)
}

// MockTokenIssuer is a mock implementation of auth.TokenIssuer.
type MockTokenIssuer struct {
	mock.Mock
}

// NewMockTokenIssuer creates a MockTokenIssuer that asserts its expectations
// during test cleanup.
func NewMockTokenIssuer(t testingT) *MockTokenIssuer {
	m := &MockTokenIssuer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Issue mocks auth.TokenIssuer.Issue.
func (m *MockTokenIssuer) Issue(subject string, ttl time.Duration) (string, error) {
	args := m.Called(subject, ttl)
	return args.String(0), args.Error(1)
}
