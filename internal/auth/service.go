package auth

import (
	"context"

	"github.com/geotrace/geotrace/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate validates email/password credentials. An unknown email
// surfaces as shared.ErrNotFound and a wrong password as
// shared.ErrInvalidCredentials; the login handler keeps them distinct.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !CheckPassword(password, user.PasswordHash) {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Resolve loads the user record behind a verified token. A token can
// outlive its account, so the check handler re-resolves on every call.
func (s *Service) Resolve(ctx context.Context, userID string) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}
