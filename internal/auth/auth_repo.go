package auth

import (
	"context"

	"pharmacy-hr/internal/profile"
)

// Repository is the slice of profile.Repository that authentication needs.
//
//go:generate mockgen -source=auth_repo.go -destination=mock/auth_repo_mock.go -package=mock
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*profile.Profile, error)
	FindByID(ctx context.Context, id string) (*profile.Profile, error)
	FindCredential(ctx context.Context, profileID string) (*profile.Credential, error)
	FindCredentialByInviteHash(ctx context.Context, hash string) (*profile.Credential, error)
	UpdateCredential(ctx context.Context, c *profile.Credential) error
}
