package profile

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// PrincipalLookup serves middleware.AuthMiddlewareWithLookup from the profiles table.
type PrincipalLookup struct {
	repo Repository
}

func NewPrincipalLookup(repo Repository) *PrincipalLookup {
	return &PrincipalLookup{repo: repo}
}

func (l *PrincipalLookup) CurrentPrincipal(ctx context.Context, userID string) (string, bool, error) {
	p, err := l.repo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(p.Role), p.IsActive, nil
}
