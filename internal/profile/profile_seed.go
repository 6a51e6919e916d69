package profile

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	profileerrors "pharmacy-hr/internal/profile/errors"

	"pharmacy-hr/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MinPasswordLength matches the accept-invite rule.
const MinPasswordLength = 8

var ErrPasswordTooShort = errors.New("password must be at least 8 characters")

// SeedAdmin bootstraps the first admin account. An existing profile with the
// same email is promoted to admin, reactivated and given the new password.
func SeedAdmin(ctx context.Context, db *sql.DB, repo Repository, email, name, password string) (*Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" {
		return nil, profileerrors.ErrEmailRequired
	}
	if name == "" {
		return nil, profileerrors.ErrNameRequired
	}
	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hash := string(hashed)
	now := time.Now().UTC()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := repo.WithTx(tx)
	p, err := qtx.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		p = &Profile{
			ID:       uuid.New(),
			Email:    email,
			Name:     name,
			Role:     domain.RoleAdmin,
			IsActive: true,
		}
		if err := qtx.Create(ctx, p); err != nil {
			return nil, mapRepositoryError(err)
		}
		if err := qtx.CreateCredential(ctx, &Credential{
			ProfileID:     p.ID,
			PasswordHash:  &hash,
			PasswordSetAt: &now,
		}); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		p.Role = domain.RoleAdmin
		p.IsActive = true
		if err := qtx.Update(ctx, p); err != nil {
			return nil, mapRepositoryError(err)
		}

		cred, err := qtx.FindCredential(ctx, p.ID.String())
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if cred == nil || errors.Is(err, gorm.ErrRecordNotFound) {
			err = qtx.CreateCredential(ctx, &Credential{
				ProfileID:     p.ID,
				PasswordHash:  &hash,
				PasswordSetAt: &now,
			})
		} else {
			cred.PasswordHash = &hash
			cred.PasswordSetAt = &now
			cred.InviteTokenHash = nil
			cred.InviteExpiresAt = nil
			err = qtx.UpdateCredential(ctx, cred)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return p, nil
}
