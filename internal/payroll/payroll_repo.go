package payroll

import (
	"context"
	"errors"
	"time"

	payrollerrors "pharmacy-hr/internal/payroll/errors"
	"pharmacy-hr/internal/profile"
	"pharmacy-hr/internal/worklog"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads what payroll needs from the profile and work log stores.
// Payroll keeps no tables of its own.
//
//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	FindProfile(ctx context.Context, id string) (*profile.Profile, error)
	FindActiveProfiles(ctx context.Context) ([]profile.Profile, error)
	ListApproved(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]worklog.WorkLog, error)
}

type approvedLister interface {
	ListApproved(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]worklog.WorkLog, error)
}

type repository struct {
	profiles profile.Repository
	worklogs approvedLister
}

func NewRepository(profiles profile.Repository, worklogs approvedLister) Repository {
	return &repository{profiles: profiles, worklogs: worklogs}
}

func (r *repository) FindProfile(ctx context.Context, id string) (*profile.Profile, error) {
	p, err := r.profiles.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, payrollerrors.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) FindActiveProfiles(ctx context.Context) ([]profile.Profile, error) {
	return r.profiles.FindAll(ctx, profile.ListFilter{ActiveOnly: true})
}

func (r *repository) ListApproved(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]worklog.WorkLog, error) {
	return r.worklogs.ListApproved(ctx, ownerID, from, to)
}
