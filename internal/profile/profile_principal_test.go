package profile_test

import (
	"context"
	"errors"
	"testing"

	"pharmacy-hr/internal/domain"
	"pharmacy-hr/internal/profile"
	profileMock "pharmacy-hr/internal/profile/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

func TestPrincipalLookup(t *testing.T) {
	ctx := context.Background()
	repo := profileMock.NewMockRepository(gomock.NewController(t))
	lookup := profile.NewPrincipalLookup(repo)
	id := uuid.New()

	repo.EXPECT().FindByID(gomock.Any(), id.String()).
		Return(&profile.Profile{ID: id, Role: domain.RoleManager, IsActive: false}, nil)
	role, active, err := lookup.CurrentPrincipal(ctx, id.String())
	assert.NoError(t, err)
	assert.Equal(t, "manager", role)
	assert.False(t, active)

	repo.EXPECT().FindByID(gomock.Any(), "missing").Return(nil, gorm.ErrRecordNotFound)
	_, active, err = lookup.CurrentPrincipal(ctx, "missing")
	assert.NoError(t, err)
	assert.False(t, active)

	repo.EXPECT().FindByID(gomock.Any(), "x").Return(nil, errors.New("db down"))
	_, _, err = lookup.CurrentPrincipal(ctx, "x")
	assert.EqualError(t, err, "db down")
}
