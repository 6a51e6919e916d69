package profile_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"pharmacy-hr/internal/domain"
	"pharmacy-hr/internal/events"
	"pharmacy-hr/internal/messaging/kafka"
	kafkaMock "pharmacy-hr/internal/messaging/kafka/mock"
	"pharmacy-hr/internal/profile"
	profileerrors "pharmacy-hr/internal/profile/errors"
	profileMock "pharmacy-hr/internal/profile/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type profileDeps struct {
	sqlMock sqlmock.Sqlmock
	repo    *profileMock.MockRepository
	outbox  *kafkaMock.MockOutboxRepository
	svc     profile.Service
}

func setupProfileServiceTest(t *testing.T) *profileDeps {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	ctrl := gomock.NewController(t)
	repo := profileMock.NewMockRepository(ctrl)
	outbox := kafkaMock.NewMockOutboxRepository(ctrl)

	t.Cleanup(func() {
		assert.NoError(t, sqlMock.ExpectationsWereMet())
		db.Close()
	})

	return &profileDeps{
		sqlMock: sqlMock,
		repo:    repo,
		outbox:  outbox,
		svc:     profile.NewServiceWithOutbox(db, repo, outbox),
	}
}

func expectTx(mock sqlmock.Sqlmock, commit bool) {
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func actor(role domain.Role) domain.Actor {
	return domain.Actor{ID: uuid.New(), Role: role}
}

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }

func TestProfileService_GetByID(t *testing.T) {
	ctx := context.Background()
	deps := setupProfileServiceTest(t)
	staff := actor(domain.RoleStaff)

	t.Run("own profile", func(t *testing.T) {
		deps.repo.EXPECT().FindByID(gomock.Any(), staff.ID.String()).
			Return(&profile.Profile{ID: staff.ID, Email: "me@pharmacy.test", Role: domain.RoleStaff}, nil)

		resp, err := deps.svc.GetByID(ctx, staff, staff.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, "me@pharmacy.test", resp.Email)
	})

	t.Run("someone else as staff", func(t *testing.T) {
		_, err := deps.svc.GetByID(ctx, staff, uuid.NewString())
		assert.ErrorIs(t, err, profileerrors.ErrReadForbidden)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.NewString()
		deps.repo.EXPECT().FindByID(gomock.Any(), id).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.svc.GetByID(ctx, actor(domain.RoleManager), id)
		assert.ErrorIs(t, err, profileerrors.ErrProfileNotFound)
	})
}

func TestProfileService_List(t *testing.T) {
	ctx := context.Background()
	deps := setupProfileServiceTest(t)

	_, err := deps.svc.List(ctx, actor(domain.RoleStaff), profile.ListFilter{})
	assert.ErrorIs(t, err, profileerrors.ErrReviewerRequired)

	deps.repo.EXPECT().FindAll(gomock.Any(), profile.ListFilter{Role: "staff"}).
		Return([]profile.Profile{{ID: uuid.New(), Email: "a@pharmacy.test"}, {ID: uuid.New(), Email: "b@pharmacy.test"}}, nil)

	resp, err := deps.svc.List(ctx, actor(domain.RoleManager), profile.ListFilter{Role: "staff"})
	assert.NoError(t, err)
	assert.Len(t, resp, 2)
}

func TestProfileService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("pay config change queues event", func(t *testing.T) {
		deps := setupProfileServiceTest(t)
		manager := actor(domain.RoleManager)
		target := profile.Profile{ID: uuid.New(), Email: "kim@pharmacy.test", Role: domain.RoleStaff, HourlyRate: 9000, IsActive: true}
		expectTx(deps.sqlMock, true)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByIDForUpdate(gomock.Any(), target.ID.String()).Return(&target, nil)
		deps.repo.EXPECT().Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *profile.Profile) error {
				assert.Equal(t, 10000.0, p.HourlyRate)
				assert.Equal(t, 0.033, p.TaxRate)
				return nil
			})
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e kafka.OutboxEvent) error {
				assert.Equal(t, events.ProfileUpdatedTopic, e.Topic)
				assert.Equal(t, target.ID.String(), e.AggregateID)
				return nil
			})

		resp, err := deps.svc.Update(ctx, manager, target.ID.String(), profile.UpdateProfileRequest{
			HourlyRate: f64(10000),
			TaxRate:    f64(0.033),
		})
		assert.NoError(t, err)
		assert.Equal(t, 10000.0, resp.HourlyRate)
	})

	t.Run("name only change does not queue event", func(t *testing.T) {
		deps := setupProfileServiceTest(t)
		target := profile.Profile{ID: uuid.New(), Role: domain.RoleStaff}
		expectTx(deps.sqlMock, true)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByIDForUpdate(gomock.Any(), target.ID.String()).Return(&target, nil)
		deps.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		resp, err := deps.svc.Update(ctx, actor(domain.RoleAdmin), target.ID.String(), profile.UpdateProfileRequest{Name: str("  Park  ")})
		assert.NoError(t, err)
		assert.Equal(t, "Park", resp.Name)
	})

	t.Run("manager cannot change role", func(t *testing.T) {
		deps := setupProfileServiceTest(t)
		target := profile.Profile{ID: uuid.New(), Role: domain.RoleStaff}
		expectTx(deps.sqlMock, false)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByIDForUpdate(gomock.Any(), target.ID.String()).Return(&target, nil)

		_, err := deps.svc.Update(ctx, actor(domain.RoleManager), target.ID.String(), profile.UpdateProfileRequest{Role: str("admin")})
		assert.ErrorIs(t, err, profileerrors.ErrRoleChangeAdminOnly)
	})

	t.Run("validation", func(t *testing.T) {
		deps := setupProfileServiceTest(t)
		admin := actor(domain.RoleAdmin)
		id := uuid.NewString()

		_, err := deps.svc.Update(ctx, admin, id, profile.UpdateProfileRequest{HourlyRate: f64(-1)})
		assert.ErrorIs(t, err, profileerrors.ErrInvalidHourlyRate)

		_, err = deps.svc.Update(ctx, admin, id, profile.UpdateProfileRequest{TaxRate: f64(1)})
		assert.ErrorIs(t, err, profileerrors.ErrInvalidTaxRate)

		_, err = deps.svc.Update(ctx, admin, id, profile.UpdateProfileRequest{Role: str("owner")})
		assert.ErrorIs(t, err, profileerrors.ErrInvalidRole)

		_, err = deps.svc.Update(ctx, actor(domain.RoleStaff), id, profile.UpdateProfileRequest{})
		assert.ErrorIs(t, err, profileerrors.ErrReviewerRequired)

		_, err = deps.svc.Update(ctx, admin, "nope", profile.UpdateProfileRequest{})
		assert.ErrorIs(t, err, profileerrors.ErrInvalidProfileID)
	})
}

func TestProfileService_Invite(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupProfileServiceTest(t)
		admin := actor(domain.RoleAdmin)
		expectTx(deps.sqlMock, true)

		deps.repo.EXPECT().FindByID(gomock.Any(), admin.ID.String()).
			Return(&profile.Profile{ID: admin.ID, Role: domain.RoleAdmin, IsActive: true}, nil)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)

		var created profile.Profile
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *profile.Profile) error {
				created = *p
				return nil
			})

		var storedHash string
		deps.repo.EXPECT().CreateCredential(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, c *profile.Credential) error {
				assert.Nil(t, c.PasswordHash)
				assert.NotNil(t, c.InviteExpiresAt)
				storedHash = *c.InviteTokenHash
				return nil
			})

		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e kafka.OutboxEvent) error {
				var payload events.ProfileInvitedEvent
				assert.NoError(t, json.Unmarshal(e.Payload, &payload))
				assert.Equal(t, "new@pharmacy.test", payload.Email)
				assert.Equal(t, "staff", payload.Role)
				assert.Equal(t, storedHash, profile.HashInviteToken(payload.InviteToken))
				return nil
			})

		resp, err := deps.svc.Invite(ctx, admin, profile.InviteRequest{Email: " New@Pharmacy.test ", Name: "Lee"})
		assert.NoError(t, err)
		assert.Equal(t, "new@pharmacy.test", resp.Profile.Email)
		assert.Equal(t, "staff", resp.Profile.Role)
		assert.Equal(t, created.ID.String(), resp.Profile.ID)
		assert.True(t, created.IsActive)
	})

	t.Run("duplicate email", func(t *testing.T) {
		deps := setupProfileServiceTest(t)
		admin := actor(domain.RoleAdmin)
		expectTx(deps.sqlMock, false)

		deps.repo.EXPECT().FindByID(gomock.Any(), admin.ID.String()).
			Return(&profile.Profile{ID: admin.ID, Role: domain.RoleAdmin, IsActive: true}, nil)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_profiles_email"})

		_, err := deps.svc.Invite(ctx, admin, profile.InviteRequest{Email: "dup@pharmacy.test", Name: "Dup"})
		assert.ErrorIs(t, err, profileerrors.ErrEmailAlreadyRegistered)
	})

	t.Run("inactive admin", func(t *testing.T) {
		deps := setupProfileServiceTest(t)
		admin := actor(domain.RoleAdmin)

		deps.repo.EXPECT().FindByID(gomock.Any(), admin.ID.String()).
			Return(&profile.Profile{ID: admin.ID, Role: domain.RoleAdmin, IsActive: false}, nil)

		_, err := deps.svc.Invite(ctx, admin, profile.InviteRequest{Email: "x@pharmacy.test", Name: "X"})
		assert.ErrorIs(t, err, profileerrors.ErrActorInactive)
	})

	t.Run("input and permission checks", func(t *testing.T) {
		deps := setupProfileServiceTest(t)

		_, err := deps.svc.Invite(ctx, actor(domain.RoleManager), profile.InviteRequest{Email: "x@pharmacy.test", Name: "X"})
		assert.ErrorIs(t, err, profileerrors.ErrAdminRequired)

		_, err = deps.svc.Invite(ctx, actor(domain.RoleAdmin), profile.InviteRequest{Email: "x@pharmacy.test", Name: "  "})
		assert.ErrorIs(t, err, profileerrors.ErrNameRequired)

		_, err = deps.svc.Invite(ctx, actor(domain.RoleAdmin), profile.InviteRequest{Email: "x@pharmacy.test", Name: "X", Role: "owner"})
		assert.ErrorIs(t, err, profileerrors.ErrInvalidRole)
	})

	t.Run("credential failure rolls back", func(t *testing.T) {
		deps := setupProfileServiceTest(t)
		admin := actor(domain.RoleAdmin)
		expectTx(deps.sqlMock, false)

		deps.repo.EXPECT().FindByID(gomock.Any(), admin.ID.String()).
			Return(&profile.Profile{ID: admin.ID, Role: domain.RoleAdmin, IsActive: true}, nil)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		deps.repo.EXPECT().CreateCredential(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))

		_, err := deps.svc.Invite(ctx, admin, profile.InviteRequest{Email: "x@pharmacy.test", Name: "X"})
		assert.EqualError(t, err, "insert failed")
	})
}

func TestInviteToken(t *testing.T) {
	raw, hash, err := profile.NewInviteToken()
	assert.NoError(t, err)
	assert.Len(t, raw, 64)
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, profile.HashInviteToken(raw))
	assert.NotEqual(t, raw, hash)
}

