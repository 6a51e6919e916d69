package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"pharmacy-hr/internal/domain"
	"pharmacy-hr/internal/events"
	"pharmacy-hr/internal/messaging/kafka"
	profileerrors "pharmacy-hr/internal/profile/errors"
	"pharmacy-hr/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=profile_service.go -destination=mock/profile_service_mock.go -package=mock
type Service interface {
	GetMe(ctx context.Context, actor domain.Actor) (ProfileResponse, error)
	GetByID(ctx context.Context, actor domain.Actor, id string) (ProfileResponse, error)
	List(ctx context.Context, actor domain.Actor, filter ListFilter) ([]ProfileResponse, error)
	Update(ctx context.Context, actor domain.Actor, id string, req UpdateProfileRequest) (ProfileResponse, error)
	Invite(ctx context.Context, actor domain.Actor, req InviteRequest) (InviteResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, logger...)
}

func NewServiceWithOutbox(db *sql.DB, repo Repository, outboxRepo kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("profile.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("profile.service")
	}
	return &service{db: db, repo: repo, outbox: outboxRepo, logger: l}
}

func (s *service) GetMe(ctx context.Context, actor domain.Actor) (ProfileResponse, error) {
	p, err := s.repo.FindByID(ctx, actor.ID.String())
	if err != nil {
		return ProfileResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*p), nil
}

func (s *service) GetByID(ctx context.Context, actor domain.Actor, id string) (ProfileResponse, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return ProfileResponse{}, profileerrors.ErrInvalidProfileID
	}
	if !actor.Is(pid) && !actor.IsReviewer() {
		return ProfileResponse{}, profileerrors.ErrReadForbidden
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ProfileResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*p), nil
}

func (s *service) List(ctx context.Context, actor domain.Actor, filter ListFilter) ([]ProfileResponse, error) {
	if !actor.IsReviewer() {
		return nil, profileerrors.ErrReviewerRequired
	}
	if filter.Role != "" && !domain.Role(filter.Role).IsValid() {
		return nil, profileerrors.ErrInvalidRole
	}

	profiles, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("list profiles failed", zap.Error(err))
		return nil, err
	}

	resp := make([]ProfileResponse, len(profiles))
	for i, p := range profiles {
		resp[i] = mapToResponse(p)
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, actor domain.Actor, id string, req UpdateProfileRequest) (ProfileResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if !actor.IsReviewer() {
		return ProfileResponse{}, profileerrors.ErrReviewerRequired
	}
	if _, err := uuid.Parse(id); err != nil {
		return ProfileResponse{}, profileerrors.ErrInvalidProfileID
	}
	if err := validateUpdate(req); err != nil {
		return ProfileResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update profile begin tx failed", zap.Error(err))
		return ProfileResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	p, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return ProfileResponse{}, mapRepositoryError(err)
	}

	if req.Role != nil && domain.Role(*req.Role) != p.Role && actor.Role != domain.RoleAdmin {
		s.logger.Warn("role change denied",
			zap.String("request_id", rid),
			zap.String("actor_id", actor.ID.String()),
			zap.String("profile_id", id),
		)
		return ProfileResponse{}, profileerrors.ErrRoleChangeAdminOnly
	}

	payChanged := applyUpdate(p, req)

	if err := qtx.Update(ctx, p); err != nil {
		s.logger.Error("update profile persist failed", zap.String("profile_id", id), zap.Error(err))
		return ProfileResponse{}, mapRepositoryError(err)
	}

	if payChanged {
		if err := s.queueEvent(ctx, tx, p.ID.String(), events.ProfileUpdatedTopic, events.EventProfilePayConfigChanged, events.ProfileUpdatedEvent{
			EventType:  events.EventProfilePayConfigChanged,
			RequestID:  rid,
			ProfileID:  p.ID.String(),
			UpdatedBy:  actor.ID.String(),
			OccurredAt: time.Now().UTC(),
		}); err != nil {
			s.logger.Error("profile updated outbox persist failed", zap.String("profile_id", id), zap.Error(err))
			return ProfileResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update profile commit failed", zap.Error(err))
		return ProfileResponse{}, err
	}

	s.logger.Info("update profile success",
		zap.String("request_id", rid),
		zap.String("profile_id", id),
		zap.String("actor_id", actor.ID.String()),
		zap.Bool("pay_config_changed", payChanged),
	)
	return mapToResponse(*p), nil
}

func (s *service) Invite(ctx context.Context, actor domain.Actor, req InviteRequest) (InviteResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if actor.Role != domain.RoleAdmin {
		return InviteResponse{}, profileerrors.ErrAdminRequired
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)
	if email == "" {
		return InviteResponse{}, profileerrors.ErrEmailRequired
	}
	if name == "" {
		return InviteResponse{}, profileerrors.ErrNameRequired
	}
	role := domain.RoleStaff
	if req.Role != "" {
		role = domain.Role(req.Role)
		if !role.IsValid() {
			return InviteResponse{}, profileerrors.ErrInvalidRole
		}
	}

	me, err := s.repo.FindByID(ctx, actor.ID.String())
	if err != nil {
		return InviteResponse{}, mapRepositoryError(err)
	}
	if !me.IsActive {
		return InviteResponse{}, profileerrors.ErrActorInactive
	}

	raw, hash, err := NewInviteToken()
	if err != nil {
		s.logger.Error("invite token generation failed", zap.Error(err))
		return InviteResponse{}, err
	}
	expiresAt := time.Now().UTC().Add(InviteTTL)

	p := Profile{
		ID:       uuid.New(),
		Email:    email,
		Name:     name,
		Role:     role,
		IsActive: true,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("invite begin tx failed", zap.Error(err))
		return InviteResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, &p); err != nil {
		s.logger.Warn("invite create profile failed", zap.String("email", email), zap.Error(err))
		return InviteResponse{}, mapRepositoryError(err)
	}
	if err := qtx.CreateCredential(ctx, &Credential{
		ProfileID:       p.ID,
		InviteTokenHash: &hash,
		InviteExpiresAt: &expiresAt,
	}); err != nil {
		s.logger.Error("invite create credential failed", zap.Error(err))
		return InviteResponse{}, err
	}

	if err := s.queueEvent(ctx, tx, p.ID.String(), events.ProfileInvitedTopic, events.EventProfileInvited, events.ProfileInvitedEvent{
		EventType:   events.EventProfileInvited,
		RequestID:   rid,
		ProfileID:   p.ID.String(),
		Email:       p.Email,
		Name:        p.Name,
		Role:        string(p.Role),
		InviteToken: raw,
		ExpiresAt:   expiresAt,
		InvitedBy:   actor.ID.String(),
		OccurredAt:  time.Now().UTC(),
	}); err != nil {
		s.logger.Error("invite outbox persist failed", zap.Error(err))
		return InviteResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("invite commit failed", zap.Error(err))
		return InviteResponse{}, err
	}

	s.logger.Info("invite success",
		zap.String("request_id", rid),
		zap.String("profile_id", p.ID.String()),
		zap.String("role", string(p.Role)),
		zap.String("actor_id", actor.ID.String()),
	)
	return InviteResponse{
		Profile:         mapToResponse(p),
		InviteExpiresAt: expiresAt.Format(time.RFC3339),
	}, nil
}

func (s *service) queueEvent(ctx context.Context, tx *sql.Tx, aggregateID, topic, eventType string, event any) error {
	if s.outbox == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "profile",
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func validateUpdate(req UpdateProfileRequest) error {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return profileerrors.ErrNameRequired
	}
	if req.HourlyRate != nil && *req.HourlyRate < 0 {
		return profileerrors.ErrInvalidHourlyRate
	}
	if req.TaxRate != nil && (*req.TaxRate < 0 || *req.TaxRate >= 1) {
		return profileerrors.ErrInvalidTaxRate
	}
	if req.Role != nil && !domain.Role(*req.Role).IsValid() {
		return profileerrors.ErrInvalidRole
	}
	return nil
}

// applyUpdate reports whether anything payroll depends on changed.
func applyUpdate(p *Profile, req UpdateProfileRequest) bool {
	changed := false
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		p.Role = domain.Role(*req.Role)
	}
	if req.HourlyRate != nil && *req.HourlyRate != p.HourlyRate {
		p.HourlyRate = *req.HourlyRate
		changed = true
	}
	if req.TaxRate != nil && *req.TaxRate != p.TaxRate {
		p.TaxRate = *req.TaxRate
		changed = true
	}
	if req.IsActive != nil && *req.IsActive != p.IsActive {
		p.IsActive = *req.IsActive
		changed = true
	}
	return changed
}

func mapToResponse(p Profile) ProfileResponse {
	return ProfileResponse{
		ID:         p.ID.String(),
		Email:      p.Email,
		Name:       p.Name,
		Role:       string(p.Role),
		HourlyRate: p.HourlyRate,
		TaxRate:    p.TaxRate,
		IsActive:   p.IsActive,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
	}
}
