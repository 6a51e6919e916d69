package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	autherrors "pharmacy-hr/internal/auth/errors"
	"pharmacy-hr/internal/profile"
	"pharmacy-hr/internal/shared/token"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error)

	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)

	GetMe(ctx context.Context, userID string) (*AuthResponse, error)

	AcceptInvite(ctx context.Context, req AcceptInviteRequest) (AuthResponse, error)
}

type service struct {
	repo   Repository
	secret string
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, jwtSecret string, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, secret: jwtSecret, now: time.Now, logger: l}
}

func (s *service) Login(ctx context.Context, email, password string) (string, string, AuthResponse, error) {
	// 1. Ambil profile
	p, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	// 2. Verify password; invite yang belum diterima belum punya password
	cred, err := s.repo.FindCredential(ctx, p.ID.String())
	if err != nil || cred.PasswordHash == nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*cred.PasswordHash), []byte(password)); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if !p.IsActive {
		s.logger.Warn("login refused for inactive profile", zap.String("profile_id", p.ID.String()))
		return "", "", AuthResponse{}, autherrors.ErrProfileInactive
	}

	access, refresh, err := s.issuePair(p)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	s.logger.Info("login success", zap.String("profile_id", p.ID.String()), zap.String("role", string(p.Role)))
	return access, refresh, mapToResponse(p), nil
}

// RefreshToken re-reads the profile so role changes and deactivation apply on the next refresh.
func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	claims, err := token.Parse(s.secret, refreshToken, token.KindRefresh)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	p, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}
	if !p.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrProfileInactive
	}

	access, refresh, err := s.issuePair(p)
	if err != nil {
		return "", "", AuthResponse{}, err
	}
	return access, refresh, mapToResponse(p), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	p, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, autherrors.ErrInvalidToken
	}
	resp := mapToResponse(p)
	return &resp, nil
}

func (s *service) AcceptInvite(ctx context.Context, req AcceptInviteRequest) (AuthResponse, error) {
	cred, err := s.repo.FindCredentialByInviteHash(ctx, profile.HashInviteToken(strings.TrimSpace(req.Token)))
	if err != nil {
		return AuthResponse{}, autherrors.ErrInvalidInvite
	}
	now := s.now().UTC()
	if cred.InviteExpiresAt == nil || now.After(*cred.InviteExpiresAt) {
		return AuthResponse{}, autherrors.ErrInvalidInvite
	}

	p, err := s.repo.FindByID(ctx, cred.ProfileID.String())
	if err != nil {
		return AuthResponse{}, autherrors.ErrInvalidInvite
	}
	if !p.IsActive {
		return AuthResponse{}, autherrors.ErrProfileInactive
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return AuthResponse{}, autherrors.ErrInvalidInvite
		}
		return AuthResponse{}, err
	}

	h := string(hashed)
	cred.PasswordHash = &h
	cred.PasswordSetAt = &now
	cred.InviteTokenHash = nil
	cred.InviteExpiresAt = nil
	if err := s.repo.UpdateCredential(ctx, cred); err != nil {
		s.logger.Error("accept invite persist failed", zap.String("profile_id", p.ID.String()), zap.Error(err))
		return AuthResponse{}, err
	}

	s.logger.Info("invite accepted", zap.String("profile_id", p.ID.String()))
	return mapToResponse(p), nil
}

func (s *service) issuePair(p *profile.Profile) (string, string, error) {
	access, err := token.Issue(s.secret, p.ID.String(), string(p.Role), token.KindAccess, token.AccessTTL)
	if err != nil {
		return "", "", autherrors.ErrTokenGenerationFailed
	}
	refresh, err := token.Issue(s.secret, p.ID.String(), string(p.Role), token.KindRefresh, token.RefreshTTL)
	if err != nil {
		return "", "", autherrors.ErrTokenGenerationFailed
	}
	return access, refresh, nil
}

func mapToResponse(p *profile.Profile) AuthResponse {
	return AuthResponse{
		ID:    p.ID.String(),
		Email: p.Email,
		Name:  p.Name,
		Role:  string(p.Role),
	}
}
