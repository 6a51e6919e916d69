package autherrors

import (
	"net/http"

	"pharmacy-hr/internal/shared/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(
		"AUTH_FAILED",
		"Email atau password salah",
		http.StatusUnauthorized,
	)

	ErrInvalidToken = apperror.New(
		"INVALID_TOKEN",
		"Invalid token",
		http.StatusUnauthorized,
	)

	ErrTokenExpired = apperror.New(
		"TOKEN_EXPIRED",
		"Token has expired",
		http.StatusUnauthorized,
	)

	ErrInvalidRefreshToken = apperror.New(
		"INVALID_TOKEN",
		"Invalid refresh token",
		http.StatusUnauthorized,
	)

	ErrMissingRefreshToken = apperror.New(
		"NO_REFRESH_TOKEN",
		"Missing refresh token",
		http.StatusUnauthorized,
	)

	ErrProfileInactive = apperror.New(
		apperror.CodeForbidden,
		"Profile is inactive",
		http.StatusForbidden,
	)

	ErrInvalidInvite = apperror.New(
		"INVALID_INVITE",
		"Invite link is invalid or has expired",
		http.StatusBadRequest,
	)

	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to generate token",
		http.StatusInternalServerError,
	)

	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"You do not have permission to access this resource",
		http.StatusForbidden,
	)
)
