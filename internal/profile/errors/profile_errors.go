package profileerrors

import (
	"net/http"

	"pharmacy-hr/internal/shared/apperror"
)

var (
	ErrProfileNotFound = apperror.New(
		apperror.CodeNotFound,
		"Profile not found",
		http.StatusNotFound,
	)

	ErrEmailAlreadyRegistered = apperror.New(
		apperror.CodeConflict,
		"A profile with the same email already exists",
		http.StatusConflict,
	)

	ErrInvalidProfileID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid profile ID",
		http.StatusBadRequest,
	)

	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"role must be one of admin, manager, staff",
		http.StatusBadRequest,
	)

	ErrInvalidHourlyRate = apperror.New(
		apperror.CodeInvalidInput,
		"hourly_rate must not be negative",
		http.StatusBadRequest,
	)

	ErrInvalidTaxRate = apperror.New(
		apperror.CodeInvalidInput,
		"tax_rate must be between 0 and 1",
		http.StatusBadRequest,
	)

	ErrNameRequired  = apperror.RequiredField("name")
	ErrEmailRequired = apperror.RequiredField("email")
)

// Permission
var (
	ErrReviewerRequired = apperror.New(
		apperror.CodeForbidden,
		"Only managers and admins can manage profiles",
		http.StatusForbidden,
	)

	ErrAdminRequired = apperror.New(
		apperror.CodeForbidden,
		"Only admins can invite members",
		http.StatusForbidden,
	)

	ErrRoleChangeAdminOnly = apperror.New(
		apperror.CodeForbidden,
		"Only admins can change roles",
		http.StatusForbidden,
	)

	ErrActorInactive = apperror.New(
		apperror.CodeForbidden,
		"Your profile is inactive",
		http.StatusForbidden,
	)

	ErrReadForbidden = apperror.New(
		apperror.CodeForbidden,
		"You can only view your own profile",
		http.StatusForbidden,
	)
)
