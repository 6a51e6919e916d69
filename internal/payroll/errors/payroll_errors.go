package payrollerrors

import (
	"net/http"

	"pharmacy-hr/internal/shared/apperror"
)

var (
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidDays = apperror.New(
		apperror.CodeInvalidInput,
		"days must be between 1 and 366",
		http.StatusBadRequest,
	)
	ErrProfileNotFound = apperror.New(
		apperror.CodeNotFound,
		"profile not found",
		http.StatusNotFound,
	)
	ErrReadForbidden = apperror.New(
		apperror.CodeForbidden,
		"staff can only read their own payroll",
		http.StatusForbidden,
	)
	ErrReviewerRequired = apperror.New(
		apperror.CodeForbidden,
		"only admin or manager can export payroll",
		http.StatusForbidden,
	)
	ErrExportFailed = apperror.New(
		apperror.CodeInternalError,
		"failed to build payroll export",
		http.StatusInternalServerError,
	)
)
