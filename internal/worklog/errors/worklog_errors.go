package worklogerrors

import (
	"net/http"

	"pharmacy-hr/internal/shared/apperror"
)

// Validation
var (
	ErrWorkDateRequired = apperror.New(
		apperror.CodeInvalidInput,
		"work_date is required",
		http.StatusBadRequest,
	)
	ErrInvalidWorkDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid work_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrStartTimeRequired = apperror.New(
		apperror.CodeInvalidInput,
		"start_time is required",
		http.StatusBadRequest,
	)
	ErrEndTimeRequired = apperror.New(
		apperror.CodeInvalidInput,
		"end_time is required",
		http.StatusBadRequest,
	)
	ErrInvalidStartTime = apperror.New(
		apperror.CodeInvalidInput,
		"invalid start_time, expected HH:MM",
		http.StatusBadRequest,
	)
	ErrInvalidEndTime = apperror.New(
		apperror.CodeInvalidInput,
		"invalid end_time, expected HH:MM",
		http.StatusBadRequest,
	)
	ErrNegativeBreak = apperror.New(
		apperror.CodeInvalidInput,
		"break_minutes must not be negative",
		http.StatusBadRequest,
	)
	ErrInvalidWorkLogID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid work log id",
		http.StatusBadRequest,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"invalid status filter",
		http.StatusBadRequest,
	)
)

// State
var (
	ErrNotEditable = apperror.New(
		apperror.CodeInvalidState,
		"only draft or rejected work logs can be changed",
		http.StatusConflict,
	)
	ErrNotSubmitted = apperror.New(
		apperror.CodeInvalidState,
		"only submitted work logs can be reviewed",
		http.StatusConflict,
	)
)

// Permission
var (
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"only the owner can change this work log",
		http.StatusForbidden,
	)
	ErrReviewerRequired = apperror.New(
		apperror.CodeForbidden,
		"only admin or manager can review work logs",
		http.StatusForbidden,
	)
	ErrReadForbidden = apperror.New(
		apperror.CodeForbidden,
		"you cannot view this work log",
		http.StatusForbidden,
	)
)

var ErrWorkLogNotFound = apperror.New(
	apperror.CodeNotFound,
	"work log not found",
	http.StatusNotFound,
)
