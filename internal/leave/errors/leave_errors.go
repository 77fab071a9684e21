package leaveerrors

import (
	"net/http"

	"go-leavedesk/internal/shared/apperror"
)

var (
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrPastStartDate = apperror.New(
		apperror.CodeInvalidInput,
		"leave requests cannot start in the past",
		http.StatusBadRequest,
	)
	ErrDuplicateApprovedLeave = apperror.New(
		apperror.CodeConflict,
		"user already has approved leave in this period",
		http.StatusConflict,
	)
	ErrAdmissionDenied = apperror.New(
		apperror.CodeConflict,
		"too many employees already on approved leave in this period",
		http.StatusConflict,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid leave status transition",
		http.StatusBadRequest,
	)
	ErrNotRequestOwner = apperror.New(
		apperror.CodeForbidden,
		"only the request owner or an administrator may cancel this request",
		http.StatusForbidden,
	)
	ErrCancellationWindowClosed = apperror.New(
		apperror.CodeInvalidState,
		"request can no longer be cancelled this close to its start date",
		http.StatusBadRequest,
	)
	ErrConcurrencyConflict = apperror.New(
		apperror.CodeConflict,
		"the request conflicted with a concurrent operation, please retry",
		http.StatusConflict,
	)
)
