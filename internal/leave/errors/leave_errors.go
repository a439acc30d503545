package leaveerrors

import (
	"net/http"

	"github.com/ankitsharma97/leaveManagement/internal/shared/apperror"
)

var (
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end_date cannot be before start_date",
		http.StatusBadRequest,
	)
	ErrStartDateInPast = apperror.New(
		apperror.CodeInvalidInput,
		"start_date cannot be in the past",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrNotRequestOwner = apperror.New(
		apperror.CodeForbidden,
		"only the owning employee may perform this action",
		http.StatusForbidden,
	)

	// Machine errors. Approval distinguishes authorization failures (403)
	// from wrong-status failures (400); cancel deliberately keeps the
	// reference behavior's single undifferentiated failure.
	ErrOnlyDraftSubmittable = apperror.New(
		apperror.CodeInvalidState,
		"can only submit draft requests",
		http.StatusBadRequest,
	)
	ErrApprovalNotAllowed = apperror.New(
		apperror.CodeForbidden,
		"not allowed to approve this request",
		http.StatusForbidden,
	)
	ErrInvalidStatusForApproval = apperror.New(
		apperror.CodeInvalidState,
		"invalid status for approval",
		http.StatusBadRequest,
	)
	ErrInvalidRejection = apperror.New(
		apperror.CodeInvalidState,
		"invalid status or permission for rejection",
		http.StatusBadRequest,
	)
	ErrCannotCancel = apperror.New(
		apperror.CodeInvalidState,
		"cannot cancel this request",
		http.StatusBadRequest,
	)

	ErrUnknownAction = apperror.New(
		apperror.CodeInvalidInput,
		"unknown transition action",
		http.StatusBadRequest,
	)
)
