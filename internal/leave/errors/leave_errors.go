package leaveerrors

import (
	"fmt"
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type",
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
	ErrStartDateInPast = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must not be in the past",
		http.StatusBadRequest,
	)
	ErrWeekendOnly = apperror.New(
		apperror.CodeInvalidInput,
		"a leave covering only a Saturday and Sunday is not allowed",
		http.StatusBadRequest,
	)
	ErrAnnualNoticeRequired = apperror.New(
		apperror.CodeInvalidInput,
		"annual leave requires at least one day of notice",
		http.StatusBadRequest,
	)
	ErrSickDocumentRequired = apperror.New(
		apperror.CodeInvalidInput,
		"sick leave longer than 3 days requires a supporting document",
		http.StatusBadRequest,
	)
	ErrReasonTooShort = apperror.New(
		apperror.CodeInvalidInput,
		"reason must be at least 10 characters",
		http.StatusBadRequest,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeInvalidInput,
		"leave already exists in overlapping period",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrWorkflowNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave workflow not found",
		http.StatusNotFound,
	)
	ErrApplicantNotFound = apperror.New(
		apperror.CodeNotFound,
		"applicant employee not found",
		http.StatusNotFound,
	)
	ErrApplicantInactive = apperror.New(
		apperror.CodeForbidden,
		"inactive employees cannot apply for leave",
		http.StatusForbidden,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"only the requesting employee can change this leave request",
		http.StatusForbidden,
	)
	ErrViewForbidden = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to view this leave request",
		http.StatusForbidden,
	)
	ErrNotEditable = apperror.New(
		apperror.CodeInvalidState,
		"leave request can only be changed while PENDING_RM",
		http.StatusBadRequest,
	)
	ErrWorkflowCompleted = apperror.New(
		apperror.CodeInvalidState,
		"leave workflow is already completed",
		http.StatusBadRequest,
	)
	ErrInvalidApproverType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid approver type, expected REPORTING_MANAGER or HR_MANAGER",
		http.StatusBadRequest,
	)
	ErrInconsistentWorkflow = apperror.New(
		apperror.CodeInternalError,
		"leave workflow state is inconsistent",
		http.StatusInternalServerError,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"invalid status filter",
		http.StatusBadRequest,
	)
)

// ErrNotInStage is returned when a transition is attempted from the wrong workflow stage.
func ErrNotInStage(stage string) *apperror.AppError {
	return apperror.New(
		apperror.CodeInvalidState,
		fmt.Sprintf("leave request is not in %s stage", stage),
		http.StatusBadRequest,
	)
}
