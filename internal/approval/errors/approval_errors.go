package approvalerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrSelfApproval = apperror.New(
		apperror.CodeForbidden,
		"you cannot act on your own leave request",
		http.StatusForbidden,
	)
	ErrApproverRoleMismatch = apperror.New(
		apperror.CodeForbidden,
		"your role cannot act as this approver type",
		http.StatusForbidden,
	)
	ErrNotDirectManager = apperror.New(
		apperror.CodeForbidden,
		"only the requester's reporting manager can act at this stage",
		http.StatusForbidden,
	)
	ErrApproverInactive = apperror.New(
		apperror.CodeForbidden,
		"approver is not active",
		http.StatusForbidden,
	)
	ErrPendingForbidden = apperror.New(
		apperror.CodeForbidden,
		"your role has no pending approvals",
		http.StatusForbidden,
	)
)
