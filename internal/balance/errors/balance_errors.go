package balanceerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrBalanceNotAllocated = apperror.New(
		apperror.CodeInvalidInput,
		"Leave balance not allocated for this leave type and year",
		http.StatusBadRequest,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInvalidInput,
		"Insufficient leave balance",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid leave type",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid year",
		http.StatusBadRequest,
	)
	ErrNegativeAllocation = apperror.New(
		apperror.CodeInvalidInput,
		"Allocated and carry forward days must not be negative",
		http.StatusBadRequest,
	)
	ErrAllocationBelowUsed = apperror.New(
		apperror.CodeInvalidState,
		"Allocation would leave a negative remaining balance",
		http.StatusBadRequest,
	)
)
