package leaveerrors

import (
	"net/http"

	"go-leave-portal/internal/shared/apperror"
)

var (
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave id",
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
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrLeaveTypeRequired = apperror.New(
		apperror.CodeInvalidInput,
		"leave_type is required",
		http.StatusBadRequest,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reason is required",
		http.StatusBadRequest,
	)
	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"action must be approve or reject",
		http.StatusBadRequest,
	)
	ErrInvalidTier = apperror.New(
		apperror.CodeInvalidInput,
		"tier must be hod or admin",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave not found",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrOverlapConflict = apperror.New(
		apperror.CodeOverlapConflict,
		"leave overlaps an existing application",
		http.StatusConflict,
	)
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeAlreadyProcessed,
		"this approval tier has already been decided",
		http.StatusConflict,
	)
	ErrHODDecisionRequired = apperror.New(
		apperror.CodeInvalidTransition,
		"admin decision requires HOD approval first",
		http.StatusConflict,
	)
	ErrLeaveFrozen = apperror.New(
		apperror.CodeInvalidTransition,
		"leave can no longer be changed once the HOD has decided",
		http.StatusConflict,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"only the applicant can change this leave",
		http.StatusForbidden,
	)
	ErrSelfDecision = apperror.New(
		apperror.CodeForbidden,
		"approvers cannot decide their own leave",
		http.StatusForbidden,
	)
	ErrOutsideDepartment = apperror.New(
		apperror.CodeForbidden,
		"hod can only decide leave within their department",
		http.StatusForbidden,
	)
	ErrApproverNotEligible = apperror.New(
		apperror.CodeInvalidInput,
		"approver cannot act on this tier",
		http.StatusBadRequest,
	)
)
