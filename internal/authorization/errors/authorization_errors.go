package authorizationerrors

import (
	"net/http"

	"go-leave-portal/internal/shared/apperror"
)

var (
	ErrInvalidID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid authorization id",
		http.StatusBadRequest,
	)
	ErrInvalidExpiryDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid expiry_date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrExpiryInPast = apperror.New(
		apperror.CodeInvalidInput,
		"expiry_date cannot be in the past",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be pending, approved or rejected",
		http.StatusBadRequest,
	)
	ErrNotFound = apperror.New(
		apperror.CodeNotFound,
		"authorization request not found",
		http.StatusNotFound,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"only the requester can change this authorization request",
		http.StatusForbidden,
	)
	ErrSelfDecision = apperror.New(
		apperror.CodeForbidden,
		"approvers cannot decide their own authorization request",
		http.StatusForbidden,
	)
	ErrNotPending = apperror.New(
		apperror.CodeInvalidTransition,
		"authorization request can no longer be changed once decided",
		http.StatusConflict,
	)
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeAlreadyProcessed,
		"authorization request has already been decided",
		http.StatusConflict,
	)
	ErrExpired = apperror.New(
		apperror.CodeInvalidTransition,
		"authorization request has expired and cannot be approved",
		http.StatusConflict,
	)
)
