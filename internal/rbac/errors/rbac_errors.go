package rbacerrors

import (
	"net/http"

	"go-leave-portal/internal/shared/apperror"
)

var (
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"role must be employee, hod or admin",
		http.StatusBadRequest,
	)
	ErrInvalidTier = apperror.New(
		apperror.CodeInvalidInput,
		"tier must be hod or admin",
		http.StatusBadRequest,
	)
	ErrPolicyExists = apperror.New(
		apperror.CodeConflict,
		"role can already act as this tier",
		http.StatusConflict,
	)
	ErrPolicyNotFound = apperror.New(
		apperror.CodeNotFound,
		"tier policy not found",
		http.StatusNotFound,
	)
	ErrLastTierPolicy = apperror.New(
		apperror.CodeInvalidState,
		"every tier needs at least one role that can decide it",
		http.StatusConflict,
	)
)
