package approvaltokenerrors

import (
	"net/http"

	"go-leave-portal/internal/shared/apperror"
)

var (
	ErrInvalidToken = apperror.New(
		apperror.CodeInvalidInput,
		"approval link is invalid",
		http.StatusBadRequest,
	)
	ErrTokenExpired = apperror.New(
		apperror.CodeInvalidInput,
		"approval link has expired",
		http.StatusGone,
	)
	ErrAlreadyUsed = apperror.New(
		apperror.CodeAlreadyUsed,
		"approval link has already been used",
		http.StatusConflict,
	)
)
