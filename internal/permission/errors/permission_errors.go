package permissionerrors

import (
	"net/http"

	"go-leave-portal/internal/shared/apperror"
)

var (
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidPermissionKey = apperror.New(
		apperror.CodeInvalidInput,
		"permission_key is required",
		http.StatusBadRequest,
	)
	ErrPermissionNotFound = apperror.New(
		apperror.CodeNotFound,
		"permission not found or inactive",
		http.StatusNotFound,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrGrantNotFound = apperror.New(
		apperror.CodeNotFound,
		"permission is not granted to this user",
		http.StatusNotFound,
	)
)
