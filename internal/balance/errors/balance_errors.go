package balanceerrors

import (
	"net/http"

	"go-leave-portal/internal/shared/apperror"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDays = apperror.New(
		apperror.CodeInvalidInput,
		"days must be greater than zero",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"invalid year",
		http.StatusBadRequest,
	)
	ErrNoBalanceRecord = apperror.New(
		apperror.CodeNoBalanceRecord,
		"no leave balance is allocated for this leave type, please contact HR",
		http.StatusUnprocessableEntity,
	)
	ErrBalanceExhausted = apperror.New(
		apperror.CodeBalanceExhausted,
		"leave balance for this leave type is exhausted",
		http.StatusUnprocessableEntity,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInsufficientBalance,
		"insufficient leave balance",
		http.StatusUnprocessableEntity,
	)
)

type InsufficientDetails struct {
	LeaveType string          `json:"leave_type"`
	Remaining decimal.Decimal `json:"remaining"`
	Requested decimal.Decimal `json:"requested"`
}

func InsufficientBalance(leaveType string, remaining, requested decimal.Decimal) *apperror.AppError {
	return ErrInsufficientBalance.WithDetails(InsufficientDetails{
		LeaveType: leaveType,
		Remaining: remaining,
		Requested: requested,
	})
}
