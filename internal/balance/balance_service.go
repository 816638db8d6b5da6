package balance

import (
	"context"
	"errors"
	"time"

	balanceerrors "go-leave-portal/internal/balance/errors"
	"go-leave-portal/internal/shared/apperror"
	"go-leave-portal/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	GetBalance(ctx context.Context, employeeID, leaveType string, year int) (BalanceResponse, error)
	// CheckSufficient returns nil when days fit in the remaining balance, or one
	// of NoBalanceRecord, BalanceExhausted, InsufficientBalance.
	CheckSufficient(ctx context.Context, employeeID, leaveType string, year, days int) error
	HasSufficientBalance(ctx context.Context, employeeID, leaveType string, year, days int) (bool, error)
	// Debit must run inside the caller's unit of work when it is coupled to a
	// status change.
	Debit(ctx context.Context, employeeID, leaveType string, year, days int) (BalanceResponse, error)
	ListForEmployee(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.Logger(ctx, s.logger)
}

func validateKey(employeeID string, year int) error {
	if _, err := uuid.Parse(employeeID); err != nil {
		return balanceerrors.ErrInvalidEmployeeID
	}
	if year < 1970 || year > 9999 {
		return balanceerrors.ErrInvalidYear
	}
	return nil
}

func (s *service) load(ctx context.Context, employeeID, leaveType string, year int) (*LeaveBalance, error) {
	b, err := s.repo.Find(ctx, employeeID, leaveType, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, balanceerrors.ErrNoBalanceRecord
		}
		s.log(ctx).Error("balance lookup failed",
			zap.String("employee_id", employeeID),
			zap.String("leave_type", leaveType),
			zap.Int("year", year),
			zap.Error(err),
		)
		return nil, apperror.Storage(err)
	}
	return b, nil
}

func (s *service) GetBalance(ctx context.Context, employeeID, leaveType string, year int) (BalanceResponse, error) {
	if err := validateKey(employeeID, year); err != nil {
		return BalanceResponse{}, err
	}
	b, err := s.load(ctx, employeeID, leaveType, year)
	if err != nil {
		return BalanceResponse{}, err
	}
	return mapToResponse(*b), nil
}

func classify(b *LeaveBalance, requested decimal.Decimal) error {
	if !b.HasRecord() {
		return balanceerrors.ErrNoBalanceRecord
	}
	remaining := b.Remaining()
	if !remaining.IsPositive() {
		return balanceerrors.ErrBalanceExhausted
	}
	if requested.GreaterThan(remaining) {
		return balanceerrors.InsufficientBalance(b.LeaveType, remaining, requested)
	}
	return nil
}

func (s *service) CheckSufficient(ctx context.Context, employeeID, leaveType string, year, days int) error {
	if err := validateKey(employeeID, year); err != nil {
		return err
	}
	if days <= 0 {
		return balanceerrors.ErrInvalidDays
	}

	b, err := s.load(ctx, employeeID, leaveType, year)
	if err != nil {
		return err
	}
	if err := classify(b, decimal.NewFromInt(int64(days))); err != nil {
		s.log(ctx).Warn("balance check rejected",
			zap.String("employee_id", employeeID),
			zap.String("leave_type", leaveType),
			zap.Int("requested", days),
			zap.String("remaining", b.Remaining().String()),
			zap.String("code", apperror.CodeOf(err)),
		)
		return err
	}
	return nil
}

func (s *service) HasSufficientBalance(ctx context.Context, employeeID, leaveType string, year, days int) (bool, error) {
	err := s.CheckSufficient(ctx, employeeID, leaveType, year, days)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, balanceerrors.ErrNoBalanceRecord),
		errors.Is(err, balanceerrors.ErrBalanceExhausted),
		errors.Is(err, balanceerrors.ErrInsufficientBalance):
		return false, nil
	default:
		return false, err
	}
}

func (s *service) Debit(ctx context.Context, employeeID, leaveType string, year, days int) (BalanceResponse, error) {
	if err := validateKey(employeeID, year); err != nil {
		return BalanceResponse{}, err
	}
	if days <= 0 {
		return BalanceResponse{}, balanceerrors.ErrInvalidDays
	}
	requested := decimal.NewFromInt(int64(days))

	s.log(ctx).Debug("debit requested",
		zap.String("employee_id", employeeID),
		zap.String("leave_type", leaveType),
		zap.Int("year", year),
		zap.Int("days", days),
	)

	affected, err := s.repo.Debit(ctx, employeeID, leaveType, year, requested)
	if err != nil {
		s.log(ctx).Error("debit failed", zap.String("employee_id", employeeID), zap.Error(err))
		return BalanceResponse{}, apperror.Storage(err)
	}

	b, err := s.load(ctx, employeeID, leaveType, year)
	if err != nil {
		return BalanceResponse{}, err
	}

	if affected == 0 {
		// The guarded update matched nothing: explain why from the current row.
		if cerr := classify(b, requested); cerr != nil {
			s.log(ctx).Warn("debit rejected",
				zap.String("employee_id", employeeID),
				zap.String("leave_type", leaveType),
				zap.Int("requested", days),
				zap.String("remaining", b.Remaining().String()),
			)
			return BalanceResponse{}, cerr
		}
		return BalanceResponse{}, balanceerrors.InsufficientBalance(leaveType, b.Remaining(), requested)
	}

	s.log(ctx).Info("debit success",
		zap.String("employee_id", employeeID),
		zap.String("leave_type", leaveType),
		zap.Int("days", days),
		zap.String("remaining", b.Remaining().String()),
	)
	return mapToResponse(*b), nil
}

func (s *service) ListForEmployee(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error) {
	if err := validateKey(employeeID, year); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByEmployee(ctx, employeeID, year)
	if err != nil {
		s.log(ctx).Error("list balances failed", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, apperror.Storage(err)
	}
	resp := make([]BalanceResponse, len(rows))
	for i, b := range rows {
		resp[i] = mapToResponse(b)
	}
	return resp, nil
}

// YearOf is the ledger period a leave starting on date is charged to.
func YearOf(date time.Time) int {
	return date.Year()
}
