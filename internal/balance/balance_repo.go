package balance

import (
	"context"

	"go-leave-portal/internal/shared/dbtx"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	Find(ctx context.Context, employeeID, leaveType string, year int) (*LeaveBalance, error)
	ListByEmployee(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error)
	// Debit adds days to used only while total - used >= days and returns the
	// number of rows changed (0 or 1).
	Debit(ctx context.Context, employeeID, leaveType string, year int, days decimal.Decimal) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Find(ctx context.Context, employeeID, leaveType string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := dbtx.GetDB(ctx, r.db).
		Where("employee_id = ?", employeeID).
		Where("leave_type = ?", leaveType).
		Where("year = ?", year).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListByEmployee(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error) {
	var result []LeaveBalance
	err := dbtx.GetDB(ctx, r.db).
		Where("employee_id = ?", employeeID).
		Where("year = ?", year).
		Order("leave_type").
		Find(&result).Error
	return result, err
}

func (r *repository) Debit(ctx context.Context, employeeID, leaveType string, year int, days decimal.Decimal) (int64, error) {
	res := dbtx.GetDB(ctx, r.db).
		Model(&LeaveBalance{}).
		Where("employee_id = ?", employeeID).
		Where("leave_type = ?", leaveType).
		Where("year = ?", year).
		Where("total_balance - used_balance >= ?", days).
		Updates(map[string]interface{}{
			"used_balance": gorm.Expr("used_balance + ?", days),
			"updated_at":   gorm.Expr("NOW()"),
		})
	return res.RowsAffected, res.Error
}
