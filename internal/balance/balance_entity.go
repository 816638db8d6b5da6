package balance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaveBalance is one ledger line per (employee, leave type, year). Remaining
// is never stored; it is always Total - Used.
type LeaveBalance struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balance"`
	LeaveType  string          `gorm:"type:varchar(30);not null;uniqueIndex:uq_leave_balance"`
	Year       int             `gorm:"not null;uniqueIndex:uq_leave_balance"`
	Total      decimal.Decimal `gorm:"column:total_balance;type:numeric(6,2);not null;default:0"`
	Used       decimal.Decimal `gorm:"column:used_balance;type:numeric(6,2);not null;default:0;check:chk_used_within_total,used_balance <= total_balance"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b LeaveBalance) Remaining() decimal.Decimal {
	return b.Total.Sub(b.Used)
}

// HasRecord is false for a zero allocation, which is treated the same as a
// missing row.
func (b LeaveBalance) HasRecord() bool {
	return b.Total.IsPositive()
}
