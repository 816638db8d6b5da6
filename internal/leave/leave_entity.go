package leave

import (
	"time"

	"go-leave-portal/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "Pending"
	StatusApproved ApprovalStatus = "Approved"
	StatusRejected ApprovalStatus = "Rejected"
)

func (s ApprovalStatus) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Approval is the pair of independent tier states. Fully approved is derived,
// never stored.
type Approval struct {
	HOD   ApprovalStatus
	Admin ApprovalStatus
}

func (a Approval) IsFullyApproved() bool {
	return a.HOD == StatusApproved && a.Admin == StatusApproved
}

func (a Approval) IsRejected() bool {
	return a.HOD == StatusRejected || a.Admin == StatusRejected
}

func (a Approval) Of(tier domain.Tier) ApprovalStatus {
	if tier == domain.TierAdmin {
		return a.Admin
	}
	return a.HOD
}

// ApprovedTiers lists the tiers already approved, HOD first.
func (a Approval) ApprovedTiers() []string {
	tiers := []string{}
	if a.HOD == StatusApproved {
		tiers = append(tiers, string(domain.TierHOD))
	}
	if a.Admin == StatusApproved {
		tiers = append(tiers, string(domain.TierAdmin))
	}
	return tiers
}

type LeaveApplication struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_employee_dates"`

	LeaveType    string    `gorm:"type:varchar(30);not null"`
	StartDate    time.Time `gorm:"type:date;not null;index:idx_leave_employee_dates"`
	EndDate      time.Time `gorm:"type:date;not null;index:idx_leave_employee_dates"`
	NumberOfDays int       `gorm:"not null;check:chk_leave_days_positive,number_of_days > 0"`
	Reason       string    `gorm:"type:text;not null"`

	HODStatus     ApprovalStatus `gorm:"type:varchar(10);not null;default:'Pending';index:idx_leave_hod_status"`
	ApprovedByHOD *uuid.UUID     `gorm:"column:approved_by_hod;type:uuid"`
	HODDecidedAt  *time.Time     `gorm:"column:hod_decided_at"`
	HODComment    *string        `gorm:"column:hod_comment;type:text"`

	AdminStatus     ApprovalStatus `gorm:"type:varchar(10);not null;default:'Pending';index:idx_leave_admin_status"`
	ApprovedByAdmin *uuid.UUID     `gorm:"column:approved_by_admin;type:uuid"`
	AdminDecidedAt  *time.Time     `gorm:"column:admin_decided_at"`
	AdminComment    *string        `gorm:"column:admin_comment;type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leave_deleted_at"`
}

func (LeaveApplication) TableName() string { return "leave_applications" }

func (l LeaveApplication) Approval() Approval {
	return Approval{HOD: l.HODStatus, Admin: l.AdminStatus}
}

// CountDays is the inclusive day count of [start, end].
func CountDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}
