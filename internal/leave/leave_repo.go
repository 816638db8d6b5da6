package leave

import (
	"context"
	"errors"
	"time"

	"go-leave-portal/internal/domain"
	"go-leave-portal/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TierDecision is written to one tier's columns.
type TierDecision struct {
	Status     ApprovalStatus
	ApproverID uuid.UUID
	Comment    *string
	DecidedAt  time.Time
}

// DetailsUpdate carries the applicant-editable fields.
type DetailsUpdate struct {
	LeaveType    string
	StartDate    time.Time
	EndDate      time.Time
	NumberOfDays int
	Reason       string
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, l *LeaveApplication) error
	FindByID(ctx context.Context, id string) (*LeaveApplication, error)
	// FindOverlap returns the first non-rejected leave of employeeID intersecting
	// [start, end], or nil.
	FindOverlap(ctx context.Context, employeeID string, start, end time.Time, excludeID *string) (*LeaveApplication, error)
	// The conditional writes below return rows affected; 0 means the
	// precondition no longer held.
	UpdateDetailsIfHODPending(ctx context.Context, id, employeeID string, u DetailsUpdate) (int64, error)
	DeleteIfHODPending(ctx context.Context, id, employeeID string) (int64, error)
	Decide(ctx context.Context, id string, tier domain.Tier, d TierDecision) (int64, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveApplication, error)
	ListByHODStatus(ctx context.Context, status ApprovalStatus, departmentID *string) ([]LeaveApplication, error)
	ListByAdminStatus(ctx context.Context, status ApprovalStatus) ([]LeaveApplication, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, l *LeaveApplication) error {
	return dbtx.GetDB(ctx, r.db).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveApplication, error) {
	var l LeaveApplication
	if err := dbtx.GetDB(ctx, r.db).First(&l, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindOverlap(ctx context.Context, employeeID string, start, end time.Time, excludeID *string) (*LeaveApplication, error) {
	db := dbtx.GetDB(ctx, r.db).
		Where("employee_id = ?", employeeID).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Where("hod_status <> ? AND admin_status <> ?", StatusRejected, StatusRejected)
	if excludeID != nil {
		db = db.Where("id <> ?", *excludeID)
	}

	var l LeaveApplication
	err := db.Order("start_date ASC").First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) UpdateDetailsIfHODPending(ctx context.Context, id, employeeID string, u DetailsUpdate) (int64, error) {
	res := dbtx.GetDB(ctx, r.db).
		Model(&LeaveApplication{}).
		Where("id = ? AND employee_id = ? AND hod_status = ?", id, employeeID, StatusPending).
		Updates(map[string]interface{}{
			"leave_type":     u.LeaveType,
			"start_date":     u.StartDate,
			"end_date":       u.EndDate,
			"number_of_days": u.NumberOfDays,
			"reason":         u.Reason,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteIfHODPending(ctx context.Context, id, employeeID string) (int64, error) {
	res := dbtx.GetDB(ctx, r.db).
		Where("id = ? AND employee_id = ? AND hod_status = ?", id, employeeID, StatusPending).
		Delete(&LeaveApplication{})
	return res.RowsAffected, res.Error
}

// Decide writes one tier keyed on its pre-transition Pending state. The admin
// tier additionally requires an approved HOD tier.
func (r *repository) Decide(ctx context.Context, id string, tier domain.Tier, d TierDecision) (int64, error) {
	db := dbtx.GetDB(ctx, r.db).Model(&LeaveApplication{}).Where("id = ?", id)

	var values map[string]interface{}
	switch tier {
	case domain.TierHOD:
		db = db.Where("hod_status = ?", StatusPending)
		values = map[string]interface{}{
			"hod_status":      d.Status,
			"approved_by_hod": d.ApproverID,
			"hod_decided_at":  d.DecidedAt,
			"hod_comment":     d.Comment,
		}
	case domain.TierAdmin:
		db = db.Where("admin_status = ? AND hod_status = ?", StatusPending, StatusApproved)
		values = map[string]interface{}{
			"admin_status":      d.Status,
			"approved_by_admin": d.ApproverID,
			"admin_decided_at":  d.DecidedAt,
			"admin_comment":     d.Comment,
		}
	default:
		return 0, nil
	}

	res := db.Updates(values)
	return res.RowsAffected, res.Error
}

func (r *repository) ListByEmployee(ctx context.Context, employeeID string) ([]LeaveApplication, error) {
	var result []LeaveApplication
	err := dbtx.GetDB(ctx, r.db).
		Where("employee_id = ?", employeeID).
		Order("start_date DESC").
		Find(&result).Error
	return result, err
}

func (r *repository) ListByHODStatus(ctx context.Context, status ApprovalStatus, departmentID *string) ([]LeaveApplication, error) {
	db := dbtx.GetDB(ctx, r.db).
		Model(&LeaveApplication{}).
		Where("leave_applications.hod_status = ?", status)
	if departmentID != nil {
		db = db.Joins("JOIN employees ON employees.id = leave_applications.employee_id").
			Where("employees.department_id = ?", *departmentID)
	}

	var result []LeaveApplication
	err := db.Order("leave_applications.start_date ASC").Find(&result).Error
	return result, err
}

// ListByAdminStatus only shows leaves the admin tier can act on or has acted
// on: the HOD tier must be approved.
func (r *repository) ListByAdminStatus(ctx context.Context, status ApprovalStatus) ([]LeaveApplication, error) {
	var result []LeaveApplication
	err := dbtx.GetDB(ctx, r.db).
		Where("admin_status = ?", status).
		Where("hod_status = ?", StatusApproved).
		Order("start_date ASC").
		Find(&result).Error
	return result, err
}
