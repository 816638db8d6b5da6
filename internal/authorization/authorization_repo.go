package authorization

import (
	"context"
	"time"

	"go-leave-portal/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DetailsUpdate struct {
	AuthorizationType string
	Title             string
	Reason            string
	Priority          string
	ExpiryDate        *time.Time
}

type Decision struct {
	Status     Status
	ApproverID uuid.UUID
	Comment    *string
	DecidedAt  time.Time
}

//go:generate mockgen -source=authorization_repo.go -destination=mock/authorization_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, a *AuthorizationRequest) error
	FindByID(ctx context.Context, id string) (*AuthorizationRequest, error)
	// Every write below is keyed on status = pending and returns rows affected.
	UpdateIfPending(ctx context.Context, id, employeeID string, u DetailsUpdate) (int64, error)
	DeleteIfPending(ctx context.Context, id, employeeID string) (int64, error)
	Decide(ctx context.Context, id string, d Decision) (int64, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]AuthorizationRequest, error)
	ListByStatus(ctx context.Context, status *Status) ([]AuthorizationRequest, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *AuthorizationRequest) error {
	return dbtx.GetDB(ctx, r.db).Create(a).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*AuthorizationRequest, error) {
	var a AuthorizationRequest
	if err := dbtx.GetDB(ctx, r.db).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) UpdateIfPending(ctx context.Context, id, employeeID string, u DetailsUpdate) (int64, error) {
	res := dbtx.GetDB(ctx, r.db).
		Model(&AuthorizationRequest{}).
		Where("id = ? AND employee_id = ? AND status = ?", id, employeeID, StatusPending).
		Updates(map[string]interface{}{
			"authorization_type": u.AuthorizationType,
			"title":              u.Title,
			"reason":             u.Reason,
			"priority":           u.Priority,
			"expiry_date":        u.ExpiryDate,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteIfPending(ctx context.Context, id, employeeID string) (int64, error) {
	res := dbtx.GetDB(ctx, r.db).
		Where("id = ? AND employee_id = ? AND status = ?", id, employeeID, StatusPending).
		Delete(&AuthorizationRequest{})
	return res.RowsAffected, res.Error
}

func (r *repository) Decide(ctx context.Context, id string, d Decision) (int64, error) {
	res := dbtx.GetDB(ctx, r.db).
		Model(&AuthorizationRequest{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]interface{}{
			"status":           d.Status,
			"approved_by":      d.ApproverID,
			"approval_comment": d.Comment,
			"decided_at":       d.DecidedAt,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) ListByEmployee(ctx context.Context, employeeID string) ([]AuthorizationRequest, error) {
	var result []AuthorizationRequest
	err := dbtx.GetDB(ctx, r.db).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&result).Error
	return result, err
}

func (r *repository) ListByStatus(ctx context.Context, status *Status) ([]AuthorizationRequest, error) {
	db := dbtx.GetDB(ctx, r.db)
	if status != nil {
		db = db.Where("status = ?", *status)
	}
	var result []AuthorizationRequest
	err := db.Order("created_at ASC").Find(&result).Error
	return result, err
}
