package employee

import (
	"context"
	"errors"

	"go-leave-portal/internal/shared/dbtx"

	"gorm.io/gorm"
)

// Repository is the read side of the employee directory. Employee CRUD lives
// outside this service.
//
//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindRole(ctx context.Context, id string) (string, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]Employee, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	err := dbtx.GetDB(ctx, r.db).First(&empl, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &empl, nil
}

// FindRole returns gorm.ErrRecordNotFound for unknown ids.
func (r *repository) FindRole(ctx context.Context, id string) (string, error) {
	var roles []string
	err := dbtx.GetDB(ctx, r.db).
		Model(&Employee{}).
		Where("id = ?", id).
		Limit(1).
		Pluck("role", &roles).Error
	if err != nil {
		return "", err
	}
	if len(roles) == 0 {
		return "", gorm.ErrRecordNotFound
	}
	return roles[0], nil
}

func (r *repository) ListByDepartment(ctx context.Context, departmentID string) ([]Employee, error) {
	var items []Employee
	err := dbtx.GetDB(ctx, r.db).
		Where("department_id = ?", departmentID).
		Order("full_name ASC").
		Find(&items).Error
	return items, err
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
