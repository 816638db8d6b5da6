package permission

import (
	"context"

	"go-leave-portal/internal/shared/dbtx"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=permission_repo.go -destination=mock/permission_repo_mock.go -package=mock
type Repository interface {
	FindActivePermission(ctx context.Context, key string) (*Permission, error)
	FindGrant(ctx context.Context, userID, permissionID string) (*UserPermission, error)
	UpsertGrant(ctx context.Context, grant *UserPermission) error
	ListGrantedKeys(ctx context.Context, userID string) ([]string, error)
	ListPermissions(ctx context.Context) ([]Permission, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindActivePermission(ctx context.Context, key string) (*Permission, error) {
	var p Permission
	err := dbtx.GetDB(ctx, r.db).
		Where("permission_key = ?", key).
		Where("is_active = ?", true).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindGrant(ctx context.Context, userID, permissionID string) (*UserPermission, error) {
	var g UserPermission
	err := dbtx.GetDB(ctx, r.db).
		Where("user_id = ?", userID).
		Where("permission_id = ?", permissionID).
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// UpsertGrant keeps one row per (user, permission); a re-grant flips the same row.
func (r *repository) UpsertGrant(ctx context.Context, grant *UserPermission) error {
	return dbtx.GetDB(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "permission_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"granted", "granted_by", "granted_at", "revoked_at", "updated_at"}),
		}).
		Create(grant).Error
}

func (r *repository) ListGrantedKeys(ctx context.Context, userID string) ([]string, error) {
	var keys []string
	err := dbtx.GetDB(ctx, r.db).
		Table("user_permissions").
		Joins("JOIN permissions ON permissions.id = user_permissions.permission_id").
		Where("user_permissions.user_id = ?", userID).
		Where("user_permissions.granted = ?", true).
		Where("permissions.is_active = ?", true).
		Order("permissions.permission_key").
		Pluck("permissions.permission_key", &keys).Error
	return keys, err
}

func (r *repository) ListPermissions(ctx context.Context) ([]Permission, error) {
	var result []Permission
	err := dbtx.GetDB(ctx, r.db).Order("category, permission_key").Find(&result).Error
	return result, err
}
