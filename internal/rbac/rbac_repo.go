package rbac

import (
	"context"

	"go-leave-portal/internal/shared/dbtx"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	List(ctx context.Context) ([]TierPolicyRow, error)
	Find(ctx context.Context, role, tier string) (*TierPolicyRow, error)
	// Create reports false when the (role, tier) pair already exists.
	Create(ctx context.Context, row *TierPolicyRow) (bool, error)
	// DeleteUnlessLast leaves the row in place when it is the only one for
	// its tier.
	DeleteUnlessLast(ctx context.Context, role, tier string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]TierPolicyRow, error) {
	var rows []TierPolicyRow
	err := dbtx.GetDB(ctx, r.db).Order("tier, role").Find(&rows).Error
	return rows, err
}

func (r *repository) Find(ctx context.Context, role, tier string) (*TierPolicyRow, error) {
	var row TierPolicyRow
	err := dbtx.GetDB(ctx, r.db).
		Where("role = ? AND tier = ?", role, tier).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) Create(ctx context.Context, row *TierPolicyRow) (bool, error) {
	res := dbtx.GetDB(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "role"}, {Name: "tier"}},
			DoNothing: true,
		}).
		Create(row)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) DeleteUnlessLast(ctx context.Context, role, tier string) (int64, error) {
	res := dbtx.GetDB(ctx, r.db).
		Where("role = ? AND tier = ?", role, tier).
		Where("(SELECT COUNT(*) FROM tier_policies others WHERE others.tier = ?) > 1", tier).
		Delete(&TierPolicyRow{})
	return res.RowsAffected, res.Error
}
