package rbac_test

import (
	"context"
	"testing"

	"go-leave-portal/internal/rbac"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) (rbac.Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	assert.NoError(t, err)
	return rbac.NewRepository(db), mock
}

func TestRBACRepository_List(t *testing.T) {
	repo, mock := setupRepo(t)
	mock.ExpectQuery(`SELECT \* FROM "tier_policies" ORDER BY tier, role`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "role", "tier"}).
			AddRow(uuid.NewString(), "admin", "admin").
			AddRow(uuid.NewString(), "hod", "hod"))

	rows, err := repo.List(context.Background())

	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "hod", rows[1].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRBACRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("inserted", func(t *testing.T) {
		repo, mock := setupRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "tier_policies" .* ON CONFLICT \("role","tier"\) DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		created, err := repo.Create(ctx, &rbac.TierPolicyRow{ID: uuid.New(), Role: "admin", Tier: "hod"})

		assert.NoError(t, err)
		assert.True(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already present", func(t *testing.T) {
		repo, mock := setupRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "tier_policies"`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		created, err := repo.Create(ctx, &rbac.TierPolicyRow{ID: uuid.New(), Role: "hod", Tier: "hod"})

		assert.NoError(t, err)
		assert.False(t, created)
	})
}

func TestRBACRepository_DeleteUnlessLast(t *testing.T) {
	repo, mock := setupRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "tier_policies" WHERE .*role = \$1 AND tier = \$2.*SELECT COUNT\(\*\) FROM tier_policies others WHERE others.tier = \$3\) > 1`).
		WithArgs("admin", "hod", "hod").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := repo.DeleteUnlessLast(context.Background(), "admin", "hod")

	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
