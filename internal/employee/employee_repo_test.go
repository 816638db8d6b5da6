package employee_test

import (
	"context"
	"testing"

	"go-leave-portal/internal/employee"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) (employee.Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	assert.NoError(t, err)
	return employee.NewRepository(db), mock
}

func TestEmployeeRepository_FindRole(t *testing.T) {
	ctx := context.Background()
	id := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		repo, mock := setupRepo(t)
		mock.ExpectQuery(`SELECT "role" FROM "employees"`).
			WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow(employee.RoleHOD))

		role, err := repo.FindRole(ctx, id)

		assert.NoError(t, err)
		assert.Equal(t, employee.RoleHOD, role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative unknown employee", func(t *testing.T) {
		repo, mock := setupRepo(t)
		mock.ExpectQuery(`SELECT "role" FROM "employees"`).
			WillReturnRows(sqlmock.NewRows([]string{"role"}))

		_, err := repo.FindRole(ctx, id)

		assert.True(t, employee.IsNotFound(err))
	})
}
