package leave_test

import (
	"context"
	"testing"
	"time"

	"go-leave-portal/internal/domain"
	"go-leave-portal/internal/leave"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) (leave.Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	assert.NoError(t, err)
	return leave.NewRepository(db), mock
}

func TestLeaveRepository_Decide(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()
	decision := leave.TierDecision{
		Status:     leave.StatusApproved,
		ApproverID: uuid.New(),
		DecidedAt:  time.Date(2026, 1, 11, 8, 0, 0, 0, time.UTC),
	}

	t.Run("hod tier is keyed on pending", func(t *testing.T) {
		repo, mock := setupRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "leave_applications" SET .*"hod_status"=.*WHERE id = \$\d+ AND hod_status = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		n, err := repo.Decide(ctx, id, domain.TierHOD, decision)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("admin tier also needs hod approved", func(t *testing.T) {
		repo, mock := setupRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "leave_applications" SET .*"admin_status"=.*admin_status = \$\d+ AND hod_status = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		n, err := repo.Decide(ctx, id, domain.TierAdmin, decision)

		assert.NoError(t, err)
		assert.Equal(t, int64(0), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown tier writes nothing", func(t *testing.T) {
		repo, mock := setupRepo(t)

		n, err := repo.Decide(ctx, id, domain.Tier("ceo"), decision)

		assert.NoError(t, err)
		assert.Equal(t, int64(0), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLeaveRepository_FindOverlap(t *testing.T) {
	ctx := context.Background()
	empID := uuid.NewString()
	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)

	t.Run("no overlap is nil", func(t *testing.T) {
		repo, mock := setupRepo(t)
		mock.ExpectQuery(`SELECT \* FROM "leave_applications" WHERE employee_id = \$1 AND .*start_date <= \$2 AND end_date >= \$3.*hod_status <> \$4 AND admin_status <> \$5`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		l, err := repo.FindOverlap(ctx, empID, start, end, nil)

		assert.NoError(t, err)
		assert.Nil(t, l)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("excludes the leave being edited", func(t *testing.T) {
		repo, mock := setupRepo(t)
		existing := uuid.New()
		exclude := uuid.NewString()
		mock.ExpectQuery(`SELECT \* FROM "leave_applications" WHERE .*id <> \$6`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "employee_id", "start_date", "end_date", "hod_status", "admin_status"}).
				AddRow(existing, empID, start, end, "Approved", "Pending"))

		l, err := repo.FindOverlap(ctx, empID, start, end, &exclude)

		assert.NoError(t, err)
		assert.Equal(t, existing, l.ID)
		assert.Equal(t, leave.StatusApproved, l.HODStatus)
	})
}

func TestLeaveRepository_DeleteIfHODPending(t *testing.T) {
	repo, mock := setupRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "leave_applications" SET "deleted_at"=.*hod_status = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	n, err := repo.DeleteIfHODPending(context.Background(), uuid.NewString(), uuid.NewString())

	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
