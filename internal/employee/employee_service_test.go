package employee_test

import (
	"context"
	"encoding/json"
	"sort"
	"testing"
	"time"

	"go-leave-portal/internal/domain"
	"go-leave-portal/internal/employee"
	employeeerrors "go-leave-portal/internal/employee/errors"
	"go-leave-portal/internal/shared/apperror"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepo struct {
	byID        map[string]employee.Employee
	listQueries int
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*employee.Employee, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (r *fakeRepo) FindRole(_ context.Context, id string) (string, error) {
	e, ok := r.byID[id]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return e.Role, nil
}

func (r *fakeRepo) ListByDepartment(_ context.Context, departmentID string) ([]employee.Employee, error) {
	r.listQueries++
	var out []employee.Employee
	for _, e := range r.byID {
		if e.DepartmentID != nil && e.DepartmentID.String() == departmentID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

type grants map[string]bool

func (g grants) Check(_ context.Context, userID, key string) bool {
	return g[userID+":"+key]
}

func seed(dept uuid.UUID) (*fakeRepo, employee.Employee, employee.Employee) {
	alice := employee.Employee{ID: uuid.New(), FullName: "Alice", Email: "alice@example.com", Role: employee.RoleEmployee, DepartmentID: &dept}
	hod := employee.Employee{ID: uuid.New(), FullName: "Hana", Email: "hana@example.com", Role: employee.RoleHOD, DepartmentID: &dept}
	return &fakeRepo{byID: map[string]employee.Employee{
		alice.ID.String(): alice,
		hod.ID.String():   hod,
	}}, alice, hod
}

func TestEmployeeService_GetByID(t *testing.T) {
	ctx := context.Background()
	repo, alice, hod := seed(uuid.New())
	auditor := uuid.NewString()
	svc := employee.NewService(repo, grants{auditor + ":" + employee.ViewPermissionKey: true}, nil)

	t.Run("own record", func(t *testing.T) {
		resp, err := svc.GetByID(ctx, domain.Actor{UserID: alice.ID.String()}, alice.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "Alice", resp.FullName)
	})

	t.Run("someone else without employee.view", func(t *testing.T) {
		_, err := svc.GetByID(ctx, domain.Actor{UserID: alice.ID.String()}, hod.ID.String())
		assert.Equal(t, apperror.CodeForbidden, apperror.CodeOf(err))
	})

	t.Run("holder of employee.view", func(t *testing.T) {
		resp, err := svc.GetByID(ctx, domain.Actor{UserID: auditor}, hod.ID.String())
		require.NoError(t, err)
		assert.Equal(t, employee.RoleHOD, resp.Role)
	})

	t.Run("unknown and malformed ids", func(t *testing.T) {
		_, err := svc.GetByID(ctx, domain.Actor{UserID: auditor}, uuid.NewString())
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)

		_, err = svc.GetByID(ctx, domain.Actor{UserID: auditor}, "nope")
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})
}

func TestEmployeeService_ListMyDepartment(t *testing.T) {
	ctx := context.Background()
	dept := uuid.New()

	t.Run("cache miss queries and stores", func(t *testing.T) {
		repo, alice, hod := seed(dept)
		rdb, mock := redismock.NewClientMock()
		svc := employee.NewService(repo, grants{}, rdb)

		want, err := json.Marshal([]employee.EmployeeResponse{
			{ID: alice.ID.String(), FullName: "Alice", Email: "alice@example.com", Role: employee.RoleEmployee, DepartmentID: dept.String()},
			{ID: hod.ID.String(), FullName: "Hana", Email: "hana@example.com", Role: employee.RoleHOD, DepartmentID: dept.String()},
		})
		require.NoError(t, err)

		key := employee.DepartmentCacheKey(dept.String())
		mock.ExpectGet(key).RedisNil()
		mock.ExpectSet(key, want, 10*time.Minute).SetVal("OK")

		resp, err := svc.ListMyDepartment(ctx, domain.Actor{UserID: alice.ID.String()})

		require.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.Equal(t, 1, repo.listQueries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cache hit skips the database", func(t *testing.T) {
		repo, alice, _ := seed(dept)
		rdb, mock := redismock.NewClientMock()
		svc := employee.NewService(repo, grants{}, rdb)

		cached, err := json.Marshal([]employee.EmployeeResponse{{ID: alice.ID.String(), FullName: "Alice"}})
		require.NoError(t, err)
		mock.ExpectGet(employee.DepartmentCacheKey(dept.String())).SetVal(string(cached))

		resp, err := svc.ListMyDepartment(ctx, domain.Actor{UserID: alice.ID.String()})

		require.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Zero(t, repo.listQueries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no department", func(t *testing.T) {
		loner := employee.Employee{ID: uuid.New(), FullName: "Lee", Role: employee.RoleEmployee}
		repo := &fakeRepo{byID: map[string]employee.Employee{loner.ID.String(): loner}}
		svc := employee.NewService(repo, grants{}, nil)

		resp, err := svc.ListMyDepartment(ctx, domain.Actor{UserID: loner.ID.String()})

		require.NoError(t, err)
		assert.Empty(t, resp)
	})
}
