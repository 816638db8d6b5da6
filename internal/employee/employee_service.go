package employee

import (
	"context"
	"encoding/json"
	"time"

	"go-leave-portal/internal/domain"
	employeeerrors "go-leave-portal/internal/employee/errors"
	"go-leave-portal/internal/shared/apperror"
	"go-leave-portal/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// ViewPermissionKey lets a holder read any employee record.
	ViewPermissionKey = "employee.view"

	DepartmentKeyPrefix = "employees:department:"
	departmentCacheTTL  = 10 * time.Minute
)

func DepartmentCacheKey(departmentID string) string {
	return DepartmentKeyPrefix + departmentID
}

type PermissionChecker interface {
	Check(ctx context.Context, userID, key string) bool
}

// Service is the read side of the directory used by the portal UI.
type Service interface {
	Me(ctx context.Context, actor domain.Actor) (EmployeeResponse, error)
	GetByID(ctx context.Context, actor domain.Actor, id string) (EmployeeResponse, error)
	ListMyDepartment(ctx context.Context, actor domain.Actor) ([]EmployeeResponse, error)
}

type service struct {
	repo   Repository
	perms  PermissionChecker
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, perms PermissionChecker, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		repo:   repo,
		perms:  perms,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.Logger(ctx, s.logger)
}

func (s *service) find(ctx context.Context, id string) (*Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}
	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, employeeerrors.ErrEmployeeNotFound
		}
		s.log(ctx).Error("find employee failed", zap.String("employee_id", id), zap.Error(err))
		return nil, apperror.Storage(err)
	}
	return empl, nil
}

func (s *service) Me(ctx context.Context, actor domain.Actor) (EmployeeResponse, error) {
	empl, err := s.find(ctx, actor.UserID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	return mapToResponse(*empl), nil
}

func (s *service) GetByID(ctx context.Context, actor domain.Actor, id string) (EmployeeResponse, error) {
	if id != actor.UserID && !s.perms.Check(ctx, actor.UserID, ViewPermissionKey) {
		return EmployeeResponse{}, apperror.PermissionDenied(ViewPermissionKey)
	}
	empl, err := s.find(ctx, id)
	if err != nil {
		return EmployeeResponse{}, err
	}
	return mapToResponse(*empl), nil
}

// ListMyDepartment returns the actor's colleagues. The list is cached in
// redis; concurrent misses share one query.
func (s *service) ListMyDepartment(ctx context.Context, actor domain.Actor) ([]EmployeeResponse, error) {
	me, err := s.find(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if me.DepartmentID == nil {
		return []EmployeeResponse{}, nil
	}

	departmentID := me.DepartmentID.String()
	cacheKey := DepartmentCacheKey(departmentID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []EmployeeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		items, err := s.repo.ListByDepartment(ctx, departmentID)
		if err != nil {
			s.log(ctx).Error("list department failed", zap.String("department_id", departmentID), zap.Error(err))
			return nil, apperror.Storage(err)
		}
		resp := mapToListResponse(items)

		if s.rdb != nil {
			if raw, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, raw, departmentCacheTTL).Err(); err != nil {
					s.log(ctx).Warn("cache department failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]EmployeeResponse), nil
}
