package permission

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-leave-portal/internal/domain"
	"go-leave-portal/internal/employee"
	permissionerrors "go-leave-portal/internal/permission/errors"
	"go-leave-portal/internal/shared/apperror"
	"go-leave-portal/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	GrantedKeysCachePrefix = "permissions:granted:"
	grantedKeysCacheTTL    = 10 * time.Minute
)

func GrantedKeysCacheKey(userID string) string {
	return GrantedKeysCachePrefix + userID
}

// RoleLookup resolves the stored role of a user.
type RoleLookup interface {
	FindRole(ctx context.Context, id string) (string, error)
}

// Service is the permission engine. Check never returns an error: any lookup
// failure is a denial.
//
//go:generate mockgen -source=permission_service.go -destination=mock/permission_service_mock.go -package=mock
type Service interface {
	Check(ctx context.Context, userID, key string) bool
	CheckAny(ctx context.Context, userID string, keys ...string) bool
	CheckAll(ctx context.Context, userID string, keys ...string) bool
	CheckAdminOrPermission(ctx context.Context, userID, role, key string) bool
	Require(ctx context.Context, userID, key string) error
	RequireAdminOrPermission(ctx context.Context, userID, role, key string) error

	Grant(ctx context.Context, actor domain.Actor, req GrantRequest) (GrantResponse, error)
	Revoke(ctx context.Context, actor domain.Actor, req GrantRequest) (GrantResponse, error)
	ListGrantedKeys(ctx context.Context, userID string) ([]string, error)
	ListPermissions(ctx context.Context) ([]PermissionResponse, error)
}

type service struct {
	repo   Repository
	roles  RoleLookup
	rdb    *redis.Client
	sf     *singleflight.Group
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, roles RoleLookup, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("permission.engine")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("permission.engine")
	}
	return &service{
		repo:   repo,
		roles:  roles,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		now:    func() time.Time { return time.Now().UTC() },
		logger: l,
	}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.Logger(ctx, s.logger)
}

func (s *service) Check(ctx context.Context, userID, key string) bool {
	allowed, reason := s.evaluate(ctx, userID, key)
	if !allowed {
		s.log(ctx).Warn("permission denied",
			zap.String("user_id", userID),
			zap.String("permission_key", key),
			zap.String("reason", reason),
		)
	}
	return allowed
}

func (s *service) evaluate(ctx context.Context, userID, key string) (bool, string) {
	if _, err := uuid.Parse(userID); err != nil {
		return false, "invalid user id"
	}
	if strings.TrimSpace(key) == "" {
		return false, "empty permission key"
	}

	if PolicyFor(key) == NoBypass {
		return s.hasGrant(ctx, userID, key)
	}

	role, err := s.roles.FindRole(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "user not found"
		}
		s.log(ctx).Error("permission role lookup failed", zap.String("user_id", userID), zap.Error(err))
		return false, "role lookup failed"
	}
	if role == employee.RoleAdmin {
		return true, ""
	}
	return s.hasGrant(ctx, userID, key)
}

func (s *service) hasGrant(ctx context.Context, userID, key string) (bool, string) {
	perm, err := s.repo.FindActivePermission(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "permission not found or inactive"
		}
		s.log(ctx).Error("permission lookup failed", zap.String("permission_key", key), zap.Error(err))
		return false, "permission lookup failed"
	}

	grant, err := s.repo.FindGrant(ctx, userID, perm.ID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "no grant"
		}
		s.log(ctx).Error("grant lookup failed",
			zap.String("user_id", userID),
			zap.String("permission_key", key),
			zap.Error(err),
		)
		return false, "grant lookup failed"
	}
	if !grant.Granted {
		return false, "grant revoked"
	}
	return true, ""
}

// CheckAny and CheckAll go through Check for every key so the single-key rules
// (including the bypass table) apply unchanged. An empty key list is a denial.
func (s *service) CheckAny(ctx context.Context, userID string, keys ...string) bool {
	for _, key := range keys {
		if s.Check(ctx, userID, key) {
			return true
		}
	}
	return false
}

func (s *service) CheckAll(ctx context.Context, userID string, keys ...string) bool {
	if len(keys) == 0 {
		return false
	}
	for _, key := range keys {
		if !s.Check(ctx, userID, key) {
			return false
		}
	}
	return true
}

// CheckAdminOrPermission trusts the caller-supplied role: admin always passes,
// with no exception table. Everyone else falls back to Check.
func (s *service) CheckAdminOrPermission(ctx context.Context, userID, role, key string) bool {
	if role == employee.RoleAdmin {
		return true
	}
	return s.Check(ctx, userID, key)
}

func (s *service) Require(ctx context.Context, userID, key string) error {
	if !s.Check(ctx, userID, key) {
		return apperror.PermissionDenied(key)
	}
	return nil
}

func (s *service) RequireAdminOrPermission(ctx context.Context, userID, role, key string) error {
	if !s.CheckAdminOrPermission(ctx, userID, role, key) {
		return apperror.PermissionDenied(key)
	}
	return nil
}

func (s *service) Grant(ctx context.Context, actor domain.Actor, req GrantRequest) (GrantResponse, error) {
	return s.setGrant(ctx, actor, req, true)
}

func (s *service) Revoke(ctx context.Context, actor domain.Actor, req GrantRequest) (GrantResponse, error) {
	return s.setGrant(ctx, actor, req, false)
}

func (s *service) setGrant(ctx context.Context, actor domain.Actor, req GrantRequest, granted bool) (GrantResponse, error) {
	s.log(ctx).Debug("set grant requested",
		zap.String("actor_id", actor.UserID),
		zap.String("user_id", req.UserID),
		zap.String("permission_key", req.Key),
		zap.Bool("granted", granted),
	)

	if err := s.RequireAdminOrPermission(ctx, actor.UserID, actor.Role, KeyPermissionManage); err != nil {
		return GrantResponse{}, err
	}

	userUUID, err := uuid.Parse(req.UserID)
	if err != nil {
		return GrantResponse{}, permissionerrors.ErrInvalidUserID
	}
	actorUUID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return GrantResponse{}, permissionerrors.ErrInvalidUserID
	}
	if strings.TrimSpace(req.Key) == "" {
		return GrantResponse{}, permissionerrors.ErrInvalidPermissionKey
	}

	if _, err := s.roles.FindRole(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GrantResponse{}, permissionerrors.ErrUserNotFound
		}
		return GrantResponse{}, apperror.Storage(err)
	}

	perm, err := s.repo.FindActivePermission(ctx, req.Key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GrantResponse{}, permissionerrors.ErrPermissionNotFound
		}
		return GrantResponse{}, apperror.Storage(err)
	}

	now := s.now()
	grant := &UserPermission{
		UserID:       userUUID,
		PermissionID: perm.ID,
		Granted:      granted,
		UpdatedAt:    now,
	}

	if granted {
		grant.GrantedBy = &actorUUID
		grant.GrantedAt = &now
	} else {
		existing, err := s.repo.FindGrant(ctx, req.UserID, perm.ID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return GrantResponse{}, permissionerrors.ErrGrantNotFound
			}
			return GrantResponse{}, apperror.Storage(err)
		}
		grant.ID = existing.ID
		grant.GrantedBy = existing.GrantedBy
		grant.GrantedAt = existing.GrantedAt
		grant.RevokedAt = &now
	}

	if err := s.repo.UpsertGrant(ctx, grant); err != nil {
		s.log(ctx).Error("upsert grant failed",
			zap.String("user_id", req.UserID),
			zap.String("permission_key", req.Key),
			zap.Error(err),
		)
		return GrantResponse{}, apperror.Storage(err)
	}

	s.invalidateGrantedKeys(ctx, req.UserID)

	s.log(ctx).Info("set grant success",
		zap.String("actor_id", actor.UserID),
		zap.String("user_id", req.UserID),
		zap.String("permission_key", req.Key),
		zap.Bool("granted", granted),
	)
	return mapGrantResponse(req.Key, *grant), nil
}

func (s *service) invalidateGrantedKeys(ctx context.Context, userID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GrantedKeysCacheKey(userID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.log(ctx).Error("failed to invalidate granted keys cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

// ListGrantedKeys is a read model for the UI. Check never reads this cache.
func (s *service) ListGrantedKeys(ctx context.Context, userID string) ([]string, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, permissionerrors.ErrInvalidUserID
	}
	cacheKey := GrantedKeysCacheKey(userID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var keys []string
			if json.Unmarshal([]byte(cached), &keys) == nil {
				return keys, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		keys, err := s.repo.ListGrantedKeys(ctx, userID)
		if err != nil {
			return nil, apperror.Storage(err)
		}
		if keys == nil {
			keys = []string{}
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(keys); err == nil {
				s.rdb.Set(ctx, cacheKey, payload, grantedKeysCacheTTL)
			}
		}
		return keys, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

func (s *service) ListPermissions(ctx context.Context) ([]PermissionResponse, error) {
	perms, err := s.repo.ListPermissions(ctx)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	resp := make([]PermissionResponse, len(perms))
	for i, p := range perms {
		resp[i] = PermissionResponse{
			ID:       p.ID.String(),
			Key:      p.Key,
			Category: p.Category,
			Label:    p.Label,
			IsActive: p.IsActive,
			Bypass:   PolicyFor(p.Key).String(),
		}
	}
	return resp, nil
}

func mapGrantResponse(key string, g UserPermission) GrantResponse {
	resp := GrantResponse{
		UserID:  g.UserID.String(),
		Key:     key,
		Granted: g.Granted,
	}
	if g.GrantedBy != nil {
		v := g.GrantedBy.String()
		resp.GrantedBy = &v
	}
	if g.GrantedAt != nil {
		v := g.GrantedAt.Format(time.RFC3339)
		resp.GrantedAt = &v
	}
	if g.RevokedAt != nil {
		v := g.RevokedAt.Format(time.RFC3339)
		resp.RevokedAt = &v
	}
	return resp
}
