package rbac

import (
	"context"
	"errors"
	"sync"
	"time"

	"go-leave-portal/internal/domain"
	"go-leave-portal/internal/employee"
	rbacerrors "go-leave-portal/internal/rbac/errors"
	"go-leave-portal/internal/rbac/infra"
	"go-leave-portal/internal/shared/apperror"
	"go-leave-portal/internal/shared/contextutil"

	"github.com/casbin/casbin/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const objectLeave = "leave"

// Assignment lets Role decide Tier.
type Assignment struct {
	Role string
	Tier domain.Tier
}

func (a Assignment) rule() []string {
	return []string{a.Role, objectLeave, DecideAction(a.Tier)}
}

// DefaultAssignments: HOD decides the first tier, admin the second. Admin
// does not stand in for HOD.
var DefaultAssignments = []Assignment{
	{Role: employee.RoleHOD, Tier: domain.TierHOD},
	{Role: employee.RoleAdmin, Tier: domain.TierAdmin},
}

// DefaultTierPolicies is DefaultAssignments as enforcer rules.
var DefaultTierPolicies = Rules(DefaultAssignments)

func Rules(assignments []Assignment) [][]string {
	out := make([][]string, len(assignments))
	for i, a := range assignments {
		out[i] = a.rule()
	}
	return out
}

func DecideAction(tier domain.Tier) string {
	return "decide_" + string(tier)
}

// RequiredKey is reported to the caller when a role may not act as tier.
func RequiredKey(tier domain.Tier) string {
	return objectLeave + ":" + DecideAction(tier)
}

func validRole(role string) bool {
	switch role {
	case employee.RoleEmployee, employee.RoleHOD, employee.RoleAdmin:
		return true
	}
	return false
}

// TierPolicy decides which role may act as which approval tier. It sits next to
// the permission engine: a decision needs both the leave.approve permission
// and a matching tier policy.
//
//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type TierPolicy interface {
	CanActAs(role string, tier domain.Tier) bool
	Require(role string, tier domain.Tier) error
}

// Service is a TierPolicy backed by the tier_policies table.
type Service interface {
	TierPolicy
	ListPolicies(ctx context.Context) ([]TierPolicyResponse, error)
	AddPolicy(ctx context.Context, actor domain.Actor, req TierPolicyRequest) (TierPolicyResponse, error)
	RemovePolicy(ctx context.Context, actor domain.Actor, req TierPolicyRequest) error
	Reload(ctx context.Context) error
	Sync(ctx context.Context, interval time.Duration)
}

type tierPolicy struct {
	mu       sync.RWMutex
	enforcer *casbin.Enforcer
	logger   *zap.Logger
}

func newTierPolicy(enforcer *casbin.Enforcer, logger ...*zap.Logger) *tierPolicy {
	l := zap.L().Named("rbac.tier")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.tier")
	}
	return &tierPolicy{enforcer: enforcer, logger: l}
}

func (p *tierPolicy) CanActAs(role string, tier domain.Tier) bool {
	if role == "" || !tier.Valid() {
		return false
	}

	p.mu.RLock()
	allowed, err := p.enforcer.Enforce(role, objectLeave, DecideAction(tier))
	p.mu.RUnlock()
	if err != nil {
		p.logger.Error("tier policy enforce failed",
			zap.String("role", role),
			zap.String("tier", string(tier)),
			zap.Error(err),
		)
		return false
	}
	return allowed
}

func (p *tierPolicy) Require(role string, tier domain.Tier) error {
	if !p.CanActAs(role, tier) {
		p.logger.Warn("tier policy denied",
			zap.String("role", role),
			zap.String("tier", string(tier)),
		)
		return apperror.PermissionDenied(RequiredKey(tier))
	}
	return nil
}

// replace swaps in a fresh enforcer holding exactly rules.
func (p *tierPolicy) replace(rules [][]string) error {
	e, err := infra.NewEnforcer(rules)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.enforcer = e
	p.mu.Unlock()
	return nil
}

type service struct {
	*tierPolicy
	repo Repository
}

// NewService loads the tier policies from repo. An empty table falls back to
// DefaultAssignments so decisions never lock up.
func NewService(ctx context.Context, repo Repository, logger ...*zap.Logger) (Service, error) {
	e, err := infra.NewEnforcer(nil)
	if err != nil {
		return nil, err
	}
	s := &service{tierPolicy: newTierPolicy(e, logger...), repo: repo}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.Logger(ctx, s.logger)
}

func (s *service) Reload(ctx context.Context) error {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.log(ctx).Error("tier policy load failed", zap.Error(err))
		return apperror.Storage(err)
	}

	assignments := make([]Assignment, 0, len(rows))
	for _, row := range rows {
		a := Assignment{Role: row.Role, Tier: domain.Tier(row.Tier)}
		if !validRole(a.Role) || !a.Tier.Valid() {
			s.log(ctx).Warn("skipping unknown tier policy", zap.String("role", row.Role), zap.String("tier", row.Tier))
			continue
		}
		assignments = append(assignments, a)
	}
	if len(assignments) == 0 {
		s.log(ctx).Warn("no tier policies stored, using defaults")
		assignments = DefaultAssignments
	}

	if err := s.replace(Rules(assignments)); err != nil {
		return err
	}
	s.log(ctx).Debug("tier policies loaded", zap.Int("count", len(assignments)))
	return nil
}

// Sync reloads the table every interval until ctx is done, so changes made
// through another instance reach this one.
func (s *service) Sync(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Reload(ctx); err != nil {
				s.logger.Warn("tier policy sync failed", zap.Error(err))
			}
		}
	}
}

func (s *service) ListPolicies(ctx context.Context) ([]TierPolicyResponse, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.log(ctx).Error("list tier policies failed", zap.Error(err))
		return nil, apperror.Storage(err)
	}
	resp := make([]TierPolicyResponse, len(rows))
	for i, row := range rows {
		resp[i] = mapToResponse(row)
	}
	return resp, nil
}

func validateRequest(req TierPolicyRequest) (Assignment, error) {
	a := Assignment{Role: req.Role, Tier: domain.Tier(req.Tier)}
	if !validRole(a.Role) {
		return Assignment{}, rbacerrors.ErrInvalidRole
	}
	if !a.Tier.Valid() {
		return Assignment{}, rbacerrors.ErrInvalidTier
	}
	return a, nil
}

func (s *service) AddPolicy(ctx context.Context, actor domain.Actor, req TierPolicyRequest) (TierPolicyResponse, error) {
	a, err := validateRequest(req)
	if err != nil {
		return TierPolicyResponse{}, err
	}

	row := TierPolicyRow{ID: uuid.New(), Role: a.Role, Tier: string(a.Tier), CreatedAt: time.Now()}
	if id, err := uuid.Parse(actor.UserID); err == nil {
		row.GrantedBy = &id
	}

	created, err := s.repo.Create(ctx, &row)
	if err != nil {
		s.log(ctx).Error("create tier policy failed", zap.Error(err))
		return TierPolicyResponse{}, apperror.Storage(err)
	}
	if !created {
		return TierPolicyResponse{}, rbacerrors.ErrPolicyExists
	}

	s.mu.Lock()
	_, err = s.enforcer.AddPolicy(a.Role, objectLeave, DecideAction(a.Tier))
	s.mu.Unlock()
	if err != nil {
		s.log(ctx).Error("tier policy enforcer update failed", zap.Error(err))
		return TierPolicyResponse{}, err
	}

	s.log(ctx).Info("tier policy added",
		zap.String("actor_id", actor.UserID),
		zap.String("role", a.Role),
		zap.String("tier", string(a.Tier)),
	)
	return mapToResponse(row), nil
}

func (s *service) RemovePolicy(ctx context.Context, actor domain.Actor, req TierPolicyRequest) error {
	a, err := validateRequest(req)
	if err != nil {
		return err
	}

	n, err := s.repo.DeleteUnlessLast(ctx, a.Role, string(a.Tier))
	if err != nil {
		s.log(ctx).Error("delete tier policy failed", zap.Error(err))
		return apperror.Storage(err)
	}
	if n == 0 {
		if _, err := s.repo.Find(ctx, a.Role, string(a.Tier)); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return rbacerrors.ErrPolicyNotFound
			}
			return apperror.Storage(err)
		}
		return rbacerrors.ErrLastTierPolicy
	}

	s.mu.Lock()
	_, err = s.enforcer.RemovePolicy(a.Role, objectLeave, DecideAction(a.Tier))
	s.mu.Unlock()
	if err != nil {
		s.log(ctx).Error("tier policy enforcer update failed", zap.Error(err))
		return err
	}

	s.log(ctx).Info("tier policy removed",
		zap.String("actor_id", actor.UserID),
		zap.String("role", a.Role),
		zap.String("tier", string(a.Tier)),
	)
	return nil
}
