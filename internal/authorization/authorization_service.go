package authorization

import (
	"context"
	"errors"
	"strings"
	"time"

	authorizationerrors "go-leave-portal/internal/authorization/errors"
	"go-leave-portal/internal/domain"
	"go-leave-portal/internal/events"
	"go-leave-portal/internal/messaging/kafka"
	"go-leave-portal/internal/permission"
	"go-leave-portal/internal/shared/apperror"
	"go-leave-portal/internal/shared/contextutil"
	"go-leave-portal/internal/shared/dbtx"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PermissionChecker interface {
	Require(ctx context.Context, userID, key string) error
	CheckAny(ctx context.Context, userID string, keys ...string) bool
}

type Service interface {
	Create(ctx context.Context, actor domain.Actor, req CreateAuthorizationRequest) (AuthorizationResponse, error)
	Update(ctx context.Context, actor domain.Actor, id string, req UpdateAuthorizationRequest) (AuthorizationResponse, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	GetByID(ctx context.Context, actor domain.Actor, id string) (AuthorizationResponse, error)
	ListMine(ctx context.Context, actor domain.Actor) ([]AuthorizationResponse, error)
	List(ctx context.Context, actor domain.Actor, status string) ([]AuthorizationResponse, error)
	Approve(ctx context.Context, actor domain.Actor, id string, req DecisionRequest) (AuthorizationResponse, error)
	Reject(ctx context.Context, actor domain.Actor, id string, req DecisionRequest) (AuthorizationResponse, error)
}

type service struct {
	repo   Repository
	tx     dbtx.Manager
	perms  PermissionChecker
	outbox kafka.OutboxRepository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, tx dbtx.Manager, perms PermissionChecker, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("authorization.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("authorization.service")
	}
	return &service{
		repo:   repo,
		tx:     tx,
		perms:  perms,
		outbox: outbox,
		now:    func() time.Time { return time.Now().UTC() },
		logger: l,
	}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.Logger(ctx, s.logger)
}

func (s *service) validate(req CreateAuthorizationRequest) (DetailsUpdate, error) {
	u := DetailsUpdate{
		AuthorizationType: strings.TrimSpace(req.AuthorizationType),
		Title:             strings.TrimSpace(req.Title),
		Reason:            strings.TrimSpace(req.Reason),
		Priority:          strings.ToLower(strings.TrimSpace(req.Priority)),
	}
	switch {
	case u.AuthorizationType == "":
		return u, apperror.RequiredField("Authorization Type")
	case u.Title == "":
		return u, apperror.RequiredField("Title")
	case u.Reason == "":
		return u, apperror.RequiredField("Reason")
	}

	switch u.Priority {
	case "":
		u.Priority = PriorityMedium
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return u, apperror.InvalidField("Priority")
	}

	if raw := strings.TrimSpace(req.ExpiryDate); raw != "" {
		expiry, err := time.Parse(dateLayout, raw)
		if err != nil {
			return u, authorizationerrors.ErrInvalidExpiryDate
		}
		today := s.now().Truncate(24 * time.Hour)
		if expiry.Before(today) {
			return u, authorizationerrors.ErrExpiryInPast
		}
		u.ExpiryDate = &expiry
	}
	return u, nil
}

func (s *service) find(ctx context.Context, id string) (*AuthorizationRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, authorizationerrors.ErrInvalidID
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, authorizationerrors.ErrNotFound
		}
		s.log(ctx).Error("find authorization failed", zap.String("authorization_id", id), zap.Error(err))
		return nil, apperror.Storage(err)
	}
	return a, nil
}

func (s *service) writeEvent(ctx context.Context, eventType string, a AuthorizationRequest, actorID string) error {
	if s.outbox == nil {
		return nil
	}
	ev := events.AuthorizationEvent{
		EventType:       eventType,
		AuthorizationID: a.ID.String(),
		EmployeeID:      a.EmployeeID.String(),
		Title:           a.Title,
		Status:          string(a.Status),
		ActorID:         actorID,
		OccurredAt:      s.now(),
	}
	outboxEvent, err := kafka.NewOutboxEvent(ctx, "authorization", ev.AuthorizationID, eventType, events.AuthorizationLifecycleTopic, ev)
	if err != nil {
		return apperror.Storage(err)
	}
	if err := s.outbox.Create(ctx, outboxEvent); err != nil {
		s.log(ctx).Error("write authorization outbox event failed",
			zap.String("authorization_id", ev.AuthorizationID),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return apperror.Storage(err)
	}
	return nil
}

func (s *service) Create(ctx context.Context, actor domain.Actor, req CreateAuthorizationRequest) (AuthorizationResponse, error) {
	employeeID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return AuthorizationResponse{}, apperror.InvalidField("User ID")
	}
	u, err := s.validate(req)
	if err != nil {
		return AuthorizationResponse{}, err
	}
	if err := s.perms.Require(ctx, actor.UserID, permission.KeyAuthorizationCreate); err != nil {
		return AuthorizationResponse{}, err
	}

	a := &AuthorizationRequest{
		ID:                uuid.New(),
		EmployeeID:        employeeID,
		AuthorizationType: u.AuthorizationType,
		Title:             u.Title,
		Reason:            u.Reason,
		Priority:          u.Priority,
		Status:            StatusPending,
		ExpiryDate:        u.ExpiryDate,
	}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, a); err != nil {
			s.log(ctx).Error("create authorization persist failed", zap.Error(err))
			return apperror.Storage(err)
		}
		return s.writeEvent(txCtx, events.AuthorizationCreated, *a, actor.UserID)
	})
	if err != nil {
		return AuthorizationResponse{}, err
	}

	s.log(ctx).Info("create authorization success",
		zap.String("authorization_id", a.ID.String()),
		zap.String("employee_id", actor.UserID),
	)
	return mapToResponse(*a), nil
}

// ownedPending loads id and checks the actor may still edit it. The
// conditional write that follows is the real guard.
func (s *service) ownedPending(ctx context.Context, actor domain.Actor, id string) (*AuthorizationRequest, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.EmployeeID.String() != actor.UserID {
		return nil, authorizationerrors.ErrNotOwner
	}
	if a.Status != StatusPending {
		return nil, authorizationerrors.ErrNotPending.WithDetails(StatusDetails{Status: string(a.Status)})
	}
	return a, nil
}

func (s *service) Update(ctx context.Context, actor domain.Actor, id string, req UpdateAuthorizationRequest) (AuthorizationResponse, error) {
	u, err := s.validate(req)
	if err != nil {
		return AuthorizationResponse{}, err
	}
	a, err := s.ownedPending(ctx, actor, id)
	if err != nil {
		return AuthorizationResponse{}, err
	}

	n, err := s.repo.UpdateIfPending(ctx, id, actor.UserID, u)
	if err != nil {
		s.log(ctx).Error("update authorization persist failed", zap.String("authorization_id", id), zap.Error(err))
		return AuthorizationResponse{}, apperror.Storage(err)
	}
	if n == 0 {
		return AuthorizationResponse{}, authorizationerrors.ErrNotPending
	}

	a.AuthorizationType, a.Title, a.Reason, a.Priority, a.ExpiryDate = u.AuthorizationType, u.Title, u.Reason, u.Priority, u.ExpiryDate
	s.log(ctx).Info("update authorization success", zap.String("authorization_id", id))
	return mapToResponse(*a), nil
}

func (s *service) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if _, err := s.ownedPending(ctx, actor, id); err != nil {
		return err
	}

	n, err := s.repo.DeleteIfPending(ctx, id, actor.UserID)
	if err != nil {
		s.log(ctx).Error("delete authorization persist failed", zap.String("authorization_id", id), zap.Error(err))
		return apperror.Storage(err)
	}
	if n == 0 {
		return authorizationerrors.ErrNotPending
	}
	s.log(ctx).Info("delete authorization success", zap.String("authorization_id", id))
	return nil
}

func (s *service) GetByID(ctx context.Context, actor domain.Actor, id string) (AuthorizationResponse, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		return AuthorizationResponse{}, err
	}
	if a.EmployeeID.String() != actor.UserID &&
		!s.perms.CheckAny(ctx, actor.UserID, permission.KeyAuthorizationViewAll, permission.KeyAuthorizationApprove) {
		return AuthorizationResponse{}, apperror.PermissionDenied(permission.KeyAuthorizationViewAll)
	}
	return mapToResponse(*a), nil
}

func (s *service) ListMine(ctx context.Context, actor domain.Actor) ([]AuthorizationResponse, error) {
	items, err := s.repo.ListByEmployee(ctx, actor.UserID)
	if err != nil {
		s.log(ctx).Error("list authorizations failed", zap.String("employee_id", actor.UserID), zap.Error(err))
		return nil, apperror.Storage(err)
	}
	return mapToListResponse(items), nil
}

func (s *service) List(ctx context.Context, actor domain.Actor, status string) ([]AuthorizationResponse, error) {
	var filter *Status
	if status != "" {
		st := Status(strings.ToLower(status))
		if !st.Valid() {
			return nil, authorizationerrors.ErrInvalidStatus
		}
		filter = &st
	}
	if !s.perms.CheckAny(ctx, actor.UserID, permission.KeyAuthorizationViewAll, permission.KeyAuthorizationApprove) {
		return nil, apperror.PermissionDenied(permission.KeyAuthorizationViewAll)
	}

	items, err := s.repo.ListByStatus(ctx, filter)
	if err != nil {
		s.log(ctx).Error("list authorizations by status failed", zap.Error(err))
		return nil, apperror.Storage(err)
	}
	return mapToListResponse(items), nil
}

func (s *service) Approve(ctx context.Context, actor domain.Actor, id string, req DecisionRequest) (AuthorizationResponse, error) {
	return s.decide(ctx, actor, id, StatusApproved, req.Comment)
}

func (s *service) Reject(ctx context.Context, actor domain.Actor, id string, req DecisionRequest) (AuthorizationResponse, error) {
	return s.decide(ctx, actor, id, StatusRejected, req.Comment)
}

func (s *service) decide(ctx context.Context, actor domain.Actor, id string, status Status, comment string) (AuthorizationResponse, error) {
	approverID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return AuthorizationResponse{}, apperror.InvalidField("User ID")
	}
	if err := s.perms.Require(ctx, actor.UserID, permission.KeyAuthorizationApprove); err != nil {
		return AuthorizationResponse{}, err
	}

	var commentPtr *string
	if c := strings.TrimSpace(comment); c != "" {
		commentPtr = &c
	}

	var a *AuthorizationRequest
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		a, err = s.find(txCtx, id)
		if err != nil {
			return err
		}
		if a.EmployeeID == approverID {
			return authorizationerrors.ErrSelfDecision
		}
		if a.Status != StatusPending {
			return authorizationerrors.ErrAlreadyProcessed.WithDetails(StatusDetails{Status: string(a.Status)})
		}
		now := s.now()
		if status == StatusApproved && a.IsExpired(now) {
			s.log(ctx).Warn("approval of expired authorization refused", zap.String("authorization_id", id))
			return authorizationerrors.ErrExpired
		}

		n, err := s.repo.Decide(txCtx, id, Decision{
			Status:     status,
			ApproverID: approverID,
			Comment:    commentPtr,
			DecidedAt:  now,
		})
		if err != nil {
			s.log(ctx).Error("authorization decision persist failed", zap.String("authorization_id", id), zap.Error(err))
			return apperror.Storage(err)
		}
		if n == 0 {
			return authorizationerrors.ErrAlreadyProcessed
		}

		a.Status, a.ApprovedBy, a.ApprovalComment, a.DecidedAt = status, &approverID, commentPtr, &now

		eventType := events.AuthorizationApproved
		if status == StatusRejected {
			eventType = events.AuthorizationRejected
		}
		return s.writeEvent(txCtx, eventType, *a, actor.UserID)
	})
	if err != nil {
		return AuthorizationResponse{}, err
	}

	s.log(ctx).Info("authorization decision success",
		zap.String("authorization_id", id),
		zap.String("status", string(status)),
	)
	return mapToResponse(*a), nil
}
