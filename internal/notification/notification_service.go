package notification

import (
	"context"
	"encoding/json"
	"time"

	"go-leave-portal/internal/events"
	notificationerrors "go-leave-portal/internal/notification/errors"
	"go-leave-portal/internal/shared/apperror"
	"go-leave-portal/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Pusher delivers a frame to a user's open websocket connections.
type Pusher interface {
	SendToUser(userID string, message []byte) bool
}

type Service interface {
	HandleLeaveEvent(ctx context.Context, eventID string, event events.LeaveEvent) error
	HandleAuthorizationEvent(ctx context.Context, eventID string, event events.AuthorizationEvent) error
	ListMine(ctx context.Context, userID string, unreadOnly bool) ([]NotificationResponse, error)
	MarkRead(ctx context.Context, userID, id string) error
}

type service struct {
	repo   Repository
	pusher Pusher
	now    func() time.Time
	logger *zap.Logger
}

// NewService builds the inbox service. pusher may be nil in processes with no
// websocket clients.
func NewService(repo Repository, pusher Pusher, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{
		repo:   repo,
		pusher: pusher,
		now:    func() time.Time { return time.Now().UTC() },
		logger: l,
	}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.Logger(ctx, s.logger)
}

func (s *service) store(ctx context.Context, eventID, recipientID, eventType, title, message string, payload any) error {
	recipient, err := uuid.Parse(recipientID)
	if err != nil {
		s.log(ctx).Warn("notification dropped, bad recipient",
			zap.String("event_id", eventID),
			zap.String("recipient_id", recipientID),
		)
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	n := &Notification{
		ID:            uuid.New(),
		RecipientID:   recipient,
		SourceEventID: eventID,
		EventType:     eventType,
		Title:         title,
		Message:       message,
		Payload:       datatypes.JSON(raw),
	}
	created, err := s.repo.Create(ctx, n)
	if err != nil {
		s.log(ctx).Error("store notification failed", zap.String("event_id", eventID), zap.Error(err))
		return err
	}
	if !created {
		s.log(ctx).Debug("duplicate event ignored", zap.String("event_id", eventID))
		return nil
	}

	s.push(recipientID, PushMessage{Type: eventType, Title: title, Message: message, Data: payload})
	return nil
}

func (s *service) push(userID string, msg PushMessage) {
	if s.pusher == nil {
		return
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.pusher.SendToUser(userID, raw)
}

func (s *service) HandleLeaveEvent(ctx context.Context, eventID string, event events.LeaveEvent) error {
	title, message := leaveMessage(event)
	return s.store(ctx, eventID, event.EmployeeID, event.EventType, title, message, event)
}

func (s *service) HandleAuthorizationEvent(ctx context.Context, eventID string, event events.AuthorizationEvent) error {
	title, message := authorizationMessage(event)
	return s.store(ctx, eventID, event.EmployeeID, event.EventType, title, message, event)
}

func (s *service) ListMine(ctx context.Context, userID string, unreadOnly bool) ([]NotificationResponse, error) {
	items, err := s.repo.ListByRecipient(ctx, userID, unreadOnly)
	if err != nil {
		s.log(ctx).Error("list notifications failed", zap.String("user_id", userID), zap.Error(err))
		return nil, apperror.Storage(err)
	}
	resp := make([]NotificationResponse, len(items))
	for i, n := range items {
		resp[i] = mapToResponse(n)
	}
	return resp, nil
}

func (s *service) MarkRead(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notificationerrors.ErrInvalidID
	}
	n, err := s.repo.MarkRead(ctx, id, userID, s.now())
	if err != nil {
		s.log(ctx).Error("mark notification read failed", zap.String("notification_id", id), zap.Error(err))
		return apperror.Storage(err)
	}
	if n == 0 {
		return notificationerrors.ErrNotFound
	}
	return nil
}
