package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go-leave-portal/internal/events"
	"go-leave-portal/internal/messaging/kafka"

	"github.com/jackc/pgx/v5/pgconn"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumers need.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// LeaveEventHandler receives decoded leave lifecycle events. eventID is the
// outbox id carried in the message headers and is stable across redelivery.
type LeaveEventHandler interface {
	HandleLeaveEvent(ctx context.Context, eventID string, event events.LeaveEvent) error
}

type AuthorizationEventHandler interface {
	HandleAuthorizationEvent(ctx context.Context, eventID string, event events.AuthorizationEvent) error
}

func ConsumeLeaveLifecycle(
	ctx context.Context,
	reader MessageReader,
	handler LeaveEventHandler,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_lifecycle")
	consume(ctx, reader, log, "leave lifecycle", func(ctx context.Context, msg kafkago.Message) error {
		var event events.LeaveEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return errPoison{err}
		}
		return handler.HandleLeaveEvent(ctx, eventID(msg), event)
	})
}

func ConsumeAuthorizationLifecycle(
	ctx context.Context,
	reader MessageReader,
	handler AuthorizationEventHandler,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.authorization_lifecycle")
	consume(ctx, reader, log, "authorization lifecycle", func(ctx context.Context, msg kafkago.Message) error {
		var event events.AuthorizationEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return errPoison{err}
		}
		return handler.HandleAuthorizationEvent(ctx, eventID(msg), event)
	})
}

type errPoison struct{ err error }

func (e errPoison) Error() string { return "undecodable message: " + e.err.Error() }

func eventID(msg kafkago.Message) string {
	if id := kafka.HeaderValue(msg, kafka.HeaderEventID); id != "" {
		return id
	}
	return string(msg.Key) + ":" + kafka.HeaderValue(msg, kafka.HeaderEventType)
}

// consume commits a message once it is handled, skipped as a duplicate, or
// found undecodable. Any other failure leaves it uncommitted for redelivery.
func consume(
	ctx context.Context,
	reader MessageReader,
	log *zap.Logger,
	name string,
	handle func(ctx context.Context, msg kafkago.Message) error,
) {
	log.Info(name + " consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info(name + " consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		err = handle(ctx, msg)
		var poison errPoison
		switch {
		case err == nil:
		case errors.As(err, &poison):
			log.Error("decode event failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		case isUniqueViolation(err):
			log.Warn("event already handled, skipping",
				zap.String("event_id", eventID(msg)),
				zap.Int64("offset", msg.Offset),
			)
		default:
			log.Error("handle event failed",
				zap.String("event_id", eventID(msg)),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message failed", zap.Error(err))
			continue
		}

		log.Debug("event handled",
			zap.String("event_id", eventID(msg)),
			zap.String("event_type", kafka.HeaderValue(msg, kafka.HeaderEventType)),
		)
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}
