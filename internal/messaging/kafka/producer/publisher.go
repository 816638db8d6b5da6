package producer

import (
	"context"

	"go-leave-portal/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafkago.Writer the worker needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

func publishEvent(ctx context.Context, writer MessageWriter, event kafka.OutboxEvent) error {
	msg := kafkago.Message{
		Topic: event.Topic,
		Key:   []byte(event.AggregateID),
		Value: event.Payload,
		Headers: []kafkago.Header{
			{Key: kafka.HeaderEventID, Value: []byte(event.ID)},
			{Key: kafka.HeaderEventType, Value: []byte(event.EventType)},
			{Key: kafka.HeaderAggregateType, Value: []byte(event.AggregateType)},
		},
	}
	if event.RequestID != "" {
		msg.Headers = append(msg.Headers, kafkago.Header{Key: kafka.HeaderRequestID, Value: []byte(event.RequestID)})
	}

	return writer.WriteMessages(ctx, msg)
}
