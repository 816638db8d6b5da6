package consumer_test

import (
	"context"
	"errors"
	"testing"

	"go-leave-portal/internal/events"
	"go-leave-portal/internal/messaging/kafka"
	"go-leave-portal/internal/messaging/kafka/consumer"

	"github.com/jackc/pgx/v5/pgconn"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeReader replays msgs then cancels the consumer context.
type fakeReader struct {
	msgs      []kafkago.Message
	cancel    context.CancelFunc
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafkago.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

type fakeLeaveHandler struct {
	errs map[string]error
	seen []string
}

func (h *fakeLeaveHandler) HandleLeaveEvent(_ context.Context, eventID string, event events.LeaveEvent) error {
	h.seen = append(h.seen, eventID+"/"+event.EventType)
	return h.errs[eventID]
}

func msg(offset int64, id, value string) kafkago.Message {
	return kafkago.Message{
		Offset:  offset,
		Key:     []byte("leave-1"),
		Value:   []byte(value),
		Headers: []kafkago.Header{{Key: kafka.HeaderEventID, Value: []byte(id)}},
	}
}

func TestConsumeLeaveLifecycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel: cancel,
		msgs: []kafkago.Message{
			msg(1, "e-1", `{"event_type":"leave.created"}`),
			msg(2, "e-2", `not json`),
			msg(3, "e-3", `{"event_type":"leave.hod_approved"}`),
			msg(4, "e-4", `{"event_type":"leave.admin_approved"}`),
		},
	}
	handler := &fakeLeaveHandler{errs: map[string]error{
		"e-3": &pgconn.PgError{Code: "23505"},
		"e-4": errors.New("db down"),
	}}

	consumer.ConsumeLeaveLifecycle(ctx, reader, handler, zap.NewNop())

	assert.Equal(t, []string{"e-1/leave.created", "e-3/leave.hod_approved", "e-4/leave.admin_approved"}, handler.seen)
	// handled, poison and duplicate are committed; the transient failure is not
	assert.Equal(t, []int64{1, 2, 3}, reader.committed)
}
