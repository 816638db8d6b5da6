package kafka_test

import (
	"context"
	"testing"

	"go-leave-portal/internal/events"
	"go-leave-portal/internal/messaging/kafka"
	"go-leave-portal/internal/shared/contextutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) (kafka.OutboxRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	assert.NoError(t, err)
	return kafka.NewOutboxRepository(db), mock
}

func TestNewOutboxEvent(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "req-1")

	e, err := kafka.NewOutboxEvent(ctx, "leave", "leave-1", events.LeaveCreated, events.LeaveLifecycleTopic,
		events.LeaveEvent{EventType: events.LeaveCreated, LeaveID: "leave-1"})

	assert.NoError(t, err)
	assert.Equal(t, "req-1", e.RequestID)
	assert.Equal(t, kafka.OutboxStatusPending, e.Status)
	assert.NoError(t, kafka.ValidateOutboxEvent(e))
}

func TestOutboxRepository_Create(t *testing.T) {
	repo, mock := setupRepo(t)
	e, err := kafka.NewOutboxEvent(context.Background(), "leave", "leave-1", events.LeaveCreated,
		events.LeaveLifecycleTopic, map[string]string{"k": "v"})
	assert.NoError(t, err)

	mock.ExpectExec(`INSERT INTO outbox_events`).
		WithArgs(e.ID, e.RequestID, e.AggregateType, e.AggregateID, e.EventType, e.Topic, e.Payload, e.Status).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Create(context.Background(), e))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_CreateRejectsInvalid(t *testing.T) {
	repo, _ := setupRepo(t)
	err := repo.Create(context.Background(), kafka.OutboxEvent{ID: "x", Topic: "t", Status: "weird", Payload: []byte("{}")})
	assert.Error(t, err)
}

func TestOutboxRepository_MarkFailed(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectExec(`UPDATE outbox_events`).
		WithArgs(kafka.OutboxStatusFailed, "boom", "e-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkFailed(context.Background(), "e-1", "boom"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
