package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go-leave-portal/internal/config"
	"go-leave-portal/internal/events"
	"go-leave-portal/internal/messaging/kafka/consumer"
	"go-leave-portal/internal/notification"
	"go-leave-portal/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const consumerGroup = "leave-portal-notifications"

// RunConsumer turns lifecycle events into inbox rows. It has no websocket
// clients, so the notification service runs without a pusher.
func RunConsumer(cfg config.Config) error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, cfg.ConnectRetries)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	notificationService := notification.NewService(notification.NewRepository(gormDB), nil, logger)

	leaveReader := newReader(cfg.KafkaBroker, events.LeaveLifecycleTopic)
	defer leaveReader.Close()
	authorizationReader := newReader(cfg.KafkaBroker, events.AuthorizationLifecycleTopic)
	defer authorizationReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		consumer.ConsumeLeaveLifecycle(ctx, leaveReader, notificationService, logger)
	}()
	go func() {
		defer wg.Done()
		consumer.ConsumeAuthorizationLifecycle(ctx, authorizationReader, notificationService, logger)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()
	wg.Wait()

	return nil
}

func newReader(broker, topic string) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{broker},
		Topic:          topic,
		GroupID:        consumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
}
