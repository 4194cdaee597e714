package app

import (
	"context"
	"fmt"
	"time"

	"go-payroll/internal/config"
	"go-payroll/internal/messaging/kafka/producer"
	"go-payroll/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker publishes the outbox to Kafka and runs the backlog sweep
// scheduler until ctx is cancelled.
func RunWorker(ctx context.Context, cfg *config.Config) error {
	logger := zap.L().Named("app.worker")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	db, rdb, err := Connect(cfg, logger)
	if err != nil {
		return err
	}
	a := &App{DB: db, Redis: rdb}
	defer a.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	modules, err := NewModules(cfg, db, rdb, NewMailer(cfg, logger), zap.L())
	if err != nil {
		return err
	}

	if err := modules.Scheduler.Start(); err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		producer.ProcessOutboxEvents(ctx, modules.Outbox, kafkaWriter, zap.L(), cfg.OutboxPollInterval)
	}()

	<-ctx.Done()
	logger.Info("worker shutting down")

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	modules.Scheduler.Stop(stopCtx)
	<-done

	return nil
}
