package app

import (
	"context"
	"fmt"

	"go-payroll/internal/config"
	"go-payroll/internal/employee"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka/consumer"
	"go-payroll/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const lifecycleConsumerGroup = "go-payroll-employee-directory"

// RunConsumer keeps the employee directory in sync with upstream lifecycle
// events until ctx is cancelled.
func RunConsumer(ctx context.Context, cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	db, err := connection.ConnectGORMWithRetry(cfg.Database(), 5)
	if err != nil {
		return err
	}
	a := &App{DB: db}
	defer a.Close()

	employeeService := employee.NewService(db, employee.NewRepository(db), zap.L())

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.EmployeeLifecycleTopic,
		GroupID:        lifecycleConsumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	consumer.ConsumeEmployeeLifecycle(ctx, reader, employeeService, zap.L())

	logger.Info("consumer shut down")
	return nil
}
