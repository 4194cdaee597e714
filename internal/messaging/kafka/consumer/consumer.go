package consumer

import (
	"context"
	"encoding/json"
	"net/http"

	"go-payroll/internal/events"
	"go-payroll/internal/shared/apperror"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type LifecycleApplier interface {
	ApplyLifecycleEvent(ctx context.Context, event events.EmployeeLifecycleEvent) error
}

// ConsumeEmployeeLifecycle folds employee lifecycle events into the local
// employee directory until ctx is done. Malformed or rejected events are
// committed and skipped; transient failures leave the offset uncommitted.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader MessageReader,
	employees LifecycleApplier,
	logger *zap.Logger,
) {
	if logger == nil {
		logger = zap.L()
	}
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			continue
		}

		if !handleLifecycleMessage(ctx, employees, msg, log) {
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee lifecycle message failed", zap.Error(err))
		}
	}
}

// handleLifecycleMessage reports whether the message offset can be committed.
func handleLifecycleMessage(ctx context.Context, employees LifecycleApplier, msg kafkago.Message, log *zap.Logger) bool {
	log = log.With(zap.Int("partition", msg.Partition), zap.Int64("offset", msg.Offset))

	var event events.EmployeeLifecycleEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode employee lifecycle event failed", zap.Error(err))
		return true
	}

	err := employees.ApplyLifecycleEvent(ctx, event)
	if err == nil {
		log.Info("employee lifecycle event applied",
			zap.String("event_type", event.EventType),
			zap.String("employee_code", event.EmployeeCode),
		)
		return true
	}

	if apperror.ToHTTP(err).Status < http.StatusInternalServerError {
		log.Warn("employee lifecycle event rejected, skipping",
			zap.String("event_type", event.EventType),
			zap.String("employee_code", event.EmployeeCode),
			zap.Error(err),
		)
		return true
	}

	log.Error("apply employee lifecycle event failed",
		zap.String("event_type", event.EventType),
		zap.String("employee_code", event.EmployeeCode),
		zap.Error(err),
	)
	return false
}
