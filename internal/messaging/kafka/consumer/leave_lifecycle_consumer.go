package consumer

import (
	"context"
	"encoding/json"

	"go-leave/internal/bootstrap"
	"go-leave/internal/events"
	"go-leave/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type BalanceInvalidator interface {
	Invalidate(ctx context.Context, employeeID string, year int)
}

// ConsumeLeaveLifecycle audits every lifecycle event and drops the cached balances of
// approved requests again, after any read that raced the approval commit has settled.
func ConsumeLeaveLifecycle(
	ctx context.Context,
	reader MessageReader,
	balances BalanceInvalidator,
	audit bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_lifecycle")
	log.Info("leave lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave lifecycle consumer stopped")
				return
			}
			log.Error("fetch leave lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.LeaveLifecycleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave lifecycle event failed", zap.Int64("offset", msg.Offset), zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		handleLeaveLifecycle(contextutil.WithRequestID(ctx, event.RequestID), event, balances, audit)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave lifecycle message failed", zap.Error(err))
			continue
		}

		log.Debug("leave lifecycle event handled",
			zap.String("event_type", event.EventType),
			zap.String("leave_id", event.LeaveID),
		)
	}
}

func handleLeaveLifecycle(ctx context.Context, event events.LeaveLifecycleEvent, balances BalanceInvalidator, audit bootstrap.AuditLogger) {
	if event.EventType == events.LeaveApproved && event.BalanceYear > 0 {
		balances.Invalidate(ctx, event.EmployeeID, event.BalanceYear)
	}

	audit.Log(ctx, bootstrap.AuditLog{
		Action:  event.EventType,
		Message: "leave request " + event.Status,
		Meta: map[string]any{
			"leave_id":    event.LeaveID,
			"employee_id": event.EmployeeID,
			"actor_id":    event.ActorID,
			"leave_type":  event.LeaveType,
			"total_days":  event.TotalDays,
			"occurred_at": event.OccurredAt,
		},
	})
}
