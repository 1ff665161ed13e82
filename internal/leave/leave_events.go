package leave

import (
	"context"
	"time"

	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"
)

// NewLifecycleOutboxEvent builds the outbox row for a request state change.
func NewLifecycleOutboxEvent(ctx context.Context, eventType string, l *LeaveRequest, actorID string, at time.Time) (kafka.OutboxEvent, error) {
	rid := contextutil.GetRequestID(ctx)
	payload := events.LeaveLifecycleEvent{
		EventType:   eventType,
		RequestID:   rid,
		LeaveID:     l.ID.String(),
		EmployeeID:  l.EmployeeID.String(),
		ActorID:     actorID,
		LeaveType:   string(l.LeaveType),
		Status:      string(l.Status),
		TotalDays:   l.TotalDays,
		BalanceYear: l.BalanceYear(),
		OccurredAt:  at.UTC(),
	}
	return kafka.NewOutboxEvent(
		rid,
		events.LeaveAggregateType,
		l.ID.String(),
		eventType,
		events.LeaveLifecycleTopic,
		payload,
	)
}
