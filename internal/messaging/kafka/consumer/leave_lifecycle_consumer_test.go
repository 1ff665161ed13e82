package consumer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go-leave/internal/bootstrap"
	"go-leave/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeReader struct {
	msgs      []kafkago.Message
	committed []kafkago.Message
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		return kafkago.Message{}, ctx.Err()
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

type invalidation struct {
	employeeID string
	year       int
}

type fakeInvalidator struct {
	calls []invalidation
}

func (f *fakeInvalidator) Invalidate(_ context.Context, employeeID string, year int) {
	f.calls = append(f.calls, invalidation{employeeID, year})
}

type fakeAudit struct {
	entries []bootstrap.AuditLog
}

func (f *fakeAudit) Log(_ context.Context, entry bootstrap.AuditLog) {
	f.entries = append(f.entries, entry)
}

func lifecycleMessage(t *testing.T, offset int64, event events.LeaveLifecycleEvent) kafkago.Message {
	body, err := json.Marshal(event)
	assert.NoError(t, err)
	return kafkago.Message{Offset: offset, Value: body}
}

func TestConsumeLeaveLifecycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	at := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	reader := &fakeReader{
		cancel: cancel,
		msgs: []kafkago.Message{
			lifecycleMessage(t, 1, events.LeaveLifecycleEvent{EventType: events.LeaveStageAdvanced, LeaveID: "l1", EmployeeID: "e1", Status: "PENDING_HR", BalanceYear: 2026, OccurredAt: at}),
			{Offset: 2, Value: []byte("not-json")},
			lifecycleMessage(t, 3, events.LeaveLifecycleEvent{EventType: events.LeaveApproved, LeaveID: "l1", EmployeeID: "e1", Status: "APPROVED", BalanceYear: 2026, OccurredAt: at}),
		},
	}
	balances := &fakeInvalidator{}
	audit := &fakeAudit{}

	ConsumeLeaveLifecycle(ctx, reader, balances, audit, zap.NewNop())

	assert.Len(t, reader.committed, 3)
	assert.Equal(t, []invalidation{{"e1", 2026}}, balances.calls)
	assert.Len(t, audit.entries, 2)
	assert.Equal(t, events.LeaveStageAdvanced, audit.entries[0].Action)
	assert.Equal(t, "leave request APPROVED", audit.entries[1].Message)
}
