package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

const LeaveAggregateType = "leave_request"

const (
	LeaveApplied       = "leave.applied"
	LeaveUpdated       = "leave.updated"
	LeaveCancelled     = "leave.cancelled"
	LeaveStageAdvanced = "leave.stage_advanced"
	LeaveApproved      = "leave.approved"
	LeaveRejected      = "leave.rejected"
)

type LeaveLifecycleEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id,omitempty"`
	LeaveID     string    `json:"leave_id"`
	EmployeeID  string    `json:"employee_id"`
	ActorID     string    `json:"actor_id"`
	LeaveType   string    `json:"leave_type"`
	Status      string    `json:"status"`
	TotalDays   int       `json:"total_days"`
	BalanceYear int       `json:"balance_year"`
	OccurredAt  time.Time `json:"occurred_at"`
}
