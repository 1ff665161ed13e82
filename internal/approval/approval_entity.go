package approval

import (
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionApplied Action = "APPLIED"
	ActionApprove Action = "APPROVE"
	ActionReject  Action = "REJECT"
)

// LeaveApproval is one append-only entry of a request's decision trail.
type LeaveApproval struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	LeaveRequestID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_approvals_request"`
	ApproverID     uuid.UUID `gorm:"type:uuid;not null"`
	ApproverType   string    `gorm:"type:varchar(30);not null"`
	Action         Action    `gorm:"type:varchar(10);not null"`
	Comment        *string   `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"not null"`
}

func (LeaveApproval) TableName() string {
	return "leave_approvals"
}
