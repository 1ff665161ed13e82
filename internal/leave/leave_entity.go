package leave

import (
	"time"

	"go-leave/internal/domain"

	"github.com/google/uuid"
)

// Status is the user-facing state of a request. It is always written as
// Workflow.Status() and never set independently.
type Status string

const (
	StatusPendingRM Status = "PENDING_RM"
	StatusPendingHR Status = "PENDING_HR"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// ActiveStatuses block overlapping applications.
var ActiveStatuses = []Status{StatusPendingRM, StatusPendingHR, StatusApproved}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPendingRM, StatusPendingHR, StatusApproved, StatusRejected, StatusCancelled:
		return st, true
	}
	return "", false
}

type LeaveRequest struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey"`
	EmployeeID  uuid.UUID        `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates"`
	LeaveType   domain.LeaveType `gorm:"type:varchar(20);not null"`
	StartDate   time.Time        `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	EndDate     time.Time        `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	TotalDays   int              `gorm:"not null"`
	Reason      string           `gorm:"type:text;not null"`
	DocumentRef *string          `gorm:"type:varchar(255)"`
	Status      Status           `gorm:"type:varchar(20);not null;index:idx_leave_requests_status"`
	AppliedAt   time.Time        `gorm:"not null"`
	UpdatedAt   time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// BalanceYear is the ledger year a request is charged against.
func (l LeaveRequest) BalanceYear() int {
	return l.StartDate.Year()
}

func (l LeaveRequest) OwnedBy(employeeID string) bool {
	return l.EmployeeID.String() == employeeID
}
