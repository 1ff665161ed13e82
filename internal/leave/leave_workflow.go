package leave

import (
	"strings"
	"time"

	leaveerrors "go-leave/internal/leave/errors"

	"github.com/google/uuid"
)

type Stage string

const (
	StagePendingRM Stage = "PENDING_RM"
	StagePendingHR Stage = "PENDING_HR"
	StageCompleted Stage = "COMPLETED"
)

// Outcome records how a completed workflow ended. Empty while pending.
type Outcome string

const (
	OutcomeNone      Outcome = ""
	OutcomeApproved  Outcome = "APPROVED"
	OutcomeRejected  Outcome = "REJECTED"
	OutcomeCancelled Outcome = "CANCELLED"
)

// ApproverType is the closed set of approval stages an actor can act in.
type ApproverType int

const (
	ApproverReportingManager ApproverType = iota + 1
	ApproverHRManager
)

func ParseApproverType(s string) (ApproverType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "REPORTING_MANAGER", "RM":
		return ApproverReportingManager, nil
	case "HR_MANAGER", "HR":
		return ApproverHRManager, nil
	}
	return 0, leaveerrors.ErrInvalidApproverType
}

func (t ApproverType) String() string {
	switch t {
	case ApproverReportingManager:
		return "REPORTING_MANAGER"
	case ApproverHRManager:
		return "HR_MANAGER"
	}
	return "UNKNOWN"
}

// Stage is the workflow stage this approver acts on.
func (t ApproverType) Stage() Stage {
	switch t {
	case ApproverReportingManager:
		return StagePendingRM
	case ApproverHRManager:
		return StagePendingHR
	}
	return ""
}

// IsFinal reports whether approval by t completes the workflow and debits the balance.
func (t ApproverType) IsFinal() bool {
	return t == ApproverHRManager
}

// ApproverForStage returns the approver type expected at a pending stage.
func ApproverForStage(s Stage) (ApproverType, bool) {
	switch s {
	case StagePendingRM:
		return ApproverReportingManager, true
	case StagePendingHR:
		return ApproverHRManager, true
	}
	return 0, false
}

// Workflow is the authoritative approval state of one leave request. The two
// flags and the stage only ever move forward.
type Workflow struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	LeaveRequestID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_workflows_request"`
	ManagerApproval bool      `gorm:"not null;default:false"`
	HRApproval      bool      `gorm:"not null;default:false"`
	CurrentStage    Stage     `gorm:"type:varchar(20);not null;index:idx_leave_workflows_stage"`
	Outcome         Outcome   `gorm:"type:varchar(20);not null;default:''"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Workflow) TableName() string {
	return "leave_workflows"
}

func NewWorkflow(requestID uuid.UUID) *Workflow {
	return &Workflow{
		ID:             uuid.New(),
		LeaveRequestID: requestID,
		CurrentStage:   StagePendingRM,
	}
}

func (w *Workflow) Pending() bool {
	return w.CurrentStage == StagePendingRM || w.CurrentStage == StagePendingHR
}

// Status projects the workflow onto the request-level status.
func (w *Workflow) Status() Status {
	switch w.Outcome {
	case OutcomeApproved:
		return StatusApproved
	case OutcomeRejected:
		return StatusRejected
	case OutcomeCancelled:
		return StatusCancelled
	}
	if w.CurrentStage == StagePendingHR {
		return StatusPendingHR
	}
	return StatusPendingRM
}

// Approve advances the workflow for approver t. The stage must match t.
func (w *Workflow) Approve(t ApproverType) error {
	switch t {
	case ApproverReportingManager:
		if w.CurrentStage != StagePendingRM {
			return leaveerrors.ErrNotInStage(string(StagePendingRM))
		}
		w.ManagerApproval = true
		w.CurrentStage = StagePendingHR
	case ApproverHRManager:
		if w.CurrentStage != StagePendingHR {
			return leaveerrors.ErrNotInStage(string(StagePendingHR))
		}
		w.HRApproval = true
		w.CurrentStage = StageCompleted
		w.Outcome = OutcomeApproved
	default:
		return leaveerrors.ErrInvalidApproverType
	}
	return nil
}

// Reject completes the workflow as rejected by approver t. The stage must match t.
func (w *Workflow) Reject(t ApproverType) error {
	if !w.Pending() {
		return leaveerrors.ErrWorkflowCompleted
	}
	stage := t.Stage()
	if stage != StagePendingRM && stage != StagePendingHR {
		return leaveerrors.ErrInvalidApproverType
	}
	if w.CurrentStage != stage {
		return leaveerrors.ErrNotInStage(string(stage))
	}
	w.CurrentStage = StageCompleted
	w.Outcome = OutcomeRejected
	return nil
}

func (w *Workflow) Cancel() error {
	if !w.Pending() {
		return leaveerrors.ErrWorkflowCompleted
	}
	w.CurrentStage = StageCompleted
	w.Outcome = OutcomeCancelled
	return nil
}

// Validate checks that the stage is derivable from the flags and outcome.
func (w *Workflow) Validate() error {
	ok := false
	switch w.Outcome {
	case OutcomeNone:
		ok = !w.HRApproval &&
			((w.CurrentStage == StagePendingRM && !w.ManagerApproval) ||
				(w.CurrentStage == StagePendingHR && w.ManagerApproval))
	case OutcomeApproved:
		ok = w.CurrentStage == StageCompleted && w.ManagerApproval && w.HRApproval
	case OutcomeRejected, OutcomeCancelled:
		ok = w.CurrentStage == StageCompleted && !w.HRApproval
	}
	if !ok {
		return leaveerrors.ErrInconsistentWorkflow
	}
	return nil
}
