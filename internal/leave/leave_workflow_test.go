package leave_test

import (
	"testing"

	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParseApproverType(t *testing.T) {
	rm, err := leave.ParseApproverType("reporting_manager")
	assert.NoError(t, err)
	assert.Equal(t, leave.ApproverReportingManager, rm)
	assert.Equal(t, leave.StagePendingRM, rm.Stage())
	assert.False(t, rm.IsFinal())

	hr, err := leave.ParseApproverType("HR_MANAGER")
	assert.NoError(t, err)
	assert.Equal(t, leave.StagePendingHR, hr.Stage())
	assert.True(t, hr.IsFinal())
	assert.Equal(t, "HR_MANAGER", hr.String())

	_, err = leave.ParseApproverType("CEO")
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidApproverType)
}

func TestWorkflow_HappyPath(t *testing.T) {
	wf := leave.NewWorkflow(uuid.New())
	assert.Equal(t, leave.StagePendingRM, wf.CurrentStage)
	assert.Equal(t, leave.StatusPendingRM, wf.Status())
	assert.NoError(t, wf.Validate())

	assert.NoError(t, wf.Approve(leave.ApproverReportingManager))
	assert.Equal(t, leave.StagePendingHR, wf.CurrentStage)
	assert.True(t, wf.ManagerApproval)
	assert.False(t, wf.HRApproval)
	assert.Equal(t, leave.StatusPendingHR, wf.Status())
	assert.NoError(t, wf.Validate())

	assert.NoError(t, wf.Approve(leave.ApproverHRManager))
	assert.Equal(t, leave.StageCompleted, wf.CurrentStage)
	assert.True(t, wf.HRApproval)
	assert.Equal(t, leave.StatusApproved, wf.Status())
	assert.NoError(t, wf.Validate())
}

func TestWorkflow_StageMismatch(t *testing.T) {
	t.Run("hr before rm", func(t *testing.T) {
		wf := leave.NewWorkflow(uuid.New())

		err := wf.Approve(leave.ApproverHRManager)

		assert.ErrorIs(t, err, leaveerrors.ErrNotInStage("PENDING_HR"))
		assert.Equal(t, leave.StagePendingRM, wf.CurrentStage)
		assert.False(t, wf.HRApproval)
	})

	t.Run("rm twice", func(t *testing.T) {
		wf := leave.NewWorkflow(uuid.New())
		assert.NoError(t, wf.Approve(leave.ApproverReportingManager))

		err := wf.Approve(leave.ApproverReportingManager)

		assert.ErrorIs(t, err, leaveerrors.ErrNotInStage("PENDING_RM"))
		assert.Equal(t, leave.StagePendingHR, wf.CurrentStage)
	})

	t.Run("hr twice", func(t *testing.T) {
		wf := leave.NewWorkflow(uuid.New())
		assert.NoError(t, wf.Approve(leave.ApproverReportingManager))
		assert.NoError(t, wf.Approve(leave.ApproverHRManager))

		err := wf.Approve(leave.ApproverHRManager)

		assert.ErrorIs(t, err, leaveerrors.ErrNotInStage("PENDING_HR"))
		assert.Equal(t, leave.StatusApproved, wf.Status())
	})

	t.Run("unknown approver", func(t *testing.T) {
		wf := leave.NewWorkflow(uuid.New())

		assert.ErrorIs(t, wf.Approve(leave.ApproverType(99)), leaveerrors.ErrInvalidApproverType)
	})
}

func TestWorkflow_RejectAndCancel(t *testing.T) {
	t.Run("reject at rm stage", func(t *testing.T) {
		wf := leave.NewWorkflow(uuid.New())

		assert.NoError(t, wf.Reject(leave.ApproverReportingManager))
		assert.Equal(t, leave.StageCompleted, wf.CurrentStage)
		assert.Equal(t, leave.StatusRejected, wf.Status())
		assert.NoError(t, wf.Validate())
	})

	t.Run("reject at hr stage", func(t *testing.T) {
		wf := leave.NewWorkflow(uuid.New())
		assert.NoError(t, wf.Approve(leave.ApproverReportingManager))

		assert.NoError(t, wf.Reject(leave.ApproverHRManager))
		assert.Equal(t, leave.StatusRejected, wf.Status())
		assert.True(t, wf.ManagerApproval)
		assert.NoError(t, wf.Validate())
	})

	t.Run("reject requires the approver of the current stage", func(t *testing.T) {
		wf := leave.NewWorkflow(uuid.New())
		assert.ErrorIs(t, wf.Reject(leave.ApproverHRManager), leaveerrors.ErrNotInStage("PENDING_HR"))
		assert.Equal(t, leave.StagePendingRM, wf.CurrentStage)

		assert.NoError(t, wf.Approve(leave.ApproverReportingManager))
		assert.ErrorIs(t, wf.Reject(leave.ApproverReportingManager), leaveerrors.ErrNotInStage("PENDING_RM"))
		assert.ErrorIs(t, wf.Reject(leave.ApproverType(99)), leaveerrors.ErrInvalidApproverType)
		assert.Equal(t, leave.StatusPendingHR, wf.Status())
	})

	t.Run("cancel at hr stage", func(t *testing.T) {
		wf := leave.NewWorkflow(uuid.New())
		assert.NoError(t, wf.Approve(leave.ApproverReportingManager))

		assert.NoError(t, wf.Cancel())
		assert.Equal(t, leave.StatusCancelled, wf.Status())
	})

	t.Run("completed is terminal", func(t *testing.T) {
		wf := leave.NewWorkflow(uuid.New())
		assert.NoError(t, wf.Cancel())

		assert.ErrorIs(t, wf.Reject(leave.ApproverReportingManager), leaveerrors.ErrWorkflowCompleted)
		assert.ErrorIs(t, wf.Cancel(), leaveerrors.ErrWorkflowCompleted)
		assert.ErrorIs(t, wf.Approve(leave.ApproverReportingManager), leaveerrors.ErrNotInStage("PENDING_RM"))
		assert.Equal(t, leave.StatusCancelled, wf.Status())
	})
}

func TestWorkflow_Validate(t *testing.T) {
	cases := []struct {
		name string
		wf   leave.Workflow
		ok   bool
	}{
		{"pending hr without manager flag", leave.Workflow{CurrentStage: leave.StagePendingHR}, false},
		{"pending rm with manager flag", leave.Workflow{CurrentStage: leave.StagePendingRM, ManagerApproval: true}, false},
		{"completed without outcome", leave.Workflow{CurrentStage: leave.StageCompleted, ManagerApproval: true, HRApproval: true}, false},
		{"approved missing hr flag", leave.Workflow{CurrentStage: leave.StageCompleted, ManagerApproval: true, Outcome: leave.OutcomeApproved}, false},
		{"rejected with hr flag", leave.Workflow{CurrentStage: leave.StageCompleted, ManagerApproval: true, HRApproval: true, Outcome: leave.OutcomeRejected}, false},
		{"approved", leave.Workflow{CurrentStage: leave.StageCompleted, ManagerApproval: true, HRApproval: true, Outcome: leave.OutcomeApproved}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.wf.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, leaveerrors.ErrInconsistentWorkflow)
			}
		})
	}
}
