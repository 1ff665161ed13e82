package approval

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"strings"
	"time"

	approvalerrors "go-leave/internal/approval/errors"
	"go-leave/internal/balance"
	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/domain"
	"go-leave/internal/employee"
	"go-leave/internal/events"
	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/dbtx"
	"go-leave/internal/shared/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=approval_service.go -destination=mock/approval_service_mock.go -package=mock
type Service interface {
	Approve(ctx context.Context, actor domain.Actor, leaveID string, req DecisionRequest) (leave.LeaveResponse, error)
	Reject(ctx context.Context, actor domain.Actor, leaveID string, req DecisionRequest) (leave.LeaveResponse, error)
	History(ctx context.Context, actor domain.Actor, leaveID string) ([]HistoryEntry, error)
	Pending(ctx context.Context, actor domain.Actor) ([]leave.LeaveResponse, error)
}

type service struct {
	tx        *dbtx.Runner
	leaves    leave.Repository
	approvals Repository
	employees employee.Repository
	balances  balance.Repository
	ledger    balance.Service
	outbox    kafka.OutboxRepository
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	leaves leave.Repository,
	approvals Repository,
	employees employee.Repository,
	balances balance.Repository,
	ledger balance.Service,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("approval.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approval.service")
	}
	return &service{
		tx:        dbtx.NewRunner(db, l),
		leaves:    leaves,
		approvals: approvals,
		employees: employees,
		balances:  balances,
		ledger:    ledger,
		outbox:    outbox,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    l,
	}
}

type decision struct {
	request  *leave.LeaveRequest
	workflow *leave.Workflow
	approver leave.ApproverType
}

func (s *service) Approve(ctx context.Context, actor domain.Actor, leaveID string, req DecisionRequest) (leave.LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("approve leave requested",
		zap.String("leave_id", leaveID),
		zap.String("actor_id", actor.ID),
		zap.String("approver_type", req.ApproverType),
	)

	actorID, err := parseIDs(actor, leaveID)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	requested, err := requestedApproverType(req.ApproverType)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	var d decision
	err = s.tx.RunSerializable(ctx, "approval.approve", func(tx *sql.Tx) error {
		var err error
		d, err = s.load(ctx, tx, actor, leaveID, requested)
		if err != nil {
			return err
		}

		if err := d.workflow.Approve(d.approver); err != nil {
			return err
		}
		if d.approver.IsFinal() {
			if err := s.debit(ctx, tx, d.request); err != nil {
				return err
			}
		}

		eventType := events.LeaveStageAdvanced
		if d.approver.IsFinal() {
			eventType = events.LeaveApproved
		}
		return s.persist(ctx, tx, d, actorID, ActionApprove, req.Comment, eventType)
	})
	metrics.RecordDecision(d.approver.String(), string(ActionApprove), err)
	if err != nil {
		log.Warn("approve leave failed", zap.String("leave_id", leaveID), zap.String("actor_id", actor.ID), zap.Error(err))
		return leave.LeaveResponse{}, err
	}

	if d.approver.IsFinal() {
		metrics.RecordDebit(string(d.request.LeaveType), d.request.TotalDays)
		s.ledger.Invalidate(ctx, d.request.EmployeeID.String(), d.request.BalanceYear())
	}

	log.Info("approve leave success",
		zap.String("leave_id", leaveID),
		zap.String("approver_type", d.approver.String()),
		zap.String("status", string(d.workflow.Status())),
	)
	return leave.ToResponse(*d.request, d.workflow), nil
}

func (s *service) Reject(ctx context.Context, actor domain.Actor, leaveID string, req DecisionRequest) (leave.LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("reject leave requested", zap.String("leave_id", leaveID), zap.String("actor_id", actor.ID))

	actorID, err := parseIDs(actor, leaveID)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	requested, err := requestedApproverType(req.ApproverType)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	var d decision
	err = s.tx.RunSerializable(ctx, "approval.reject", func(tx *sql.Tx) error {
		var err error
		d, err = s.load(ctx, tx, actor, leaveID, requested)
		if err != nil {
			return err
		}
		if err := d.workflow.Reject(d.approver); err != nil {
			return err
		}
		return s.persist(ctx, tx, d, actorID, ActionReject, req.Comment, events.LeaveRejected)
	})
	metrics.RecordDecision(d.approver.String(), string(ActionReject), err)
	if err != nil {
		log.Warn("reject leave failed", zap.String("leave_id", leaveID), zap.String("actor_id", actor.ID), zap.Error(err))
		return leave.LeaveResponse{}, err
	}

	log.Info("reject leave success", zap.String("leave_id", leaveID), zap.String("approver_type", d.approver.String()))
	return leave.ToResponse(*d.request, d.workflow), nil
}

// load locks the request and workflow and resolves which approver the actor acts as.
func (s *service) load(ctx context.Context, tx *sql.Tx, actor domain.Actor, leaveID string, requested leave.ApproverType) (decision, error) {
	qtx := s.leaves.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, leaveID)
	if err != nil {
		return decision{}, leave.MapNotFound(err)
	}
	if l.OwnedBy(actor.ID) {
		return decision{}, approvalerrors.ErrSelfApproval
	}
	wf, err := qtx.FindWorkflowForUpdate(ctx, leaveID)
	if err != nil {
		return decision{}, leave.MapWorkflowNotFound(err)
	}

	t, err := resolveApproverType(actor.Role, requested, wf)
	if err != nil {
		return decision{}, err
	}
	if err := s.checkApprover(ctx, s.employees.WithTx(tx), actor, t, l); err != nil {
		return decision{}, err
	}
	return decision{request: l, workflow: wf, approver: t}, nil
}

// requestedApproverType parses the optional approver type of a decision; zero means infer.
func requestedApproverType(raw string) (leave.ApproverType, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	return leave.ParseApproverType(raw)
}

// resolveApproverType uses the requested type when given, otherwise the one implied by
// the actor's role. Admins default to whichever stage is pending.
func resolveApproverType(role domain.Role, requested leave.ApproverType, wf *leave.Workflow) (leave.ApproverType, error) {
	if requested != 0 {
		return requested, nil
	}
	switch role {
	case domain.RoleReportingManager:
		return leave.ApproverReportingManager, nil
	case domain.RoleHRManager:
		return leave.ApproverHRManager, nil
	case domain.RoleAdmin:
		t, ok := leave.ApproverForStage(wf.CurrentStage)
		if !ok {
			return 0, leaveerrors.ErrWorkflowCompleted
		}
		return t, nil
	}
	return 0, approvalerrors.ErrApproverRoleMismatch
}

func (s *service) checkApprover(ctx context.Context, employees employee.Repository, actor domain.Actor, t leave.ApproverType, l *leave.LeaveRequest) error {
	switch t {
	case leave.ApproverReportingManager:
		if actor.Role != domain.RoleReportingManager && actor.Role != domain.RoleAdmin {
			return approvalerrors.ErrApproverRoleMismatch
		}
	case leave.ApproverHRManager:
		if actor.Role != domain.RoleHRManager && actor.Role != domain.RoleAdmin {
			return approvalerrors.ErrApproverRoleMismatch
		}
	default:
		return leaveerrors.ErrInvalidApproverType
	}

	approver, err := employees.FindByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return approvalerrors.ErrApproverInactive
		}
		return err
	}
	if !approver.Active {
		return approvalerrors.ErrApproverInactive
	}

	if t != leave.ApproverReportingManager || actor.Role == domain.RoleAdmin {
		return nil
	}
	requester, err := employees.FindByID(ctx, l.EmployeeID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrApplicantNotFound
		}
		return err
	}
	if !requester.ReportsTo(approver.ID) {
		return approvalerrors.ErrNotDirectManager
	}
	return nil
}

// debit takes the request's days from the locked balance row of its start year.
func (s *service) debit(ctx context.Context, tx *sql.Tx, l *leave.LeaveRequest) error {
	qtx := s.balances.WithTx(tx)

	b, err := qtx.FindForUpdate(ctx, l.EmployeeID.String(), l.LeaveType, l.BalanceYear())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return balanceerrors.ErrBalanceNotAllocated
		}
		return err
	}
	if err := b.Debit(l.TotalDays); err != nil {
		return err
	}
	return qtx.Update(ctx, b)
}

func (s *service) persist(
	ctx context.Context,
	tx *sql.Tx,
	d decision,
	actorID uuid.UUID,
	action Action,
	comment *string,
	eventType string,
) error {
	if err := d.workflow.Validate(); err != nil {
		return err
	}

	qtx := s.leaves.WithTx(tx)
	if err := qtx.UpdateWorkflow(ctx, d.workflow); err != nil {
		return err
	}
	d.request.Status = d.workflow.Status()
	if err := qtx.Update(ctx, d.request); err != nil {
		return err
	}

	now := s.now()
	record := &LeaveApproval{
		ID:             uuid.New(),
		LeaveRequestID: d.request.ID,
		ApproverID:     actorID,
		ApproverType:   d.approver.String(),
		Action:         action,
		Comment:        trimComment(comment),
		CreatedAt:      now,
	}
	if err := s.approvals.WithTx(tx).Create(ctx, record); err != nil {
		return err
	}

	event, err := leave.NewLifecycleOutboxEvent(ctx, eventType, d.request, actorID.String(), now)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, event)
}

func (s *service) History(ctx context.Context, actor domain.Actor, leaveID string) ([]HistoryEntry, error) {
	if _, err := uuid.Parse(leaveID); err != nil {
		return nil, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.leaves.FindByID(ctx, leaveID)
	if err != nil {
		return nil, leave.MapNotFound(err)
	}
	if err := leave.CheckVisible(ctx, s.employees, actor, l); err != nil {
		return nil, err
	}

	records, err := s.approvals.FindByLeaveRequest(ctx, leaveID)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("load approval history failed", zap.String("leave_id", leaveID), zap.Error(err))
		return nil, err
	}
	slices.SortStableFunc(records, func(a, b LeaveApproval) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	history := make([]HistoryEntry, 0, len(records)+1)
	history = append(history, HistoryEntry{
		Action:  string(ActionApplied),
		ActorID: l.EmployeeID.String(),
		At:      l.AppliedAt.UTC().Format(time.RFC3339),
	})
	for _, r := range records {
		history = append(history, HistoryEntry{
			Action:       string(r.Action),
			ActorID:      r.ApproverID.String(),
			ApproverType: r.ApproverType,
			Comment:      r.Comment,
			At:           r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return history, nil
}

func (s *service) Pending(ctx context.Context, actor domain.Actor) ([]leave.LeaveResponse, error) {
	var (
		stages      []leave.Stage
		employeeIDs []string
	)
	switch actor.Role {
	case domain.RoleReportingManager:
		ids, err := s.employees.FindDirectReportIDs(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []leave.LeaveResponse{}, nil
		}
		stages, employeeIDs = []leave.Stage{leave.StagePendingRM}, ids
	case domain.RoleHRManager:
		stages = []leave.Stage{leave.StagePendingHR}
	case domain.RoleAdmin:
		stages = []leave.Stage{leave.StagePendingRM, leave.StagePendingHR}
	default:
		return nil, approvalerrors.ErrPendingForbidden
	}

	leaves, err := s.leaves.FindByStages(ctx, stages, employeeIDs)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list pending approvals failed", zap.String("actor_id", actor.ID), zap.Error(err))
		return nil, err
	}
	return leave.ToListResponse(leaves), nil
}

func parseIDs(actor domain.Actor, leaveID string) (uuid.UUID, error) {
	if _, err := uuid.Parse(leaveID); err != nil {
		return uuid.Nil, leaveerrors.ErrInvalidLeaveID
	}
	actorID, err := uuid.Parse(actor.ID)
	if err != nil {
		return uuid.Nil, approvalerrors.ErrApproverInactive
	}
	return actorID, nil
}

func trimComment(c *string) *string {
	if c == nil {
		return nil
	}
	v := strings.TrimSpace(*c)
	if v == "" {
		return nil
	}
	return &v
}
