package leave

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-leave/internal/domain"
	"go-leave/internal/employee"
	"go-leave/internal/events"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/dbtx"
	"go-leave/internal/shared/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Apply(ctx context.Context, actor domain.Actor, req ApplyLeaveRequest) (LeaveResponse, error)
	Update(ctx context.Context, actor domain.Actor, id string, req UpdateLeaveRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error)
	GetByID(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error)
	ListMine(ctx context.Context, actor domain.Actor, status string) ([]LeaveResponse, error)
}

type service struct {
	tx        *dbtx.Runner
	repo      Repository
	employees employee.Repository
	outbox    kafka.OutboxRepository
	validator *Validator
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	outbox kafka.OutboxRepository,
	validator *Validator,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	if validator == nil {
		validator = NewValidator(nil)
	}
	return &service{
		tx:        dbtx.NewRunner(db, l),
		repo:      repo,
		employees: employees,
		outbox:    outbox,
		validator: validator,
		logger:    l,
	}
}

func (s *service) Apply(ctx context.Context, actor domain.Actor, req ApplyLeaveRequest) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("apply leave requested",
		zap.String("employee_id", actor.ID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	employeeID, err := uuid.Parse(actor.ID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrApplicantNotFound
	}

	start, end, totalDays, err := s.validate(req.LeaveType, req.StartDate, req.EndDate, req.Reason, req.DocumentRef)
	if err != nil {
		metrics.RecordApplication(req.LeaveType, err)
		log.Warn("apply leave validation failed", zap.String("employee_id", actor.ID), zap.Error(err))
		return LeaveResponse{}, err
	}

	now := s.validator.Now().UTC()
	l := &LeaveRequest{
		ID:          uuid.New(),
		EmployeeID:  employeeID,
		LeaveType:   domain.LeaveType(req.LeaveType),
		StartDate:   start,
		EndDate:     end,
		TotalDays:   totalDays,
		Reason:      strings.TrimSpace(req.Reason),
		DocumentRef: normalizeDocumentRef(req.DocumentRef),
		AppliedAt:   now,
	}

	var wf *Workflow
	err = s.tx.RunSerializable(ctx, "leave.apply", func(tx *sql.Tx) error {
		if err := ensureActiveApplicant(ctx, s.employees.WithTx(tx), actor.ID); err != nil {
			return err
		}

		qtx := s.repo.WithTx(tx)
		overlap, err := qtx.HasOverlappingPeriod(ctx, actor.ID, start, end, nil)
		if err != nil {
			return err
		}
		if overlap {
			return leaveerrors.ErrLeaveOverlap
		}

		wf = NewWorkflow(l.ID)
		l.Status = wf.Status()
		if err := qtx.Create(ctx, l); err != nil {
			return MapNotFound(err)
		}
		if err := qtx.CreateWorkflow(ctx, wf); err != nil {
			return err
		}

		event, err := NewLifecycleOutboxEvent(ctx, events.LeaveApplied, l, actor.ID, now)
		if err != nil {
			return err
		}
		return s.outbox.WithTx(tx).Create(ctx, event)
	})
	metrics.RecordApplication(req.LeaveType, err)
	if err != nil {
		log.Warn("apply leave failed", zap.String("employee_id", actor.ID), zap.Error(err))
		return LeaveResponse{}, err
	}

	log.Info("apply leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", actor.ID),
		zap.Int("total_days", totalDays),
	)
	return ToResponse(*l, wf), nil
}

func (s *service) Update(ctx context.Context, actor domain.Actor, id string, req UpdateLeaveRequest) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("update leave requested", zap.String("leave_id", id), zap.String("actor_id", actor.ID))

	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	start, end, totalDays, err := s.validate(req.LeaveType, req.StartDate, req.EndDate, req.Reason, req.DocumentRef)
	if err != nil {
		log.Warn("update leave validation failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	var (
		l  *LeaveRequest
		wf *Workflow
	)
	err = s.tx.RunSerializable(ctx, "leave.update", func(tx *sql.Tx) error {
		qtx := s.repo.WithTx(tx)

		var err error
		l, err = qtx.FindByIDForUpdate(ctx, id)
		if err != nil {
			return MapNotFound(err)
		}
		if !l.OwnedBy(actor.ID) {
			return leaveerrors.ErrNotOwner
		}
		wf, err = qtx.FindWorkflowForUpdate(ctx, id)
		if err != nil {
			return MapWorkflowNotFound(err)
		}
		if wf.CurrentStage != StagePendingRM {
			return leaveerrors.ErrNotEditable
		}
		if err := ensureActiveApplicant(ctx, s.employees.WithTx(tx), actor.ID); err != nil {
			return err
		}

		overlap, err := qtx.HasOverlappingPeriod(ctx, actor.ID, start, end, &id)
		if err != nil {
			return err
		}
		if overlap {
			return leaveerrors.ErrLeaveOverlap
		}

		l.LeaveType = domain.LeaveType(req.LeaveType)
		l.StartDate = start
		l.EndDate = end
		l.TotalDays = totalDays
		l.Reason = strings.TrimSpace(req.Reason)
		l.DocumentRef = normalizeDocumentRef(req.DocumentRef)
		l.Status = wf.Status()
		if err := qtx.Update(ctx, l); err != nil {
			return MapNotFound(err)
		}

		event, err := NewLifecycleOutboxEvent(ctx, events.LeaveUpdated, l, actor.ID, s.validator.Now())
		if err != nil {
			return err
		}
		return s.outbox.WithTx(tx).Create(ctx, event)
	})
	if err != nil {
		log.Warn("update leave failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	log.Info("update leave success", zap.String("leave_id", id))
	return ToResponse(*l, wf), nil
}

// Cancel is allowed to the owner from either pending stage.
func (s *service) Cancel(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("cancel leave requested", zap.String("leave_id", id), zap.String("actor_id", actor.ID))

	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	var (
		l  *LeaveRequest
		wf *Workflow
	)
	err := s.tx.RunSerializable(ctx, "leave.cancel", func(tx *sql.Tx) error {
		qtx := s.repo.WithTx(tx)

		var err error
		l, err = qtx.FindByIDForUpdate(ctx, id)
		if err != nil {
			return MapNotFound(err)
		}
		if !l.OwnedBy(actor.ID) {
			return leaveerrors.ErrNotOwner
		}
		wf, err = qtx.FindWorkflowForUpdate(ctx, id)
		if err != nil {
			return MapWorkflowNotFound(err)
		}

		if err := wf.Cancel(); err != nil {
			return err
		}
		if err := wf.Validate(); err != nil {
			return err
		}
		if err := qtx.UpdateWorkflow(ctx, wf); err != nil {
			return err
		}
		l.Status = wf.Status()
		if err := qtx.Update(ctx, l); err != nil {
			return err
		}

		event, err := NewLifecycleOutboxEvent(ctx, events.LeaveCancelled, l, actor.ID, s.validator.Now())
		if err != nil {
			return err
		}
		return s.outbox.WithTx(tx).Create(ctx, event)
	})
	if err != nil {
		log.Warn("cancel leave failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	log.Info("cancel leave success", zap.String("leave_id", id))
	return ToResponse(*l, wf), nil
}

func (s *service) GetByID(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, MapNotFound(err)
	}
	if err := CheckVisible(ctx, s.employees, actor, l); err != nil {
		return LeaveResponse{}, err
	}
	wf, err := s.repo.FindWorkflow(ctx, id)
	if err != nil {
		return LeaveResponse{}, MapWorkflowNotFound(err)
	}
	return ToResponse(*l, wf), nil
}

func (s *service) ListMine(ctx context.Context, actor domain.Actor, status string) ([]LeaveResponse, error) {
	var statuses []Status
	if status != "" {
		st, ok := ParseStatus(strings.ToUpper(status))
		if !ok {
			return nil, leaveerrors.ErrInvalidStatusFilter
		}
		statuses = []Status{st}
	}

	leaves, err := s.repo.FindByEmployee(ctx, actor.ID, statuses)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list my leaves failed", zap.String("employee_id", actor.ID), zap.Error(err))
		return nil, err
	}
	return ToListResponse(leaves), nil
}

func (s *service) validate(leaveType, startRaw, endRaw, reason string, documentRef *string) (time.Time, time.Time, int, error) {
	start, err := ParseDate(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, 0, err
	}
	end, err := ParseDate(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, 0, err
	}

	totalDays, err := s.validator.Validate(ValidateInput{
		LeaveType:   domain.LeaveType(leaveType),
		StartDate:   start,
		EndDate:     end,
		Reason:      reason,
		HasDocument: normalizeDocumentRef(documentRef) != nil,
	})
	if err != nil {
		return time.Time{}, time.Time{}, 0, err
	}
	return start, end, totalDays, nil
}

func ensureActiveApplicant(ctx context.Context, employees employee.Repository, employeeID string) error {
	e, err := employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrApplicantNotFound
		}
		return err
	}
	if !e.Active {
		return leaveerrors.ErrApplicantInactive
	}
	return nil
}

// CheckVisible allows the owner, HR, admins and the owner's direct reporting manager.
func CheckVisible(ctx context.Context, employees employee.Repository, actor domain.Actor, l *LeaveRequest) error {
	if l.OwnedBy(actor.ID) {
		return nil
	}

	switch actor.Role {
	case domain.RoleHRManager, domain.RoleAdmin:
		return nil
	case domain.RoleReportingManager:
		actorID, err := uuid.Parse(actor.ID)
		if err != nil {
			return leaveerrors.ErrViewForbidden
		}
		requester, err := employees.FindByID(ctx, l.EmployeeID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaveerrors.ErrViewForbidden
			}
			return err
		}
		if requester.ReportsTo(actorID) {
			return nil
		}
	}
	return leaveerrors.ErrViewForbidden
}

func normalizeDocumentRef(ref *string) *string {
	if ref == nil {
		return nil
	}
	v := strings.TrimSpace(*ref)
	if v == "" {
		return nil
	}
	return &v
}

// ToResponse maps a request and, when known, its workflow.
func ToResponse(l LeaveRequest, wf *Workflow) LeaveResponse {
	resp := LeaveResponse{
		ID:          l.ID.String(),
		EmployeeID:  l.EmployeeID.String(),
		LeaveType:   string(l.LeaveType),
		StartDate:   l.StartDate.Format(DateLayout),
		EndDate:     l.EndDate.Format(DateLayout),
		TotalDays:   l.TotalDays,
		Reason:      l.Reason,
		DocumentRef: l.DocumentRef,
		Status:      string(l.Status),
		AppliedAt:   l.AppliedAt.UTC().Format(time.RFC3339),
	}
	if wf != nil {
		resp.Status = string(wf.Status())
		resp.Stage = string(wf.CurrentStage)
		mgr, hr := wf.ManagerApproval, wf.HRApproval
		resp.ManagerApproval = &mgr
		resp.HRApproval = &hr
	}
	return resp
}

func ToListResponse(leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = ToResponse(l, nil)
	}
	return resp
}
