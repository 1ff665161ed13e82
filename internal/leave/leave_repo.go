package leave

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	CreateWorkflow(ctx context.Context, w *Workflow) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error)
	FindWorkflow(ctx context.Context, leaveRequestID string) (*Workflow, error)
	FindWorkflowForUpdate(ctx context.Context, leaveRequestID string) (*Workflow, error)
	FindByEmployee(ctx context.Context, employeeID string, statuses []Status) ([]LeaveRequest, error)
	FindByStages(ctx context.Context, stages []Stage, employeeIDs []string) ([]LeaveRequest, error)
	HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error)
	Update(ctx context.Context, l *LeaveRequest) error
	UpdateWorkflow(ctx context.Context, w *Workflow) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) CreateWorkflow(ctx context.Context, w *Workflow) error {
	return r.conn(ctx).Create(w).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	if err := r.conn(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindWorkflow(ctx context.Context, leaveRequestID string) (*Workflow, error) {
	var w Workflow
	if err := r.conn(ctx).First(&w, "leave_request_id = ?", leaveRequestID).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *repository) FindWorkflowForUpdate(ctx context.Context, leaveRequestID string) (*Workflow, error) {
	var w Workflow
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&w, "leave_request_id = ?", leaveRequestID).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string, statuses []Status) ([]LeaveRequest, error) {
	db := r.conn(ctx).Where("employee_id = ?", employeeID)
	if len(statuses) > 0 {
		db = db.Where("status IN ?", statuses)
	}

	var leaves []LeaveRequest
	err := db.Order("start_date DESC").Find(&leaves).Error
	return leaves, err
}

// FindByStages selects on the workflow stage, not the mirrored request status.
// A nil employeeIDs means every employee.
func (r *repository) FindByStages(ctx context.Context, stages []Stage, employeeIDs []string) ([]LeaveRequest, error) {
	db := r.conn(ctx).
		Model(&LeaveRequest{}).
		Joins("JOIN leave_workflows w ON w.leave_request_id = leave_requests.id").
		Where("w.current_stage IN ?", stages)
	if employeeIDs != nil {
		db = db.Where("leave_requests.employee_id IN ?", employeeIDs)
	}

	var leaves []LeaveRequest
	err := db.Order("leave_requests.applied_at ASC").Find(&leaves).Error
	return leaves, err
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	db := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", ActiveStatuses).
		Where("start_date <= ? AND end_date >= ?", endDate, startDate)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Save(l).Error
}

func (r *repository) UpdateWorkflow(ctx context.Context, w *Workflow) error {
	return r.conn(ctx).Save(w).Error
}
