package approval

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=approval_repo.go -destination=mock/approval_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *LeaveApproval) error
	FindByLeaveRequest(ctx context.Context, leaveRequestID string) ([]LeaveApproval, error)
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

func (r *repository) Create(ctx context.Context, a *LeaveApproval) error {
	return r.conn(ctx).Create(a).Error
}

func (r *repository) FindByLeaveRequest(ctx context.Context, leaveRequestID string) ([]LeaveApproval, error) {
	var approvals []LeaveApproval
	err := r.conn(ctx).
		Where("leave_request_id = ?", leaveRequestID).
		Order("created_at ASC, id ASC").
		Find(&approvals).Error
	return approvals, err
}
