package leave

import (
	"errors"

	leaveerrors "go-leave/internal/leave/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// OverlapConstraint is the exclusion constraint backing the overlap rule.
const OverlapConstraint = "ex_leave_requests_no_overlap"

func mapRepositoryError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23P01" && pgErr.ConstraintName == OverlapConstraint {
		return leaveerrors.ErrLeaveOverlap
	}
	return err
}

// MapNotFound is shared with the approval engine.
func MapNotFound(err error) error {
	return mapRepositoryError(err, leaveerrors.ErrLeaveNotFound)
}

func MapWorkflowNotFound(err error) error {
	return mapRepositoryError(err, leaveerrors.ErrWorkflowNotFound)
}
