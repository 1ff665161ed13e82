package employee

import (
	"errors"

	employeeerrors "go-leave/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Constraint names from migrations/00001_employees.sql.
var constraintErrors = map[string]error{
	"uq_employee_email":                   employeeerrors.ErrEmployeeAlreadyExists,
	"employees_reporting_manager_id_fkey": employeeerrors.ErrManagerNotFound,
	"ck_employees_not_own_manager":        employeeerrors.ErrManagerCycle,
	"ck_employees_role":                   employeeerrors.ErrInvalidRole,
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505", "23503", "23514":
		if mapped, ok := constraintErrors[pgErr.ConstraintName]; ok {
			return mapped
		}
	}
	return err
}
