package employee

import (
	"errors"
	"fmt"
	"testing"

	employeeerrors "go-leave/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapRepositoryError(t *testing.T) {
	plain := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"not found", fmt.Errorf("find: %w", gorm.ErrRecordNotFound), employeeerrors.ErrEmployeeNotFound},
		{"duplicate email", &pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_email"}, employeeerrors.ErrEmployeeAlreadyExists},
		{"unknown manager", &pgconn.PgError{Code: "23503", ConstraintName: "employees_reporting_manager_id_fkey"}, employeeerrors.ErrManagerNotFound},
		{"own manager", &pgconn.PgError{Code: "23514", ConstraintName: "ck_employees_not_own_manager"}, employeeerrors.ErrManagerCycle},
		{"unmapped constraint", &pgconn.PgError{Code: "23505", ConstraintName: "employees_pkey"}, nil},
		{"plain", plain, plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapRepositoryError(tt.err)
			switch {
			case tt.err == nil:
				assert.NoError(t, got)
			case tt.want == nil:
				assert.Equal(t, tt.err, got)
			default:
				assert.ErrorIs(t, got, tt.want)
			}
		})
	}
}
