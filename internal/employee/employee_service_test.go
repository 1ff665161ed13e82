package employee_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-leave/internal/domain"
	"go-leave/internal/employee"
	employeeerrors "go-leave/internal/employee/errors"
	employeeMock "go-leave/internal/employee/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service employee.Service
	repo    *employeeMock.MockRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := employeeMock.NewMockRepository(ctrl)
	repo.EXPECT().WithTx(gomock.Any()).Return(repo).AnyTimes()

	return &serviceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: employee.NewService(db, repo),
		repo:    repo,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func activeEmployee(id uuid.UUID, role domain.Role, manager *uuid.UUID) *employee.Employee {
	return &employee.Employee{
		ID:                 id,
		FullName:           "Employee " + id.String()[:4],
		Email:              id.String()[:8] + "@example.com",
		Role:               role,
		ReportingManagerID: manager,
		Active:             true,
	}
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success with manager", func(t *testing.T) {
		deps := setupServiceTest(t)
		managerID := uuid.New()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().FindByID(ctx, managerID.String()).
			Return(activeEmployee(managerID, domain.RoleReportingManager, nil), nil)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, e *employee.Employee) error {
				assert.Equal(t, "Jane Doe", e.FullName)
				assert.True(t, e.Active)
				assert.True(t, e.ReportsTo(managerID))
				return nil
			})

		mgr := managerID.String()
		resp, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			FullName:           "Jane Doe",
			Email:              "jane@example.com",
			Role:               "EMPLOYEE",
			ReportingManagerID: &mgr,
		})

		assert.NoError(t, err)
		assert.Equal(t, "Jane Doe", resp.FullName)
		assert.Equal(t, &mgr, resp.ReportingManagerID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid role", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			FullName: "Jane Doe",
			Email:    "jane@example.com",
			Role:     "INTERN",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidRole)
	})

	t.Run("inactive manager", func(t *testing.T) {
		deps := setupServiceTest(t)
		managerID := uuid.New()
		manager := activeEmployee(managerID, domain.RoleReportingManager, nil)
		manager.Active = false

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().FindByID(ctx, managerID.String()).Return(manager, nil)

		mgr := managerID.String()
		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			FullName:           "Jane Doe",
			Email:              "jane@example.com",
			Role:               "EMPLOYEE",
			ReportingManagerID: &mgr,
		})

		assert.ErrorIs(t, err, employeeerrors.ErrManagerInactive)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown manager", func(t *testing.T) {
		deps := setupServiceTest(t)
		managerID := uuid.New()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().FindByID(ctx, managerID.String()).Return(nil, gorm.ErrRecordNotFound)

		mgr := managerID.String()
		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			FullName:           "Jane Doe",
			Email:              "jane@example.com",
			Role:               "EMPLOYEE",
			ReportingManagerID: &mgr,
		})

		assert.ErrorIs(t, err, employeeerrors.ErrManagerNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_email"})

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			FullName: "Jane Doe",
			Email:    "jane@example.com",
			Role:     "EMPLOYEE",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeAlreadyExists)
	})
}

func TestEmployeeService_AssignManager(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		empID, managerID, directorID := uuid.New(), uuid.New(), uuid.New()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().FindByID(ctx, empID.String()).Return(activeEmployee(empID, domain.RoleEmployee, nil), nil)
		deps.repo.EXPECT().FindByID(ctx, managerID.String()).Return(activeEmployee(managerID, domain.RoleReportingManager, &directorID), nil)
		deps.repo.EXPECT().FindManagerID(ctx, managerID.String()).Return(&directorID, nil)
		deps.repo.EXPECT().FindManagerID(ctx, directorID.String()).Return(nil, nil)
		deps.repo.EXPECT().Update(ctx, gomock.Any()).Return(nil)

		mgr := managerID.String()
		resp, err := deps.service.AssignManager(ctx, empID.String(), employee.AssignManagerRequest{ManagerID: &mgr})

		assert.NoError(t, err)
		assert.Equal(t, &mgr, resp.ReportingManagerID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("self as manager", func(t *testing.T) {
		deps := setupServiceTest(t)
		empID := uuid.New()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().FindByID(ctx, empID.String()).Return(activeEmployee(empID, domain.RoleEmployee, nil), nil).Times(2)

		id := empID.String()
		_, err := deps.service.AssignManager(ctx, id, employee.AssignManagerRequest{ManagerID: &id})

		assert.ErrorIs(t, err, employeeerrors.ErrManagerCycle)
	})

	t.Run("indirect cycle", func(t *testing.T) {
		deps := setupServiceTest(t)
		// B reports to A; assigning B as A's manager must fail.
		aID, bID := uuid.New(), uuid.New()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().FindByID(ctx, aID.String()).Return(activeEmployee(aID, domain.RoleReportingManager, nil), nil)
		deps.repo.EXPECT().FindByID(ctx, bID.String()).Return(activeEmployee(bID, domain.RoleEmployee, &aID), nil)
		deps.repo.EXPECT().FindManagerID(ctx, bID.String()).Return(&aID, nil)

		b := bID.String()
		_, err := deps.service.AssignManager(ctx, aID.String(), employee.AssignManagerRequest{ManagerID: &b})

		assert.ErrorIs(t, err, employeeerrors.ErrManagerCycle)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("clear manager", func(t *testing.T) {
		deps := setupServiceTest(t)
		empID, managerID := uuid.New(), uuid.New()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().FindByID(ctx, empID.String()).Return(activeEmployee(empID, domain.RoleEmployee, &managerID), nil)
		deps.repo.EXPECT().Update(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, e *employee.Employee) error {
				assert.Nil(t, e.ReportingManagerID)
				return nil
			})

		resp, err := deps.service.AssignManager(ctx, empID.String(), employee.AssignManagerRequest{})

		assert.NoError(t, err)
		assert.Nil(t, resp.ReportingManagerID)
	})

	t.Run("invalid employee id", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.AssignManager(ctx, "not-a-uuid", employee.AssignManagerRequest{})

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})
}

func TestEmployeeService_ChangeRole(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)
	empID := uuid.New()

	expectTx(t, deps.sqlMock, true)
	deps.repo.EXPECT().FindByID(ctx, empID.String()).Return(activeEmployee(empID, domain.RoleEmployee, nil), nil)
	deps.repo.EXPECT().Update(ctx, gomock.Any()).Return(nil)

	resp, err := deps.service.ChangeRole(ctx, empID.String(), employee.ChangeRoleRequest{Role: "HR_MANAGER"})

	assert.NoError(t, err)
	assert.Equal(t, "HR_MANAGER", resp.Role)
}

func TestEmployeeService_Deactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		empID := uuid.New()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().FindByID(ctx, empID.String()).Return(activeEmployee(empID, domain.RoleEmployee, nil), nil)
		deps.repo.EXPECT().Update(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, e *employee.Employee) error {
				assert.False(t, e.Active)
				return nil
			})

		assert.NoError(t, deps.service.Deactivate(ctx, empID.String()))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		empID := uuid.New()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().FindByID(ctx, empID.String()).Return(nil, gorm.ErrRecordNotFound)

		err := deps.service.Deactivate(ctx, empID.String())

		assert.True(t, errors.Is(err, employeeerrors.ErrEmployeeNotFound))
	})
}
