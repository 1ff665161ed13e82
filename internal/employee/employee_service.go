package employee

import (
	"context"
	"database/sql"
	"errors"

	"go-leave/internal/domain"
	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/dbtx"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// deep enough for any real org chart; hitting it means the stored hierarchy is already cyclic
const maxHierarchyDepth = 64

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	AssignManager(ctx context.Context, id string, req AssignManagerRequest) (EmployeeResponse, error)
	ChangeRole(ctx context.Context, id string, req ChangeRoleRequest) (EmployeeResponse, error)
	Deactivate(ctx context.Context, id string) error
}

type service struct {
	tx     *dbtx.Runner
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{tx: dbtx.NewRunner(db, l), repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
		zap.String("role", req.Role),
	)

	role := domain.Role(req.Role)
	if !role.Valid() {
		return EmployeeResponse{}, employeeerrors.ErrInvalidRole
	}

	empl := &Employee{
		ID:         uuid.New(),
		FullName:   req.FullName,
		Email:      req.Email,
		Role:       role,
		Department: req.Department,
		Active:     true,
	}

	err := s.tx.RunSerializable(ctx, "employee.create", func(tx *sql.Tx) error {
		qtx := s.repo.WithTx(tx)
		if req.ReportingManagerID != nil && *req.ReportingManagerID != "" {
			managerID, err := s.resolveManager(ctx, qtx, *req.ReportingManagerID)
			if err != nil {
				return err
			}
			empl.ReportingManagerID = &managerID
		}
		if err := qtx.Create(ctx, empl); err != nil {
			s.logger.Error("create employee persist failed", zap.String("request_id", rid), zap.Error(err))
			return mapRepositoryError(err)
		}
		return nil
	})
	if err != nil {
		return EmployeeResponse{}, err
	}

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
	)
	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	employees, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(employees), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*e), nil
}

func (s *service) AssignManager(ctx context.Context, id string, req AssignManagerRequest) (EmployeeResponse, error) {
	s.logger.Debug("assign manager requested", zap.String("employee_id", id))

	employeeID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	var updated Employee
	err = s.tx.RunSerializable(ctx, "employee.assign_manager", func(tx *sql.Tx) error {
		qtx := s.repo.WithTx(tx)
		e, err := qtx.FindByID(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}

		if req.ManagerID == nil || *req.ManagerID == "" {
			e.ReportingManagerID = nil
		} else {
			managerID, err := s.resolveManager(ctx, qtx, *req.ManagerID)
			if err != nil {
				return err
			}
			if err := ensureNoCycle(ctx, qtx, employeeID, managerID); err != nil {
				s.logger.Warn("assign manager rejected",
					zap.String("employee_id", id),
					zap.String("manager_id", managerID.String()),
					zap.Error(err),
				)
				return err
			}
			e.ReportingManagerID = &managerID
		}

		if err := qtx.Update(ctx, e); err != nil {
			s.logger.Error("assign manager persist failed", zap.String("employee_id", id), zap.Error(err))
			return err
		}
		updated = *e
		return nil
	})
	if err != nil {
		return EmployeeResponse{}, err
	}

	s.logger.Info("assign manager success", zap.String("employee_id", id))
	return mapToResponse(updated), nil
}

func (s *service) ChangeRole(ctx context.Context, id string, req ChangeRoleRequest) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	role := domain.Role(req.Role)
	if !role.Valid() {
		return EmployeeResponse{}, employeeerrors.ErrInvalidRole
	}

	var updated Employee
	err := s.tx.RunSerializable(ctx, "employee.change_role", func(tx *sql.Tx) error {
		qtx := s.repo.WithTx(tx)
		e, err := qtx.FindByID(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		e.Role = role
		if err := qtx.Update(ctx, e); err != nil {
			return err
		}
		updated = *e
		return nil
	})
	if err != nil {
		return EmployeeResponse{}, err
	}

	s.logger.Info("change role success", zap.String("employee_id", id), zap.String("role", req.Role))
	return mapToResponse(updated), nil
}

// Deactivate soft-deletes the employee. Rows are never removed so history stays resolvable.
func (s *service) Deactivate(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	err := s.tx.RunSerializable(ctx, "employee.deactivate", func(tx *sql.Tx) error {
		qtx := s.repo.WithTx(tx)
		e, err := qtx.FindByID(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if !e.Active {
			return nil
		}
		e.Active = false
		return qtx.Update(ctx, e)
	})
	if err != nil {
		return err
	}

	s.logger.Info("deactivate employee success", zap.String("employee_id", id))
	return nil
}

func (s *service) resolveManager(ctx context.Context, repo Repository, rawID string) (uuid.UUID, error) {
	managerID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, employeeerrors.ErrInvalidManagerID
	}
	manager, err := repo.FindByID(ctx, rawID)
	if err != nil {
		if errors.Is(mapRepositoryError(err), employeeerrors.ErrEmployeeNotFound) {
			return uuid.Nil, employeeerrors.ErrManagerNotFound
		}
		return uuid.Nil, err
	}
	if !manager.Active {
		return uuid.Nil, employeeerrors.ErrManagerInactive
	}
	return managerID, nil
}

// ensureNoCycle walks up from managerID and fails if employeeID is found among its ancestors.
func ensureNoCycle(ctx context.Context, repo Repository, employeeID, managerID uuid.UUID) error {
	if employeeID == managerID {
		return employeeerrors.ErrManagerCycle
	}

	current := managerID
	for depth := 0; depth < maxHierarchyDepth; depth++ {
		parent, err := repo.FindManagerID(ctx, current.String())
		if err != nil {
			return mapRepositoryError(err)
		}
		if parent == nil {
			return nil
		}
		if *parent == employeeID {
			return employeeerrors.ErrManagerCycle
		}
		current = *parent
	}
	return employeeerrors.ErrHierarchyTooDeep
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:         e.ID.String(),
		FullName:   e.FullName,
		Email:      e.Email,
		Role:       string(e.Role),
		Department: e.Department,
		Active:     e.Active,
	}
	if e.ReportingManagerID != nil {
		v := e.ReportingManagerID.String()
		resp.ReportingManagerID = &v
	}
	return resp
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp
}
