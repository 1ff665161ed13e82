package balance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/domain"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/dbtx"
	"go-leave/internal/shared/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	BalanceKeyPrefix = "leave:balances:"
	DefaultCacheTTL  = 10 * time.Minute
)

// BalanceCacheKey addresses one cached snapshot. Invalidate bumps the version, so a
// snapshot loaded before a debit and stored after it is never read again.
func BalanceCacheKey(employeeID string, year int, version int64) string {
	return fmt.Sprintf("%s%s:%d:v%d", BalanceKeyPrefix, employeeID, year, version)
}

func BalanceVersionKey(employeeID string, year int) string {
	return fmt.Sprintf("%sver:%s:%d", BalanceKeyPrefix, employeeID, year)
}

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	GetBalances(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error)
	Allocate(ctx context.Context, req AllocateRequest) (BalanceResponse, error)
	Invalidate(ctx context.Context, employeeID string, year int)
}

type service struct {
	tx       *dbtx.Runner
	repo     Repository
	rdb      *redis.Client
	sf       *singleflight.Group
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewService builds the ledger service. rdb may be nil, which disables caching.
func NewService(db *sql.DB, repo Repository, rdb *redis.Client, cacheTTL time.Duration, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &service{
		tx:       dbtx.NewRunner(db, l),
		repo:     repo,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		cacheTTL: cacheTTL,
		logger:   l,
	}
}

func (s *service) GetBalances(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, balanceerrors.ErrInvalidEmployeeID
	}
	if !validYear(year) {
		return nil, balanceerrors.ErrInvalidYear
	}

	cacheKey, cached := s.cacheKey(ctx, employeeID, year)
	if cached {
		if raw, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []BalanceResponse
			if err := json.Unmarshal([]byte(raw), &resp); err == nil {
				metrics.RecordCacheRequest(true)
				return resp, nil
			}
		}
	}
	metrics.RecordCacheRequest(false)

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		balances, err := s.repo.FindByEmployeeYear(ctx, employeeID, year)
		if err != nil {
			return nil, err
		}

		resp := mapToListResponse(balances)
		if cached {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, s.cacheTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("get balances failed",
			zap.String("employee_id", employeeID),
			zap.Int("year", year),
			zap.Error(err),
		)
		return nil, err
	}

	return v.([]BalanceResponse), nil
}

// Allocate creates or replaces the allocation for one (employee, type, year).
// Used days are preserved.
func (s *service) Allocate(ctx context.Context, req AllocateRequest) (BalanceResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return BalanceResponse{}, balanceerrors.ErrInvalidEmployeeID
	}
	leaveType := domain.LeaveType(req.LeaveType)
	if !leaveType.Valid() {
		return BalanceResponse{}, balanceerrors.ErrInvalidLeaveType
	}
	if !validYear(req.Year) {
		return BalanceResponse{}, balanceerrors.ErrInvalidYear
	}
	if req.Allocated.IsNegative() || req.CarryForward.IsNegative() {
		return BalanceResponse{}, balanceerrors.ErrNegativeAllocation
	}

	var saved LeaveBalance
	err = s.tx.RunSerializable(ctx, "balance.allocate", func(tx *sql.Tx) error {
		qtx := s.repo.WithTx(tx)

		current, err := qtx.FindForUpdate(ctx, req.EmployeeID, leaveType, req.Year)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if current == nil {
			b := &LeaveBalance{
				ID:           uuid.New(),
				EmployeeID:   employeeID,
				LeaveType:    leaveType,
				Year:         req.Year,
				Allocated:    req.Allocated,
				Used:         decimal.Zero,
				CarryForward: req.CarryForward,
			}
			b.Recompute()
			if err := qtx.Create(ctx, b); err != nil {
				return err
			}
			saved = *b
			return nil
		}

		current.Allocated = req.Allocated
		current.CarryForward = req.CarryForward
		current.Recompute()
		if current.Remaining.IsNegative() {
			return balanceerrors.ErrAllocationBelowUsed
		}
		if err := qtx.Update(ctx, current); err != nil {
			return err
		}
		saved = *current
		return nil
	})
	if err != nil {
		s.logger.Warn("allocate balance failed",
			zap.String("employee_id", req.EmployeeID),
			zap.String("leave_type", req.LeaveType),
			zap.Int("year", req.Year),
			zap.Error(err),
		)
		return BalanceResponse{}, err
	}

	s.Invalidate(ctx, req.EmployeeID, req.Year)
	s.logger.Info("allocate balance success",
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type", req.LeaveType),
		zap.Int("year", req.Year),
		zap.String("remaining", saved.Remaining.String()),
	)
	return mapToResponse(saved), nil
}

// cacheKey resolves the current snapshot key. ok is false when caching is off or the
// version cannot be read, in which case the caller goes to the database uncached.
func (s *service) cacheKey(ctx context.Context, employeeID string, year int) (string, bool) {
	key := fmt.Sprintf("%s%s:%d:nocache", BalanceKeyPrefix, employeeID, year)
	if s.rdb == nil {
		return key, false
	}
	version, err := s.rdb.Get(ctx, BalanceVersionKey(employeeID, year)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		s.logger.Warn("read balance cache version failed", zap.String("employee_id", employeeID), zap.Error(err))
		return key, false
	}
	return BalanceCacheKey(employeeID, year, version), true
}

func (s *service) Invalidate(ctx context.Context, employeeID string, year int) {
	if s.rdb == nil {
		return
	}
	versionKey := BalanceVersionKey(employeeID, year)
	if err := s.rdb.Incr(ctx, versionKey).Err(); err != nil {
		s.logger.Error("invalidate balance cache failed", zap.String("key", versionKey), zap.Error(err))
	}
}

func validYear(year int) bool {
	return year >= 2000 && year <= 2100
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		EmployeeID:   b.EmployeeID.String(),
		LeaveType:    string(b.LeaveType),
		Year:         b.Year,
		Allocated:    b.Allocated,
		Used:         b.Used,
		CarryForward: b.CarryForward,
		Remaining:    b.Remaining,
	}
}

func mapToListResponse(balances []LeaveBalance) []BalanceResponse {
	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapToResponse(b)
	}
	return resp
}
