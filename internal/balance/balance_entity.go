package balance

import (
	"time"

	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaveBalance is the ledger row for one employee, leave type and year.
// Remaining is stored for querying but always derived from the other three.
type LeaveBalance struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey"`
	EmployeeID   uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balance_key,priority:1"`
	LeaveType    domain.LeaveType `gorm:"type:varchar(20);not null;uniqueIndex:uq_leave_balance_key,priority:2"`
	Year         int              `gorm:"not null;uniqueIndex:uq_leave_balance_key,priority:3"`
	Allocated    decimal.Decimal  `gorm:"type:numeric(6,1);not null;default:0"`
	Used         decimal.Decimal  `gorm:"type:numeric(6,1);not null;default:0"`
	CarryForward decimal.Decimal  `gorm:"type:numeric(6,1);not null;default:0"`
	Remaining    decimal.Decimal  `gorm:"type:numeric(6,1);not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

func (b *LeaveBalance) Recompute() {
	b.Remaining = b.Allocated.Add(b.CarryForward).Sub(b.Used)
}

// Debit moves days from remaining to used. The balance is left untouched on failure.
func (b *LeaveBalance) Debit(days int) error {
	d := decimal.NewFromInt(int64(days))
	b.Recompute()
	if days <= 0 || b.Remaining.LessThan(d) {
		return balanceerrors.ErrInsufficientBalance
	}
	b.Used = b.Used.Add(d)
	b.Recompute()
	return nil
}
