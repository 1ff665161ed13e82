package balance

import "github.com/shopspring/decimal"

type AllocateRequest struct {
	EmployeeID   string          `json:"employee_id" binding:"required,uuid"`
	LeaveType    string          `json:"leave_type" binding:"required"`
	Year         int             `json:"year" binding:"required,min=2000,max=2100"`
	Allocated    decimal.Decimal `json:"allocated"`
	CarryForward decimal.Decimal `json:"carry_forward"`
}

type BalanceResponse struct {
	EmployeeID   string          `json:"employee_id"`
	LeaveType    string          `json:"leave_type"`
	Year         int             `json:"year"`
	Allocated    decimal.Decimal `json:"allocated"`
	Used         decimal.Decimal `json:"used"`
	CarryForward decimal.Decimal `json:"carry_forward"`
	Remaining    decimal.Decimal `json:"remaining"`
}
