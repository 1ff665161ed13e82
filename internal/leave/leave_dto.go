package leave

type ApplyLeaveRequest struct {
	LeaveType   string  `json:"leave_type" binding:"required,oneof=ANNUAL SICK PERSONAL MATERNITY PATERNITY"`
	StartDate   string  `json:"start_date" binding:"required,isodate"`
	EndDate     string  `json:"end_date" binding:"required,isodate"`
	Reason      string  `json:"reason" binding:"required,max=1000"`
	DocumentRef *string `json:"document_ref" binding:"omitempty,max=255"`
}

// UpdateLeaveRequest replaces every editable field of a PENDING_RM request.
type UpdateLeaveRequest struct {
	LeaveType   string  `json:"leave_type" binding:"required,oneof=ANNUAL SICK PERSONAL MATERNITY PATERNITY"`
	StartDate   string  `json:"start_date" binding:"required,isodate"`
	EndDate     string  `json:"end_date" binding:"required,isodate"`
	Reason      string  `json:"reason" binding:"required,max=1000"`
	DocumentRef *string `json:"document_ref" binding:"omitempty,max=255"`
}

type LeaveResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	LeaveType       string  `json:"leave_type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	TotalDays       int     `json:"total_days"`
	Reason          string  `json:"reason"`
	DocumentRef     *string `json:"document_ref,omitempty"`
	Status          string  `json:"status"`
	Stage           string  `json:"stage,omitempty"`
	ManagerApproval *bool   `json:"manager_approval,omitempty"`
	HRApproval      *bool   `json:"hr_approval,omitempty"`
	AppliedAt       string  `json:"applied_at"`
}
