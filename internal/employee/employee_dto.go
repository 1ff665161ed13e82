package employee

type CreateEmployeeRequest struct {
	FullName           string  `json:"full_name" binding:"required,max=150"`
	Email              string  `json:"email" binding:"required,email"`
	Role               string  `json:"role" binding:"required,oneof=EMPLOYEE REPORTING_MANAGER HR_MANAGER ADMIN"`
	Department         string  `json:"department" binding:"max=100"`
	ReportingManagerID *string `json:"reporting_manager_id" binding:"omitempty,uuid"`
}

type AssignManagerRequest struct {
	// nil clears the reporting manager
	ManagerID *string `json:"manager_id" binding:"omitempty,uuid"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=EMPLOYEE REPORTING_MANAGER HR_MANAGER ADMIN"`
}

type EmployeeResponse struct {
	ID                 string  `json:"id"`
	FullName           string  `json:"full_name"`
	Email              string  `json:"email"`
	Role               string  `json:"role"`
	Department         string  `json:"department"`
	ReportingManagerID *string `json:"reporting_manager_id,omitempty"`
	Active             bool    `json:"active"`
}
