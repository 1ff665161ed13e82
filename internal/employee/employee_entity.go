package employee

import (
	"time"

	"go-leave/internal/domain"

	"github.com/google/uuid"
)

type Employee struct {
	ID                 uuid.UUID   `gorm:"type:uuid;primaryKey"`
	FullName           string      `gorm:"type:varchar(150);not null"`
	Email              string      `gorm:"type:varchar(150);not null;uniqueIndex:uq_employee_email"`
	Role               domain.Role `gorm:"type:varchar(30);not null;default:'EMPLOYEE'"`
	Department         string      `gorm:"type:varchar(100)"`
	ReportingManagerID *uuid.UUID  `gorm:"type:uuid;index:idx_employees_manager"`
	Active             bool        `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ReportsTo reports whether managerID is this employee's direct reporting manager.
func (e Employee) ReportsTo(managerID uuid.UUID) bool {
	return e.ReportingManagerID != nil && *e.ReportingManagerID == managerID
}
