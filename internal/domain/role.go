package domain

type Role string

const (
	RoleEmployee         Role = "EMPLOYEE"
	RoleReportingManager Role = "REPORTING_MANAGER"
	RoleHRManager        Role = "HR_MANAGER"
	RoleAdmin            Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleReportingManager, RoleHRManager, RoleAdmin:
		return true
	}
	return false
}

// Actor is the authenticated caller. Identity and role come from the token and are trusted as given.
type Actor struct {
	ID   string
	Role Role
}
