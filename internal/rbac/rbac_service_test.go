package rbac_test

import (
	"testing"

	"go-leave/internal/domain"
	"go-leave/internal/rbac"
	"go-leave/internal/rbac/infra"

	"github.com/stretchr/testify/assert"
)

func TestService_Enforce(t *testing.T) {
	enforcer, err := infra.NewEnforcer()
	assert.NoError(t, err)
	svc := rbac.NewService(enforcer)

	cases := []struct {
		name     string
		role     domain.Role
		resource string
		action   string
		allowed  bool
	}{
		{"employee applies", domain.RoleEmployee, "leave", "create", true},
		{"employee cannot decide", domain.RoleEmployee, "approval", "decide", false},
		{"manager inherits employee grants", domain.RoleReportingManager, "leave", "create", true},
		{"manager decides", domain.RoleReportingManager, "approval", "decide", true},
		{"hr decides", domain.RoleHRManager, "approval", "decide", true},
		{"hr cannot manage employees", domain.RoleHRManager, "employee", "manage", false},
		{"admin inherits everything", domain.RoleAdmin, "approval", "decide", true},
		{"admin allocates", domain.RoleAdmin, "balance", "allocate", true},
		{"unknown role", domain.Role("GUEST"), "leave", "read", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := svc.Enforce(domain.EnforceRequest{
				Role:     string(tc.role),
				Resource: tc.resource,
				Action:   tc.action,
			})

			assert.NoError(t, err)
			assert.Equal(t, tc.allowed, allowed)
		})
	}
}

func TestService_Permissions(t *testing.T) {
	enforcer, err := infra.NewEnforcer()
	assert.NoError(t, err)
	svc := rbac.NewService(enforcer)

	perms, err := svc.Permissions(string(domain.RoleReportingManager))

	assert.NoError(t, err)
	assert.Contains(t, perms, domain.Permission{Resource: "approval", Action: "decide"})
	assert.Contains(t, perms, domain.Permission{Resource: "leave", Action: "create"})
	assert.NotContains(t, perms, domain.Permission{Resource: "employee", Action: "manage"})
	assert.Equal(t, "approval", perms[0].Resource)

	perms, err = svc.Permissions("GUEST")
	assert.NoError(t, err)
	assert.Empty(t, perms)
}
