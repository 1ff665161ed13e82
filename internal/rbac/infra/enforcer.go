package infra

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const modelText = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// rolePolicies maps a role to the (resource, action) pairs it is granted directly.
var rolePolicies = map[string][][2]string{
	"EMPLOYEE": {
		{"leave", "create"},
		{"leave", "read"},
		{"leave", "update"},
		{"leave", "cancel"},
		{"balance", "read"},
		{"employee", "read"},
	},
	"REPORTING_MANAGER": {
		{"approval", "read"},
		{"approval", "decide"},
	},
	"HR_MANAGER": {
		{"approval", "read"},
		{"approval", "decide"},
	},
	"ADMIN": {
		{"employee", "manage"},
		{"balance", "allocate"},
	},
}

// roleInheritance: member inherits every grant of parent.
var roleInheritance = [][2]string{
	{"REPORTING_MANAGER", "EMPLOYEE"},
	{"HR_MANAGER", "EMPLOYEE"},
	{"ADMIN", "REPORTING_MANAGER"},
	{"ADMIN", "HR_MANAGER"},
}

// NewEnforcer builds an in-memory enforcer loaded with the role policy.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for role, grants := range rolePolicies {
		for _, g := range grants {
			if _, err := e.AddPolicy(role, g[0], g[1]); err != nil {
				return nil, err
			}
		}
	}
	for _, edge := range roleInheritance {
		if _, err := e.AddGroupingPolicy(edge[0], edge[1]); err != nil {
			return nil, err
		}
	}
	return e, nil
}
