package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/gofiber/fiber/v2"

	"github.com/OutOfContext/MyTicketSystem/internal/domain"
	apperrors "github.com/OutOfContext/MyTicketSystem/pkg/util"
)

// Resources guarded by the authorizer.
const (
	ResourceTickets  = "tickets"
	ResourceComments = "comments"
	ResourceUsers    = "users"
)

// Actions on resources.
const (
	ActionRead         = "read"
	ActionCreate       = "create"
	ActionUpdate       = "update"
	ActionUpdateStatus = "update_status"
	ActionReadAssigned = "read_assigned"
	ActionList         = "list"
	ActionUpdateRole   = "update_role"
	ActionDelete       = "delete"
)

const rbacModel = `
[request_definition]
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

// defaultPolicies grants each role its own permissions; inheritance adds the
// permissions of lower roles.
var defaultPolicies = [][]string{
	{string(domain.RoleUser), ResourceTickets, ActionRead},
	{string(domain.RoleUser), ResourceTickets, ActionCreate},
	{string(domain.RoleUser), ResourceTickets, ActionUpdate},
	{string(domain.RoleUser), ResourceComments, ActionRead},
	{string(domain.RoleUser), ResourceComments, ActionCreate},
	{string(domain.RoleUser), ResourceUsers, ActionRead},

	{string(domain.RoleSupport), ResourceTickets, ActionUpdateStatus},
	{string(domain.RoleSupport), ResourceTickets, ActionReadAssigned},
	{string(domain.RoleSupport), ResourceUsers, ActionList},

	{string(domain.RoleAdmin), ResourceTickets, ActionDelete},
	{string(domain.RoleAdmin), ResourceComments, ActionDelete},
	{string(domain.RoleAdmin), ResourceUsers, ActionUpdateRole},
	{string(domain.RoleAdmin), ResourceUsers, ActionDelete},
}

var roleHierarchy = [][]string{
	{string(domain.RoleSupport), string(domain.RoleUser)},
	{string(domain.RoleAdmin), string(domain.RoleSupport)},
}

// Authorizer decides whether a role may perform an action on a resource.
type Authorizer struct {
	enforcer *casbin.Enforcer
}

// NewAuthorizer builds the enforcer from the built-in role policy.
func NewAuthorizer() (*Authorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rbac model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	if _, err := enforcer.AddPolicies(defaultPolicies); err != nil {
		return nil, fmt.Errorf("failed to add policies: %w", err)
	}
	if _, err := enforcer.AddGroupingPolicies(roleHierarchy); err != nil {
		return nil, fmt.Errorf("failed to add role hierarchy: %w", err)
	}

	return &Authorizer{enforcer: enforcer}, nil
}

// Allowed reports whether role grants action on resource.
func (a *Authorizer) Allowed(role domain.Role, resource, action string) (bool, error) {
	allowed, err := a.enforcer.Enforce(string(role), resource, action)
	if err != nil {
		return false, fmt.Errorf("permission check failed: %w", err)
	}
	return allowed, nil
}

// Require guards a route with a (resource, action) permission. It must run
// after AuthMiddleware.Handle.
func (a *Authorizer) Require(resource, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		allowed, err := a.Allowed(principal.User.Role, resource, action)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		if !allowed {
			return apperrors.NewForbidden("Access denied")
		}
		return c.Next()
	}
}
