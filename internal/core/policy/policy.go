// Package policy defines the portal's authorization matrix.
//
// Every role/action decision in the portal goes through Evaluate so the
// HTTP middleware, the services and the CLI share one table. Ownership is
// the only contextual rule and is expressed by CanView/FilterVisible.
package policy

import (
	"fmt"

	"landreg-portal/internal/core/domain"
)

// Action is something a role may be permitted to do.
type Action int

const (
	ActionViewAllRegistrations Action = iota + 1
	ActionViewOwnRegistrations
	ActionCreateRegistration
	ActionUpdateRegistrationStatus
	ActionDeleteRegistration
	ActionManageUsers
	ActionAccessAdminConsole
)

// Actions lists every action in table order.
var Actions = []Action{
	ActionViewAllRegistrations,
	ActionViewOwnRegistrations,
	ActionCreateRegistration,
	ActionUpdateRegistrationStatus,
	ActionDeleteRegistration,
	ActionManageUsers,
	ActionAccessAdminConsole,
}

func (a Action) String() string {
	switch a {
	case ActionViewAllRegistrations:
		return "view all registrations"
	case ActionViewOwnRegistrations:
		return "view own registrations"
	case ActionCreateRegistration:
		return "create registration"
	case ActionUpdateRegistrationStatus:
		return "update registration status"
	case ActionDeleteRegistration:
		return "delete registration"
	case ActionManageUsers:
		return "manage users"
	case ActionAccessAdminConsole:
		return "access admin console"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Reason codes attached to decisions.
const (
	ReasonAllowRole         = "ALLOW_ROLE"
	ReasonDenyRole          = "DENY_ROLE"
	ReasonDenyUnknownRole   = "DENY_UNKNOWN_ROLE"
	ReasonDenyUnknownAction = "DENY_UNKNOWN_ACTION"
	ReasonAllowOwner        = "ALLOW_OWNER"
	ReasonDenyNotOwner      = "DENY_NOT_OWNER"
)

// Decision is the result of evaluating a role against an action.
type Decision struct {
	Allowed bool
	Reason  string
}

// matrix is exhaustive: every role lists every action explicitly. A role or
// action missing from it is denied.
var matrix = map[domain.Role]map[Action]bool{
	domain.RoleAdmin: {
		ActionViewAllRegistrations:     true,
		ActionViewOwnRegistrations:     true,
		ActionCreateRegistration:       true,
		ActionUpdateRegistrationStatus: true,
		ActionDeleteRegistration:       true,
		ActionManageUsers:              true,
		ActionAccessAdminConsole:       true,
	},
	domain.RoleHead: {
		ActionViewAllRegistrations:     true,
		ActionViewOwnRegistrations:     true,
		ActionCreateRegistration:       false,
		ActionUpdateRegistrationStatus: true,
		ActionDeleteRegistration:       false,
		ActionManageUsers:              false,
		ActionAccessAdminConsole:       false,
	},
	domain.RoleDateEntryOfficer: {
		ActionViewAllRegistrations:     false,
		ActionViewOwnRegistrations:     true,
		ActionCreateRegistration:       true,
		ActionUpdateRegistrationStatus: false,
		ActionDeleteRegistration:       false,
		ActionManageUsers:              false,
		ActionAccessAdminConsole:       false,
	},
	domain.RoleSecretary: {
		ActionViewAllRegistrations:     false,
		ActionViewOwnRegistrations:     true,
		ActionCreateRegistration:       false,
		ActionUpdateRegistrationStatus: false,
		ActionDeleteRegistration:       false,
		ActionManageUsers:              false,
		ActionAccessAdminConsole:       false,
	},
	domain.RoleStaff: {
		ActionViewAllRegistrations:     false,
		ActionViewOwnRegistrations:     true,
		ActionCreateRegistration:       false,
		ActionUpdateRegistrationStatus: false,
		ActionDeleteRegistration:       false,
		ActionManageUsers:              false,
		ActionAccessAdminConsole:       false,
	},
}

// Rule is one row of the decision table.
type Rule struct {
	Role    domain.Role
	Action  Action
	Allowed bool
}

// Table returns every row of the matrix, roles by privilege then actions in
// declaration order.
func Table() []Rule {
	rows := make([]Rule, 0, len(domain.Roles)*len(Actions))
	for _, role := range domain.Roles {
		for _, action := range Actions {
			rows = append(rows, Rule{Role: role, Action: action, Allowed: Evaluate(role, action).Allowed})
		}
	}
	return rows
}

// Evaluate decides whether role may perform action.
func Evaluate(role domain.Role, action Action) Decision {
	actions, ok := matrix[role]
	if !ok {
		return Decision{Reason: ReasonDenyUnknownRole}
	}
	allowed, ok := actions[action]
	if !ok {
		return Decision{Reason: ReasonDenyUnknownAction}
	}
	if !allowed {
		return Decision{Reason: ReasonDenyRole}
	}
	return Decision{Allowed: true, Reason: ReasonAllowRole}
}

// Can reports whether role may perform action.
func Can(role domain.Role, action Action) bool {
	return Evaluate(role, action).Allowed
}

// Authorize returns an error wrapping domain.ErrForbidden when the actor
// may not perform action.
func Authorize(actor domain.Actor, action Action) error {
	d := Evaluate(actor.Role, action)
	if d.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s may not %s (%s)", domain.ErrForbidden, roleLabel(actor.Role), action, d.Reason)
}

// CanView decides whether the actor may see a single registration: roles
// that view everything see it, everyone else only sees their own.
func CanView(actor domain.Actor, reg *domain.Registration) Decision {
	if d := Evaluate(actor.Role, ActionViewAllRegistrations); d.Allowed {
		return d
	}
	if !Can(actor.Role, ActionViewOwnRegistrations) {
		return Evaluate(actor.Role, ActionViewOwnRegistrations)
	}
	if reg != nil && actor.Username != "" && reg.SubmittedBy == actor.Username {
		return Decision{Allowed: true, Reason: ReasonAllowOwner}
	}
	return Decision{Reason: ReasonDenyNotOwner}
}

// AuthorizeView is CanView returning a Forbidden error on denial.
func AuthorizeView(actor domain.Actor, reg *domain.Registration) error {
	d := CanView(actor, reg)
	if d.Allowed {
		return nil
	}
	return fmt.Errorf("%w: registration is not visible to %s (%s)", domain.ErrForbidden, actor.Username, d.Reason)
}

// FilterVisible keeps the registrations the actor may see, preserving order.
func FilterVisible(actor domain.Actor, regs []*domain.Registration) []*domain.Registration {
	if Can(actor.Role, ActionViewAllRegistrations) {
		return regs
	}
	out := make([]*domain.Registration, 0, len(regs))
	for _, r := range regs {
		if CanView(actor, r).Allowed {
			out = append(out, r)
		}
	}
	return out
}

func roleLabel(r domain.Role) string {
	if r == "" {
		return "anonymous"
	}
	return string(r)
}
