// Package rbac gates every group mutation on the actor's member role.
//
// Roles are a closed enumeration and permissions a static lookup table
// (role x action), not polymorphic objects. Two rules sit outside the
// table: a member may always remove themselves from a group, and a member
// may never change their own role.
package rbac

import (
	"github.com/Dhruv1249/expense-server/internal/errs"
	"github.com/Dhruv1249/expense-server/internal/models"
)

// Action is an operation subject to the permission table.
type Action string

const (
	// ActionAddExpense covers recording a new expense in the group.
	ActionAddExpense Action = "add_expense"

	// ActionSettle covers settling splits, single or group-wide.
	// Single-split settlement additionally requires the actor to be the
	// expense's payer; that check lives in the expense service.
	ActionSettle Action = "settle"

	// ActionManageMembers covers adding and removing members.
	ActionManageMembers Action = "manage_members"

	// ActionUpdateGroup covers editing group name, description, currency.
	ActionUpdateGroup Action = "update_group"

	// ActionChangeRole covers changing another member's role.
	ActionChangeRole Action = "change_role"

	// ActionDeleteGroup covers deleting the group and its expenses.
	ActionDeleteGroup Action = "delete_group"
)

// permissions is the closed role x action matrix. Absent entries deny.
var permissions = map[models.Role]map[Action]bool{
	models.RoleAdmin: {
		ActionAddExpense:    true,
		ActionSettle:        true,
		ActionManageMembers: true,
		ActionUpdateGroup:   true,
		ActionChangeRole:    true,
		ActionDeleteGroup:   true,
	},
	models.RoleManager: {
		ActionAddExpense:    true,
		ActionSettle:        true,
		ActionManageMembers: true,
		ActionUpdateGroup:   true,
	},
	models.RoleMember: {
		ActionAddExpense: true,
		ActionSettle:     true,
	},
	models.RoleViewer: {},
}

// Allowed reports whether role may perform action. Unknown roles and
// unknown actions deny.
func Allowed(role models.Role, action Action) bool {
	return permissions[role][action]
}

// Authorize returns an AuthorizationError unless role may perform action.
func Authorize(role models.Role, action Action) error {
	if !Allowed(role, action) {
		return errs.Authorization("role %q may not perform %q", role, action)
	}
	return nil
}

// AuthorizeRemoveMember checks a member-removal request. Removing yourself
// (leaving the group) is always allowed; removing anyone else requires the
// manage-members permission.
func AuthorizeRemoveMember(requesterRole models.Role, requesterID, targetID string) error {
	if requesterID == targetID {
		return nil
	}
	if !Allowed(requesterRole, ActionManageMembers) {
		return errs.Authorization("only admins and managers can remove other members")
	}
	return nil
}

// AuthorizeRoleChange checks a role-change request. The new role must be in
// the closed role set, the requester needs the change-role permission, and
// nobody may change their own role.
func AuthorizeRoleChange(requesterRole models.Role, requesterID, targetID string, newRole models.Role) error {
	if !newRole.Valid() {
		return errs.Validation("invalid role %q: must be admin, manager, member, or viewer", newRole)
	}
	if err := Authorize(requesterRole, ActionChangeRole); err != nil {
		return err
	}
	if requesterID == targetID {
		return errs.Validation("you cannot change your own role")
	}
	return nil
}
