package rbac

import (
	"testing"

	"github.com/Dhruv1249/expense-server/internal/errs"
	"github.com/Dhruv1249/expense-server/internal/models"
)

func TestAllowed_Matrix(t *testing.T) {
	// Full permission matrix, one row per action.
	tests := []struct {
		action  Action
		admin   bool
		manager bool
		member  bool
		viewer  bool
	}{
		{ActionAddExpense, true, true, true, false},
		{ActionSettle, true, true, true, false},
		{ActionManageMembers, true, true, false, false},
		{ActionUpdateGroup, true, true, false, false},
		{ActionChangeRole, true, false, false, false},
		{ActionDeleteGroup, true, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			checks := map[models.Role]bool{
				models.RoleAdmin:   tt.admin,
				models.RoleManager: tt.manager,
				models.RoleMember:  tt.member,
				models.RoleViewer:  tt.viewer,
			}
			for role, want := range checks {
				if got := Allowed(role, tt.action); got != want {
					t.Errorf("Allowed(%s, %s) = %v, want %v", role, tt.action, got, want)
				}
			}
		})
	}
}

func TestAllowed_UnknownRoleDenied(t *testing.T) {
	if Allowed(models.Role("superuser"), ActionDeleteGroup) {
		t.Error("unknown role must be denied")
	}
	if Allowed(models.RoleAdmin, Action("format_disk")) {
		t.Error("unknown action must be denied")
	}
}

func TestAuthorize(t *testing.T) {
	if err := Authorize(models.RoleMember, ActionAddExpense); err != nil {
		t.Errorf("member adding expense should be allowed: %v", err)
	}

	err := Authorize(models.RoleViewer, ActionAddExpense)
	if err == nil {
		t.Fatal("viewer adding expense must be denied")
	}
	if !errs.IsKind(err, errs.KindAuthorization) {
		t.Errorf("expected authorization error, got %v", err)
	}
}

func TestAuthorizeRemoveMember(t *testing.T) {
	// Self-leave is always allowed, even for viewers.
	if err := AuthorizeRemoveMember(models.RoleViewer, "u1", "u1"); err != nil {
		t.Errorf("self-leave should be allowed: %v", err)
	}

	// Removing someone else needs manage-members permission.
	if err := AuthorizeRemoveMember(models.RoleManager, "u1", "u2"); err != nil {
		t.Errorf("manager removing member should be allowed: %v", err)
	}
	if err := AuthorizeRemoveMember(models.RoleMember, "u1", "u2"); err == nil {
		t.Error("member removing someone else must be denied")
	}
}

func TestAuthorizeRoleChange(t *testing.T) {
	tests := []struct {
		name          string
		requesterRole models.Role
		requesterID   string
		targetID      string
		newRole       models.Role
		wantKind      errs.Kind
	}{
		{
			name:          "admin promotes another member",
			requesterRole: models.RoleAdmin,
			requesterID:   "u1",
			targetID:      "u2",
			newRole:       models.RoleManager,
		},
		{
			name:          "manager may not change roles",
			requesterRole: models.RoleManager,
			requesterID:   "u1",
			targetID:      "u2",
			newRole:       models.RoleMember,
			wantKind:      errs.KindAuthorization,
		},
		{
			name:          "admin may not change own role",
			requesterRole: models.RoleAdmin,
			requesterID:   "u1",
			targetID:      "u1",
			newRole:       models.RoleMember,
			wantKind:      errs.KindValidation,
		},
		{
			name:          "unrecognized role rejected",
			requesterRole: models.RoleAdmin,
			requesterID:   "u1",
			targetID:      "u2",
			newRole:       models.Role("owner"),
			wantKind:      errs.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeRoleChange(tt.requesterRole, tt.requesterID, tt.targetID, tt.newRole)
			if tt.wantKind == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !errs.IsKind(err, tt.wantKind) {
				t.Errorf("error kind = %v, want %v (%v)", errs.KindOf(err), tt.wantKind, err)
			}
		})
	}
}
