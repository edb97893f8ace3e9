package service

import (
	"context"
	"testing"

	"github.com/Dhruv1249/expense-server/internal/errs"
	"github.com/Dhruv1249/expense-server/internal/models"
)

func TestCreateGroup_CreatorIsAdmin(t *testing.T) {
	store := setupStore(t)
	svc := NewGroupService(store)

	alice := createUser(t, store, "Alice")

	group, err := svc.CreateGroup(context.Background(), CreateGroupInput{
		Name:      "Trip to Goa",
		CreatorID: alice.ID,
	})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	if group.Currency != "INR" {
		t.Errorf("currency = %s, want default INR", group.Currency)
	}
	member := group.FindMember(alice.ID)
	if member == nil {
		t.Fatal("creator missing from members")
	}
	if member.Role != models.RoleAdmin {
		t.Errorf("creator role = %s, want admin", member.Role)
	}
}

func TestCreateGroup_NameRequired(t *testing.T) {
	store := setupStore(t)
	svc := NewGroupService(store)

	alice := createUser(t, store, "Alice")

	_, err := svc.CreateGroup(context.Background(), CreateGroupInput{CreatorID: alice.ID})
	if !errs.IsKind(err, errs.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestAddMembers(t *testing.T) {
	store := setupStore(t)
	svc := NewGroupService(store)

	alice := createUser(t, store, "Alice")
	bob := createUser(t, store, "Bob")
	group := createGroup(t, store, alice, nil)

	result, err := svc.AddMembers(context.Background(), group.ID, alice.ID,
		[]string{bob.Email, "nobody@example.com", alice.Email})
	if err != nil {
		t.Fatalf("AddMembers failed: %v", err)
	}

	if len(result.Added) != 1 || result.Added[0] != bob.Email {
		t.Errorf("Added = %v, want [%s]", result.Added, bob.Email)
	}
	if len(result.NotFound) != 1 || result.NotFound[0] != "nobody@example.com" {
		t.Errorf("NotFound = %v, want [nobody@example.com]", result.NotFound)
	}
	// The creator is already a member, so inviting them again is a no-op.
	if len(result.AlreadyMembers) != 1 || result.AlreadyMembers[0] != alice.Email {
		t.Errorf("AlreadyMembers = %v, want [%s]", result.AlreadyMembers, alice.Email)
	}

	fetched, err := svc.GetGroup(context.Background(), group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	member := fetched.FindMember(bob.ID)
	if member == nil {
		t.Fatal("bob missing from members after add")
	}
	if member.Role != models.RoleMember {
		t.Errorf("invited role = %s, want member", member.Role)
	}
}

func TestAddMembers_MemberDenied(t *testing.T) {
	store := setupStore(t)
	svc := NewGroupService(store)

	alice := createUser(t, store, "Alice")
	bob := createUser(t, store, "Bob")
	carol := createUser(t, store, "Carol")
	group := createGroup(t, store, alice, map[*models.User]models.Role{
		bob: models.RoleMember,
	})

	_, err := svc.AddMembers(context.Background(), group.ID, bob.ID, []string{carol.Email})
	if !errs.IsKind(err, errs.KindAuthorization) {
		t.Errorf("expected authorization error, got %v", err)
	}
}

func TestRemoveMember_SelfLeaveAlwaysAllowed(t *testing.T) {
	store := setupStore(t)
	svc := NewGroupService(store)

	alice := createUser(t, store, "Alice")
	vera := createUser(t, store, "Vera")
	group := createGroup(t, store, alice, map[*models.User]models.Role{
		vera: models.RoleViewer,
	})

	// Even a viewer may leave on their own.
	if err := svc.RemoveMember(context.Background(), group.ID, vera.ID, vera.ID); err != nil {
		t.Fatalf("self-leave failed: %v", err)
	}

	fetched, err := svc.GetGroup(context.Background(), group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if fetched.FindMember(vera.ID) != nil {
		t.Error("vera still a member after leaving")
	}
}

func TestRemoveMember_MemberCannotRemoveOthers(t *testing.T) {
	store := setupStore(t)
	svc := NewGroupService(store)

	alice := createUser(t, store, "Alice")
	bob := createUser(t, store, "Bob")
	carol := createUser(t, store, "Carol")
	group := createGroup(t, store, alice, map[*models.User]models.Role{
		bob:   models.RoleMember,
		carol: models.RoleMember,
	})

	err := svc.RemoveMember(context.Background(), group.ID, bob.ID, carol.ID)
	if !errs.IsKind(err, errs.KindAuthorization) {
		t.Errorf("expected authorization error, got %v", err)
	}
}

func TestRemoveMember_NotAMember(t *testing.T) {
	store := setupStore(t)
	svc := NewGroupService(store)

	alice := createUser(t, store, "Alice")
	bob := createUser(t, store, "Bob")
	group := createGroup(t, store, alice, nil)

	err := svc.RemoveMember(context.Background(), group.ID, alice.ID, bob.ID)
	if !errs.IsKind(err, errs.KindNotFound) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestUpdateMemberRole(t *testing.T) {
	store := setupStore(t)
	svc := NewGroupService(store)

	alice := createUser(t, store, "Alice")
	bob := createUser(t, store, "Bob")
	group := createGroup(t, store, alice, map[*models.User]models.Role{
		bob: models.RoleMember,
	})

	if err := svc.UpdateMemberRole(context.Background(), group.ID, alice.ID, bob.ID, models.RoleManager); err != nil {
		t.Fatalf("UpdateMemberRole failed: %v", err)
	}

	fetched, err := svc.GetGroup(context.Background(), group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if member := fetched.FindMember(bob.ID); member == nil || member.Role != models.RoleManager {
		t.Errorf("bob's role not updated to manager")
	}
}

func TestUpdateMemberRole_Rules(t *testing.T) {
	store := setupStore(t)
	svc := NewGroupService(store)

	alice := createUser(t, store, "Alice")
	mark := createUser(t, store, "Mark")
	bob := createUser(t, store, "Bob")
	group := createGroup(t, store, alice, map[*models.User]models.Role{
		mark: models.RoleManager,
		bob:  models.RoleMember,
	})

	tests := []struct {
		name     string
		actorID  string
		targetID string
		newRole  models.Role
		wantKind errs.Kind
	}{
		{"manager cannot change roles", mark.ID, bob.ID, models.RoleViewer, errs.KindAuthorization},
		{"admin cannot change own role", alice.ID, alice.ID, models.RoleMember, errs.KindValidation},
		{"unknown role rejected", alice.ID, bob.ID, models.Role("owner"), errs.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.UpdateMemberRole(context.Background(), group.ID, tt.actorID, tt.targetID, tt.newRole)
			if !errs.IsKind(err, tt.wantKind) {
				t.Errorf("got %v, want kind %d", err, tt.wantKind)
			}
		})
	}
}

func TestUpdateGroup(t *testing.T) {
	store := setupStore(t)
	svc := NewGroupService(store)

	alice := createUser(t, store, "Alice")
	bob := createUser(t, store, "Bob")
	group := createGroup(t, store, alice, map[*models.User]models.Role{
		bob: models.RoleMember,
	})

	// Plain members may not edit group metadata.
	_, err := svc.UpdateGroup(context.Background(), UpdateGroupInput{
		GroupID: group.ID,
		ActorID: bob.ID,
		Name:    "Hijacked",
	})
	if !errs.IsKind(err, errs.KindAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}

	updated, err := svc.UpdateGroup(context.Background(), UpdateGroupInput{
		GroupID:  group.ID,
		ActorID:  alice.ID,
		Name:     "Flat 4B v2",
		Currency: "USD",
	})
	if err != nil {
		t.Fatalf("UpdateGroup failed: %v", err)
	}
	if updated.Name != "Flat 4B v2" || updated.Currency != "USD" {
		t.Errorf("update not applied: %+v", updated)
	}

	fetched, err := svc.GetGroup(context.Background(), group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if fetched.Name != "Flat 4B v2" || fetched.Currency != "USD" {
		t.Errorf("update not persisted: name=%s currency=%s", fetched.Name, fetched.Currency)
	}
}

func TestDeleteGroup_ManagerDenied(t *testing.T) {
	store := setupStore(t)
	svc := NewGroupService(store)

	alice := createUser(t, store, "Alice")
	mark := createUser(t, store, "Mark")
	group := createGroup(t, store, alice, map[*models.User]models.Role{
		mark: models.RoleManager,
	})

	err := svc.DeleteGroup(context.Background(), group.ID, mark.ID)
	if !errs.IsKind(err, errs.KindAuthorization) {
		t.Errorf("expected authorization error, got %v", err)
	}
}

func TestDeleteGroup(t *testing.T) {
	store := setupStore(t)
	svc := NewGroupService(store)

	alice := createUser(t, store, "Alice")
	group := createGroup(t, store, alice, nil)

	if err := svc.DeleteGroup(context.Background(), group.ID, alice.ID); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}

	_, err := svc.GetGroup(context.Background(), group.ID)
	if !errs.IsKind(err, errs.KindNotFound) {
		t.Errorf("expected not-found after delete, got %v", err)
	}
}

func TestListUserGroups_TotalSpentRecomputed(t *testing.T) {
	store := setupStore(t)
	groups := NewGroupService(store)
	expenses := NewExpenseService(store)

	alice := createUser(t, store, "Alice")
	bob := createUser(t, store, "Bob")
	group := createGroup(t, store, alice, map[*models.User]models.Role{
		bob: models.RoleMember,
	})

	for _, amount := range []string{"25.50", "74.50"} {
		if _, err := expenses.AddExpense(context.Background(), AddExpenseInput{
			GroupID:   group.ID,
			ActorID:   alice.ID,
			Amount:    dec(amount),
			SplitType: models.SplitEqual,
		}); err != nil {
			t.Fatalf("AddExpense failed: %v", err)
		}
	}

	page, err := groups.ListUserGroups(context.Background(), alice.ID, 1, 10)
	if err != nil {
		t.Fatalf("ListUserGroups failed: %v", err)
	}
	if page.TotalGroups != 1 || len(page.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", page.TotalGroups)
	}
	if !page.Groups[0].TotalSpent.Equal(dec("100")) {
		t.Errorf("TotalSpent = %s, want 100", page.Groups[0].TotalSpent)
	}
}
