package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Dhruv1249/expense-server/internal/calculator"
	"github.com/Dhruv1249/expense-server/internal/errs"
	"github.com/Dhruv1249/expense-server/internal/models"
	"github.com/Dhruv1249/expense-server/internal/rbac"
	"github.com/Dhruv1249/expense-server/internal/storage"
)

const defaultCurrency = "INR"

// GroupService owns the group directory: groups, membership, and roles.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroupInput carries the fields for a new group.
type CreateGroupInput struct {
	Name        string
	Description string
	Currency    string
	CreatorID   string
}

// GroupSummary is a group plus its recomputed total spending.
type GroupSummary struct {
	*models.Group

	// TotalSpent is derived from the group's expenses on every read.
	// It is deliberately not a stored column: an earlier design kept a
	// running total on the group record and it was never updated.
	TotalSpent decimal.Decimal
}

// GroupPage is one page of a user's groups.
type GroupPage struct {
	Groups      []GroupSummary
	CurrentPage int
	TotalPages  int
	TotalGroups int
}

// AddMembersResult reports the outcome of a bulk member add, email by email.
type AddMembersResult struct {
	Added          []string
	NotFound       []string
	AlreadyMembers []string
}

// CreateGroup creates a group with the creator as its first admin, which is
// how every group starts out satisfying the at-least-one-admin invariant.
func (s *GroupService) CreateGroup(ctx context.Context, input CreateGroupInput) (*models.Group, error) {
	if input.Name == "" {
		return nil, errs.Validation("group name is required")
	}
	currency := input.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	group := &models.Group{
		Name:        input.Name,
		Description: input.Description,
		Currency:    currency,
		CreatorID:   input.CreatorID,
		Members:     []models.Member{{UserID: input.CreatorID, Role: models.RoleAdmin}},
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, errs.Internal("failed to save group", err)
	}

	slog.Info("group created", "group_id", group.ID, "creator_id", group.CreatorID)
	return group, nil
}

// GetGroup retrieves a group with its members.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, errs.Internal("failed to load group", err)
	}
	if group == nil {
		return nil, errs.NotFound("group not found")
	}
	return group, nil
}

// ListUserGroups returns one page of the user's groups, each with its total
// spending recomputed from the group's expenses.
func (s *GroupService) ListUserGroups(ctx context.Context, userID string, page, pageSize int) (*GroupPage, error) {
	page, pageSize = normalizePage(page, pageSize)

	groups, total, err := s.store.ListGroupsForUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, errs.Internal("failed to list groups", err)
	}

	summaries := make([]GroupSummary, len(groups))
	for i, group := range groups {
		expenses, err := s.store.ListAllGroupExpenses(ctx, group.ID)
		if err != nil {
			return nil, errs.Internal("failed to list group expenses", err)
		}
		summaries[i] = GroupSummary{
			Group:      group,
			TotalSpent: calculator.ComputeGroupStats(expenses).TotalSpent,
		}
	}

	return &GroupPage{
		Groups:      summaries,
		CurrentPage: page,
		TotalPages:  totalPages(total, pageSize),
		TotalGroups: total,
	}, nil
}

// UpdateGroupInput carries a metadata update; empty fields keep their
// current value.
type UpdateGroupInput struct {
	GroupID     string
	ActorID     string
	Name        string
	Description string
	Currency    string
}

// UpdateGroup edits the group's metadata. Requires the update permission.
func (s *GroupService) UpdateGroup(ctx context.Context, input UpdateGroupInput) (*models.Group, error) {
	group, member, err := s.loadGroupMember(ctx, input.GroupID, input.ActorID)
	if err != nil {
		return nil, err
	}
	if err := rbac.Authorize(member.Role, rbac.ActionUpdateGroup); err != nil {
		return nil, err
	}

	if input.Name != "" {
		group.Name = input.Name
	}
	if input.Description != "" {
		group.Description = input.Description
	}
	if input.Currency != "" {
		group.Currency = input.Currency
	}

	if err := s.store.UpdateGroupInfo(ctx, group.ID, group.Name, group.Description, group.Currency); err != nil {
		return nil, errs.Internal("failed to update group", err)
	}

	slog.Info("group updated", "group_id", group.ID)
	return group, nil
}

// AddMembers invites users into the group by email. Unknown emails are
// reported back rather than failing the whole batch, and inviting someone
// who is already a member is a warning-level no-op, not an error.
func (s *GroupService) AddMembers(ctx context.Context, groupID, actorID string, emails []string) (*AddMembersResult, error) {
	if len(emails) == 0 {
		return nil, errs.Validation("please provide a list of emails")
	}

	_, member, err := s.loadGroupMember(ctx, groupID, actorID)
	if err != nil {
		return nil, err
	}
	if err := rbac.Authorize(member.Role, rbac.ActionManageMembers); err != nil {
		return nil, err
	}

	result := &AddMembersResult{}
	for _, email := range emails {
		user, err := s.store.GetUserByEmail(ctx, email)
		if err != nil {
			return nil, errs.Internal("failed to look up user", err)
		}
		if user == nil {
			result.NotFound = append(result.NotFound, email)
			continue
		}

		err = s.store.AddMember(ctx, groupID, models.Member{UserID: user.ID, Role: models.RoleMember})
		if errors.Is(err, storage.ErrDuplicateMember) {
			slog.Warn("user already in group", "group_id", groupID, "user_id", user.ID)
			result.AlreadyMembers = append(result.AlreadyMembers, email)
			continue
		}
		if err != nil {
			return nil, errs.Internal("failed to add member", err)
		}
		result.Added = append(result.Added, email)
	}

	slog.Info("members added", "group_id", groupID,
		"added", len(result.Added), "not_found", len(result.NotFound))
	return result, nil
}

// RemoveMember removes a user from the group. Anyone may remove themselves
// (leave); removing someone else requires the manage-members permission.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, actorID, targetUserID string) error {
	_, member, err := s.loadGroupMember(ctx, groupID, actorID)
	if err != nil {
		return err
	}
	if err := rbac.AuthorizeRemoveMember(member.Role, actorID, targetUserID); err != nil {
		return err
	}

	err = s.store.RemoveMember(ctx, groupID, targetUserID)
	if errors.Is(err, storage.ErrNotFound) {
		return errs.NotFound("user is not a member of this group")
	}
	if err != nil {
		return errs.Internal("failed to remove member", err)
	}

	slog.Info("member removed", "group_id", groupID, "user_id", targetUserID)
	return nil
}

// UpdateMemberRole changes another member's role. Admin-only; nobody can
// change their own role, and the new role must be one of the closed set.
func (s *GroupService) UpdateMemberRole(ctx context.Context, groupID, actorID, targetUserID string, newRole models.Role) error {
	_, member, err := s.loadGroupMember(ctx, groupID, actorID)
	if err != nil {
		return err
	}
	if err := rbac.AuthorizeRoleChange(member.Role, actorID, targetUserID, newRole); err != nil {
		return err
	}

	err = s.store.UpdateMemberRole(ctx, groupID, targetUserID, newRole)
	if errors.Is(err, storage.ErrNotFound) {
		return errs.NotFound("user is not a member of this group")
	}
	if err != nil {
		return errs.Internal("failed to update member role", err)
	}

	slog.Info("member role updated", "group_id", groupID, "user_id", targetUserID, "role", newRole)
	return nil
}

// DeleteGroup deletes the group and, through cascade, its members,
// expenses, and splits. Admin-only.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID, actorID string) error {
	_, member, err := s.loadGroupMember(ctx, groupID, actorID)
	if err != nil {
		return err
	}
	if err := rbac.Authorize(member.Role, rbac.ActionDeleteGroup); err != nil {
		return err
	}

	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		return errs.Internal("failed to delete group", err)
	}

	slog.Info("group deleted", "group_id", groupID)
	return nil
}

// loadGroupMember fetches the group and the actor's membership record.
func (s *GroupService) loadGroupMember(ctx context.Context, groupID, actorID string) (*models.Group, *models.Member, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, nil, errs.Internal("failed to load group", err)
	}
	if group == nil {
		return nil, nil, errs.NotFound("group not found")
	}

	member := group.FindMember(actorID)
	if member == nil {
		return nil, nil, errs.Authorization("you are not in this group")
	}
	return group, member, nil
}
