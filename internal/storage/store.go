// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/Dhruv1249/expense-server/internal/models"
)

// ErrNotFound is returned by mutations that matched no stored record.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateMember is returned when adding a user who is already a member
// of the group.
var ErrDuplicateMember = errors.New("user is already a member of the group")

// UserStore is the user directory consumed by the services.
// Lookups return (nil, nil) when no user matches.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// GroupStore is the group directory: group aggregates and their membership.
type GroupStore interface {
	// CreateGroup persists a group with its initial member set in one
	// atomic write. ID and timestamps are assigned by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with all members, or (nil, nil) if absent.
	GetGroup(ctx context.Context, id string) (*models.Group, error)

	// ListGroupsForUser returns the page of groups the user belongs to,
	// newest first, along with the total count.
	ListGroupsForUser(ctx context.Context, userID string, page, pageSize int) ([]*models.Group, int, error)

	// UpdateGroupInfo overwrites the group's metadata fields.
	UpdateGroupInfo(ctx context.Context, groupID, name, description, currency string) error

	// AddMember inserts a membership row. Returns ErrDuplicateMember if the
	// user is already in the group.
	AddMember(ctx context.Context, groupID string, member models.Member) error

	// RemoveMember deletes a membership row.
	RemoveMember(ctx context.Context, groupID, userID string) error

	// UpdateMemberRole sets the member's role.
	UpdateMemberRole(ctx context.Context, groupID, userID string, role models.Role) error

	// DeleteGroup removes the group; members, expenses, and splits cascade.
	DeleteGroup(ctx context.Context, id string) error
}

// ExpenseStore persists expense aggregates. Settlement mutations are single
// conditional updates keyed by a filter rather than read-modify-write in
// application code, so concurrent settles cannot lose updates.
type ExpenseStore interface {
	// CreateExpense persists an expense together with its full split set
	// atomically. There is no partial-split state.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with its splits in creation order,
	// or (nil, nil) if absent.
	GetExpense(ctx context.Context, id string) (*models.Expense, error)

	// ListGroupExpenses returns one page of the group's expenses, newest
	// first, along with the total count.
	ListGroupExpenses(ctx context.Context, groupID string, page, pageSize int) ([]*models.Expense, int, error)

	// ListAllGroupExpenses returns every expense in the group. Used by the
	// stats aggregation, which always recomputes from source records.
	ListAllGroupExpenses(ctx context.Context, groupID string) ([]*models.Expense, error)

	// ListUserExpenses returns every expense the user participates in,
	// as payer or as a split holder.
	ListUserExpenses(ctx context.Context, userID string) ([]*models.Expense, error)

	// SettleSplit marks one split SETTLED. Settling an already settled
	// split is a no-op, making the operation idempotent.
	SettleSplit(ctx context.Context, expenseID, userID string) error

	// SettlePendingInGroup marks every PENDING split in the group SETTLED
	// with a single filtered update, and returns the number of splits
	// transitioned.
	SettlePendingInGroup(ctx context.Context, groupID string) (int64, error)
}

// Store is the full persistence surface. The sqlite subpackage implements
// it; services depend only on this interface so backends can be swapped.
type Store interface {
	UserStore
	GroupStore
	ExpenseStore

	// Close releases any resources held by the store.
	Close() error
}
