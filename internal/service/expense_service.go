// Package service implements the operation surface of the expense server.
// Services load aggregates from storage, gate the actor through rbac, run
// the pure calculator, and persist the result. They are transport-agnostic:
// the HTTP layer only translates requests into these calls.
package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Dhruv1249/expense-server/internal/calculator"
	"github.com/Dhruv1249/expense-server/internal/errs"
	"github.com/Dhruv1249/expense-server/internal/models"
	"github.com/Dhruv1249/expense-server/internal/rbac"
	"github.com/Dhruv1249/expense-server/internal/storage"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ExpenseService owns expense creation, settlement, and derived statistics.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// AddExpenseInput carries everything needed to record an expense.
// The actor becomes the payer.
type AddExpenseInput struct {
	GroupID     string
	ActorID     string
	Description string
	Amount      decimal.Decimal
	SplitType   models.SplitType
	SplitData   []calculator.SplitInput
}

// ExpensePage is one page of a group's expenses.
type ExpensePage struct {
	Expenses      []*models.Expense
	CurrentPage   int
	TotalPages    int
	TotalExpenses int
}

// AddExpense validates the actor against the group, computes the split set,
// and persists the expense atomically with all its splits.
func (s *ExpenseService) AddExpense(ctx context.Context, input AddExpenseInput) (*models.Expense, error) {
	if input.GroupID == "" || input.SplitType == "" || input.Amount.IsZero() {
		return nil, errs.Validation("amount, group ID, and split type are required")
	}

	group, member, err := s.loadGroupMember(ctx, input.GroupID, input.ActorID)
	if err != nil {
		return nil, err
	}
	if err := rbac.Authorize(member.Role, rbac.ActionAddExpense); err != nil {
		return nil, err
	}

	splits, err := calculator.ComputeSplits(input.Amount, input.SplitType, input.SplitData, group.MemberIDs(), input.ActorID)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		GroupID:     input.GroupID,
		PayerID:     input.ActorID,
		Description: input.Description,
		Amount:      input.Amount,
		SplitType:   input.SplitType,
		Splits:      splits,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, errs.Internal("failed to save expense", err)
	}

	slog.Info("expense added",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"payer_id", expense.PayerID,
		"amount", expense.Amount,
		"split_type", expense.SplitType,
	)
	return expense, nil
}

// SettleExpense marks the debtor's share of an expense as repaid. Only the
// expense's payer may settle shares. Settling an already settled share is a
// no-op success, so retries and concurrent calls are harmless.
func (s *ExpenseService) SettleExpense(ctx context.Context, expenseID, debtorID, actorID string) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, errs.Internal("failed to load expense", err)
	}
	if expense == nil {
		return nil, errs.NotFound("expense not found")
	}

	if expense.PayerID != actorID {
		return nil, errs.Authorization("only the person who paid this bill can settle it")
	}

	// The payer must also still hold the settle permission in the group;
	// a payer since demoted to viewer cannot settle.
	_, member, err := s.loadGroupMember(ctx, expense.GroupID, actorID)
	if err != nil {
		return nil, err
	}
	if err := rbac.Authorize(member.Role, rbac.ActionSettle); err != nil {
		return nil, err
	}

	split := expense.FindSplit(debtorID)
	if split == nil {
		return nil, errs.NotFound("this user is not involved in this expense")
	}
	if split.Settled() {
		return expense, nil
	}

	if err := s.store.SettleSplit(ctx, expenseID, debtorID); err != nil {
		return nil, errs.Internal("failed to settle split", err)
	}
	split.Status = models.SplitSettled

	slog.Info("split settled", "expense_id", expenseID, "debtor_id", debtorID)
	return expense, nil
}

// SettleGroup marks every pending split across the group's expenses as
// settled and returns the number of splits transitioned. The actor must hold
// the settle permission in the group.
func (s *ExpenseService) SettleGroup(ctx context.Context, groupID, actorID string) (int64, error) {
	_, member, err := s.loadGroupMember(ctx, groupID, actorID)
	if err != nil {
		return 0, err
	}
	if err := rbac.Authorize(member.Role, rbac.ActionSettle); err != nil {
		return 0, err
	}

	updated, err := s.store.SettlePendingInGroup(ctx, groupID)
	if err != nil {
		return 0, errs.Internal("failed to settle group", err)
	}

	slog.Info("group settled", "group_id", groupID, "splits_updated", updated)
	return updated, nil
}

// GetGroupExpenses returns one page of the group's expenses, newest first.
func (s *ExpenseService) GetGroupExpenses(ctx context.Context, groupID string, page, pageSize int) (*ExpensePage, error) {
	page, pageSize = normalizePage(page, pageSize)

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, errs.Internal("failed to load group", err)
	}
	if group == nil {
		return nil, errs.NotFound("group not found")
	}

	expenses, total, err := s.store.ListGroupExpenses(ctx, groupID, page, pageSize)
	if err != nil {
		return nil, errs.Internal("failed to list expenses", err)
	}

	return &ExpensePage{
		Expenses:      expenses,
		CurrentPage:   page,
		TotalPages:    totalPages(total, pageSize),
		TotalExpenses: total,
	}, nil
}

// GetUserStats recomputes the user's totals from every expense they are
// involved in. Nothing is cached; the numbers cannot drift from the splits.
func (s *ExpenseService) GetUserStats(ctx context.Context, userID string) (*calculator.UserStats, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errs.Internal("failed to load user", err)
	}
	if user == nil {
		return nil, errs.NotFound("user not found")
	}

	expenses, err := s.store.ListUserExpenses(ctx, userID)
	if err != nil {
		return nil, errs.Internal("failed to list expenses", err)
	}

	stats := calculator.ComputeUserStats(userID, expenses)
	return &stats, nil
}

// GetGroupStats recomputes the group's totals from its stored expenses.
func (s *ExpenseService) GetGroupStats(ctx context.Context, groupID string) (*calculator.GroupStats, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, errs.Internal("failed to load group", err)
	}
	if group == nil {
		return nil, errs.NotFound("group not found")
	}

	expenses, err := s.store.ListAllGroupExpenses(ctx, groupID)
	if err != nil {
		return nil, errs.Internal("failed to list expenses", err)
	}

	stats := calculator.ComputeGroupStats(expenses)
	return &stats, nil
}

// loadGroupMember fetches the group and the actor's membership record.
func (s *ExpenseService) loadGroupMember(ctx context.Context, groupID, actorID string) (*models.Group, *models.Member, error) {
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

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func totalPages(total, pageSize int) int {
	return (total + pageSize - 1) / pageSize
}
