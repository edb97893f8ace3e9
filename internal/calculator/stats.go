package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/Dhruv1249/expense-server/internal/models"
)

// UserStats summarizes one user's position across every expense they are
// involved in.
type UserStats struct {
	// TotalPaid is the sum of expense amounts where the user is the payer.
	TotalPaid decimal.Decimal

	// TotalOwedToUser is the sum of other users' PENDING shares on expenses
	// the user paid for.
	TotalOwedToUser decimal.Decimal

	// TotalUserOwes is the sum of the user's own PENDING shares on expenses
	// someone else paid for.
	TotalUserOwes decimal.Decimal
}

// GroupStats summarizes the expenses of one group.
type GroupStats struct {
	// TotalSpent is the sum of all expense amounts in the group.
	TotalSpent decimal.Decimal

	// PendingCount is the number of expenses with at least one PENDING split.
	PendingCount int

	// SettledCount is the number of expenses whose splits are all SETTLED.
	SettledCount int

	// PendingAmount is the sum of PENDING split amounts across the group's
	// not-fully-settled expenses.
	PendingAmount decimal.Decimal
}

// ComputeUserStats derives UserStats from the given expenses. Stats are
// always recomputed from source expenses; there is deliberately no stored
// running total to drift out of sync (the totals and the splits would
// otherwise need a cross-document consistency guarantee).
func ComputeUserStats(userID string, expenses []*models.Expense) UserStats {
	stats := UserStats{
		TotalPaid:       decimal.Zero,
		TotalOwedToUser: decimal.Zero,
		TotalUserOwes:   decimal.Zero,
	}

	for _, expense := range expenses {
		if expense.PayerID == userID {
			stats.TotalPaid = stats.TotalPaid.Add(expense.Amount)
			for i := range expense.Splits {
				split := &expense.Splits[i]
				if split.UserID != userID && !split.Settled() {
					stats.TotalOwedToUser = stats.TotalOwedToUser.Add(split.Amount)
				}
			}
			continue
		}
		if split := expense.FindSplit(userID); split != nil && !split.Settled() {
			stats.TotalUserOwes = stats.TotalUserOwes.Add(split.Amount)
		}
	}

	return stats
}

// ComputeGroupStats derives GroupStats from the given expenses, which are
// expected to all belong to one group.
func ComputeGroupStats(expenses []*models.Expense) GroupStats {
	stats := GroupStats{
		TotalSpent:    decimal.Zero,
		PendingAmount: decimal.Zero,
	}

	for _, expense := range expenses {
		stats.TotalSpent = stats.TotalSpent.Add(expense.Amount)

		if expense.FullySettled() {
			stats.SettledCount++
			continue
		}

		stats.PendingCount++
		for i := range expense.Splits {
			split := &expense.Splits[i]
			if !split.Settled() {
				stats.PendingAmount = stats.PendingAmount.Add(split.Amount)
			}
		}
	}

	return stats
}
