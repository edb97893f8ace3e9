// Package calculator holds the pure computation at the heart of the expense
// server: dividing an amount into per-member shares, and deriving balance
// statistics from stored expenses. Nothing in this package touches storage.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/Dhruv1249/expense-server/internal/errs"
	"github.com/Dhruv1249/expense-server/internal/models"
)

var hundred = decimal.NewFromInt(100)

// SplitInput is one caller-supplied entry of split data. Which fields are
// read depends on the split type: EQUAL uses only UserID, PERCENTAGE uses
// UserID+Percentage, EXACT uses UserID+Amount.
type SplitInput struct {
	UserID     string
	Amount     decimal.Decimal
	Percentage decimal.Decimal
}

// ComputeSplits divides amount into per-member shares according to splitType.
//
//   - EQUAL: splits among the users named in splitData, or among every group
//     member when splitData is empty. Each share is amount/count rounded to
//     2 decimal places. The remainder is NOT redistributed, so the sum of
//     shares may drift from amount by up to 0.01 per participant.
//   - PERCENTAGE: splitData percentages must sum to exactly 100. Each share
//     is amount*percentage/100 rounded to 2 decimal places (same drift).
//   - EXACT: splitData amounts must sum to exactly amount.
//
// Every involved user must be in memberIDs and may appear at most once in
// splitData. The payer's own share is created
// SETTLED (the payer cannot owe themselves); all other shares start PENDING.
func ComputeSplits(amount decimal.Decimal, splitType models.SplitType, splitData []SplitInput, memberIDs []string, payerID string) ([]models.Split, error) {
	if !amount.IsPositive() {
		return nil, errs.Validation("amount must be greater than zero")
	}

	members := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		members[id] = true
	}

	switch splitType {
	case models.SplitEqual:
		return equalSplits(amount, splitData, memberIDs, members, payerID)
	case models.SplitPercentage:
		return percentageSplits(amount, splitData, members, payerID)
	case models.SplitExact:
		return exactSplits(amount, splitData, members, payerID)
	default:
		return nil, errs.Validation("invalid split type %q: must be EQUAL, PERCENTAGE, or EXACT", splitType)
	}
}

func equalSplits(amount decimal.Decimal, splitData []SplitInput, memberIDs []string, members map[string]bool, payerID string) ([]models.Split, error) {
	// An explicit user list narrows the split; otherwise everyone is in.
	involved := memberIDs
	if len(splitData) > 0 {
		involved = make([]string, len(splitData))
		for i, entry := range splitData {
			involved[i] = entry.UserID
		}
	}
	if len(involved) == 0 {
		return nil, errs.Validation("no users to split among")
	}

	share := amount.Div(decimal.NewFromInt(int64(len(involved)))).Round(2)

	seen := make(map[string]bool, len(involved))
	splits := make([]models.Split, len(involved))
	for i, userID := range involved {
		if !members[userID] {
			return nil, errs.Validation("user %s is not a member of this group", userID)
		}
		if seen[userID] {
			return nil, errs.Validation("user %s appears more than once in split data", userID)
		}
		seen[userID] = true
		splits[i] = models.Split{
			UserID: userID,
			Amount: share,
			Status: initialStatus(userID, payerID),
		}
	}
	return splits, nil
}

func percentageSplits(amount decimal.Decimal, splitData []SplitInput, members map[string]bool, payerID string) ([]models.Split, error) {
	if len(splitData) == 0 {
		return nil, errs.Validation("split data is required for PERCENTAGE splits")
	}

	total := decimal.Zero
	for _, entry := range splitData {
		total = total.Add(entry.Percentage)
	}
	// Exact comparison, zero tolerance.
	if !total.Equal(hundred) {
		return nil, errs.Validation("percentages must add up to 100%%, got %s", total)
	}

	seen := make(map[string]bool, len(splitData))
	splits := make([]models.Split, len(splitData))
	for i, entry := range splitData {
		if !members[entry.UserID] {
			return nil, errs.Validation("user %s is not a member of this group", entry.UserID)
		}
		if seen[entry.UserID] {
			return nil, errs.Validation("user %s appears more than once in split data", entry.UserID)
		}
		seen[entry.UserID] = true
		splits[i] = models.Split{
			UserID:     entry.UserID,
			Amount:     amount.Mul(entry.Percentage).Div(hundred).Round(2),
			Percentage: entry.Percentage,
			Status:     initialStatus(entry.UserID, payerID),
		}
	}
	return splits, nil
}

func exactSplits(amount decimal.Decimal, splitData []SplitInput, members map[string]bool, payerID string) ([]models.Split, error) {
	if len(splitData) == 0 {
		return nil, errs.Validation("split data is required for EXACT splits")
	}

	total := decimal.Zero
	for _, entry := range splitData {
		total = total.Add(entry.Amount)
	}
	if !total.Equal(amount) {
		return nil, errs.Validation("split amounts must equal the total expense amount: got %s, want %s", total, amount)
	}

	seen := make(map[string]bool, len(splitData))
	splits := make([]models.Split, len(splitData))
	for i, entry := range splitData {
		if !members[entry.UserID] {
			return nil, errs.Validation("user %s is not a member of this group", entry.UserID)
		}
		if seen[entry.UserID] {
			return nil, errs.Validation("user %s appears more than once in split data", entry.UserID)
		}
		seen[entry.UserID] = true
		splits[i] = models.Split{
			UserID: entry.UserID,
			Amount: entry.Amount,
			Status: initialStatus(entry.UserID, payerID),
		}
	}
	return splits, nil
}

func initialStatus(userID, payerID string) models.SplitStatus {
	if userID == payerID {
		return models.SplitSettled
	}
	return models.SplitPending
}
