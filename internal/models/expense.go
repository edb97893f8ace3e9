package models

import "github.com/shopspring/decimal"

// SplitType selects how an expense amount is divided among members.
type SplitType string

const (
	SplitEqual      SplitType = "EQUAL"
	SplitPercentage SplitType = "PERCENTAGE"
	SplitExact      SplitType = "EXACT"
)

// Valid reports whether t is one of the recognized split types.
func (t SplitType) Valid() bool {
	switch t {
	case SplitEqual, SplitPercentage, SplitExact:
		return true
	}
	return false
}

// SplitStatus is the settlement state of one share.
// The only legal transition is PENDING -> SETTLED; SETTLED is terminal.
type SplitStatus string

const (
	SplitPending SplitStatus = "PENDING"
	SplitSettled SplitStatus = "SETTLED"
)

// Split is one member's computed share of an expense.
type Split struct {
	// UserID references a member of the expense's group.
	UserID string

	// Amount is this member's share, rounded to 2 decimal places.
	Amount decimal.Decimal

	// Percentage is the member's percentage of the total. Only populated
	// for PERCENTAGE expenses; zero otherwise.
	Percentage decimal.Decimal

	// Status is PENDING until the debtor repays the payer. The payer's own
	// share is created SETTLED.
	Status SplitStatus
}

// Settled reports whether the share has been repaid.
func (s *Split) Settled() bool {
	return s.Status == SplitSettled
}

// Expense represents one shared payment made by a member on behalf of a group.
// An expense is created atomically with its full split set; there is no
// partial-split state.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// PayerID is the member who actually paid the bill. Only the payer may
	// settle individual shares.
	PayerID string

	// Description is a human-readable label for the expense.
	Description string

	// Amount is the total amount paid, positive.
	Amount decimal.Decimal

	// Date is the Unix timestamp the expense applies to.
	Date int64

	// SplitType records how Splits were computed.
	SplitType SplitType

	// Splits is the per-member share breakdown, in creation order.
	Splits []Split

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// FindSplit returns the split belonging to userID, or nil if the user has
// no share in this expense.
func (e *Expense) FindSplit(userID string) *Split {
	for i := range e.Splits {
		if e.Splits[i].UserID == userID {
			return &e.Splits[i]
		}
	}
	return nil
}

// FullySettled reports whether every split of the expense is settled.
// An expense with no splits counts as settled.
func (e *Expense) FullySettled() bool {
	for i := range e.Splits {
		if !e.Splits[i].Settled() {
			return false
		}
	}
	return true
}
