package server

import (
	"github.com/shopspring/decimal"

	"github.com/Dhruv1249/expense-server/internal/calculator"
	"github.com/Dhruv1249/expense-server/internal/models"
	"github.com/Dhruv1249/expense-server/internal/service"
)

// Wire representations. Models stay JSON-free; these structs decide what
// leaves the server (notably, password hashes never do).

type userDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"createdAt"`
}

func toUserDTO(u *models.User) userDTO {
	return userDTO{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

type memberDTO struct {
	UserID   string      `json:"userId"`
	Role     models.Role `json:"role"`
	JoinedAt int64       `json:"joinedAt"`
}

type groupDTO struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Currency    string      `json:"currency"`
	CreatorID   string      `json:"creatorId"`
	Members     []memberDTO `json:"members"`
	CreatedAt   int64       `json:"createdAt"`
}

func toGroupDTO(g *models.Group) groupDTO {
	members := make([]memberDTO, len(g.Members))
	for i, m := range g.Members {
		members[i] = memberDTO{UserID: m.UserID, Role: m.Role, JoinedAt: m.JoinedAt}
	}
	return groupDTO{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Currency:    g.Currency,
		CreatorID:   g.CreatorID,
		Members:     members,
		CreatedAt:   g.CreatedAt,
	}
}

type groupSummaryDTO struct {
	groupDTO
	TotalSpent decimal.Decimal `json:"totalSpent"`
}

type splitDTO struct {
	UserID     string             `json:"userId"`
	Amount     decimal.Decimal    `json:"amount"`
	Percentage decimal.Decimal    `json:"percentage"`
	Status     models.SplitStatus `json:"status"`
}

type expenseDTO struct {
	ID          string           `json:"id"`
	GroupID     string           `json:"groupId"`
	PayerID     string           `json:"payerId"`
	Description string           `json:"description"`
	Amount      decimal.Decimal  `json:"amount"`
	Date        int64            `json:"date"`
	SplitType   models.SplitType `json:"splitType"`
	Splits      []splitDTO       `json:"splits"`
	CreatedAt   int64            `json:"createdAt"`
}

func toExpenseDTO(e *models.Expense) expenseDTO {
	splits := make([]splitDTO, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = splitDTO{
			UserID:     s.UserID,
			Amount:     s.Amount,
			Percentage: s.Percentage,
			Status:     s.Status,
		}
	}
	return expenseDTO{
		ID:          e.ID,
		GroupID:     e.GroupID,
		PayerID:     e.PayerID,
		Description: e.Description,
		Amount:      e.Amount,
		Date:        e.Date,
		SplitType:   e.SplitType,
		Splits:      splits,
		CreatedAt:   e.CreatedAt,
	}
}

type expensePageDTO struct {
	Expenses      []expenseDTO `json:"expenses"`
	CurrentPage   int          `json:"currentPage"`
	TotalPages    int          `json:"totalPages"`
	TotalExpenses int          `json:"totalExpenses"`
}

func toExpensePageDTO(p *service.ExpensePage) expensePageDTO {
	out := expensePageDTO{
		Expenses:      make([]expenseDTO, len(p.Expenses)),
		CurrentPage:   p.CurrentPage,
		TotalPages:    p.TotalPages,
		TotalExpenses: p.TotalExpenses,
	}
	for i, e := range p.Expenses {
		out.Expenses[i] = toExpenseDTO(e)
	}
	return out
}

type userStatsDTO struct {
	TotalPaid       decimal.Decimal `json:"totalPaid"`
	TotalOwedToUser decimal.Decimal `json:"totalOwedToUser"`
	TotalUserOwes   decimal.Decimal `json:"totalUserOwes"`
}

func toUserStatsDTO(s *calculator.UserStats) userStatsDTO {
	return userStatsDTO{
		TotalPaid:       s.TotalPaid,
		TotalOwedToUser: s.TotalOwedToUser,
		TotalUserOwes:   s.TotalUserOwes,
	}
}

type groupStatsDTO struct {
	TotalSpent    decimal.Decimal `json:"totalSpent"`
	PendingCount  int             `json:"pendingCount"`
	SettledCount  int             `json:"settledCount"`
	PendingAmount decimal.Decimal `json:"pendingAmount"`
}

func toGroupStatsDTO(s *calculator.GroupStats) groupStatsDTO {
	return groupStatsDTO{
		TotalSpent:    s.TotalSpent,
		PendingCount:  s.PendingCount,
		SettledCount:  s.SettledCount,
		PendingAmount: s.PendingAmount,
	}
}
