package server

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/Dhruv1249/expense-server/internal/calculator"
	"github.com/Dhruv1249/expense-server/internal/models"
	"github.com/Dhruv1249/expense-server/internal/service"
)

type splitInput struct {
	UserID     string          `json:"userId"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

type addExpenseRequest struct {
	GroupID     string           `json:"groupId"`
	Description string           `json:"description"`
	Amount      decimal.Decimal  `json:"amount"`
	SplitType   models.SplitType `json:"splitType"`
	SplitData   []splitInput     `json:"splitData"`
}

func (s *Server) handleAddExpense(c *fiber.Ctx) error {
	var req addExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	splitData := make([]calculator.SplitInput, len(req.SplitData))
	for i, in := range req.SplitData {
		splitData[i] = calculator.SplitInput{
			UserID:     in.UserID,
			Amount:     in.Amount,
			Percentage: in.Percentage,
		}
	}

	expense, err := s.expenses.AddExpense(c.Context(), service.AddExpenseInput{
		GroupID:     req.GroupID,
		ActorID:     actor(c),
		Description: req.Description,
		Amount:      req.Amount,
		SplitType:   req.SplitType,
		SplitData:   splitData,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(toExpenseDTO(expense))
}

type settleExpenseRequest struct {
	UserID string `json:"userId"`
}

func (s *Server) handleSettleExpense(c *fiber.Ctx) error {
	var req settleExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.UserID == "" {
		return badRequest(c, "userId is required")
	}

	expense, err := s.expenses.SettleExpense(c.Context(), c.Params("id"), req.UserID, actor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(toExpenseDTO(expense))
}

func (s *Server) handleSettleGroup(c *fiber.Ctx) error {
	updated, err := s.expenses.SettleGroup(c.Context(), c.Params("id"), actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"settledSplits": updated})
}

func (s *Server) handleListExpenses(c *fiber.Ctx) error {
	pageNum, pageSize := page(c)

	result, err := s.expenses.GetGroupExpenses(c.Context(), c.Params("id"), pageNum, pageSize)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(toExpensePageDTO(result))
}

func (s *Server) handleUserStats(c *fiber.Ctx) error {
	stats, err := s.expenses.GetUserStats(c.Context(), actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toUserStatsDTO(stats))
}
