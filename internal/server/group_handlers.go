package server

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Dhruv1249/expense-server/internal/models"
	"github.com/Dhruv1249/expense-server/internal/service"
)

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Currency    string `json:"currency"`
}

func (s *Server) handleCreateGroup(c *fiber.Ctx) error {
	var req createGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	group, err := s.groups.CreateGroup(c.Context(), service.CreateGroupInput{
		Name:        req.Name,
		Description: req.Description,
		Currency:    req.Currency,
		CreatorID:   actor(c),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(toGroupDTO(group))
}

func (s *Server) handleListGroups(c *fiber.Ctx) error {
	pageNum, pageSize := page(c)

	result, err := s.groups.ListUserGroups(c.Context(), actor(c), pageNum, pageSize)
	if err != nil {
		return respondError(c, err)
	}

	summaries := make([]groupSummaryDTO, len(result.Groups))
	for i, summary := range result.Groups {
		summaries[i] = groupSummaryDTO{
			groupDTO:   toGroupDTO(summary.Group),
			TotalSpent: summary.TotalSpent,
		}
	}

	return c.JSON(fiber.Map{
		"groups":      summaries,
		"currentPage": result.CurrentPage,
		"totalPages":  result.TotalPages,
		"totalGroups": result.TotalGroups,
	})
}

func (s *Server) handleGetGroup(c *fiber.Ctx) error {
	group, err := s.groups.GetGroup(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toGroupDTO(group))
}

type updateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Currency    string `json:"currency"`
}

func (s *Server) handleUpdateGroup(c *fiber.Ctx) error {
	var req updateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	group, err := s.groups.UpdateGroup(c.Context(), service.UpdateGroupInput{
		GroupID:     c.Params("id"),
		ActorID:     actor(c),
		Name:        req.Name,
		Description: req.Description,
		Currency:    req.Currency,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(toGroupDTO(group))
}

func (s *Server) handleDeleteGroup(c *fiber.Ctx) error {
	if err := s.groups.DeleteGroup(c.Context(), c.Params("id"), actor(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

type addMembersRequest struct {
	Emails []string `json:"emails"`
}

func (s *Server) handleAddMembers(c *fiber.Ctx) error {
	var req addMembersRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := s.groups.AddMembers(c.Context(), c.Params("id"), actor(c), req.Emails)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"added":          result.Added,
		"notFound":       result.NotFound,
		"alreadyMembers": result.AlreadyMembers,
	})
}

func (s *Server) handleRemoveMember(c *fiber.Ctx) error {
	err := s.groups.RemoveMember(c.Context(), c.Params("id"), actor(c), c.Params("userId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

type updateRoleRequest struct {
	Role models.Role `json:"role"`
}

func (s *Server) handleUpdateMemberRole(c *fiber.Ctx) error {
	var req updateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	err := s.groups.UpdateMemberRole(c.Context(), c.Params("id"), actor(c), c.Params("userId"), req.Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (s *Server) handleGroupStats(c *fiber.Ctx) error {
	stats, err := s.expenses.GetGroupStats(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toGroupStatsDTO(stats))
}
