package handlers

import (
	"context"
	"errors"

	"github.com/Avo5/BMIcal-main/internal/metrics"
	"github.com/Avo5/BMIcal-main/internal/models"
	"github.com/Avo5/BMIcal-main/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type goalManager interface {
	GetGoal(ctx context.Context, userID int64) (*models.Goal, error)
	SaveGoal(ctx context.Context, userID int64, input services.SaveGoalInput) (*models.Goal, error)
}

type GoalHandler struct {
	goals goalManager
}

func NewGoalHandler(goals goalManager) *GoalHandler {
	return &GoalHandler{goals: goals}
}

func (h *GoalHandler) GetGoal(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	goal, err := h.goals.GetGoal(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No goal set"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch goal"})
	}

	return c.JSON(fiber.Map{"goal": goal})
}

type saveGoalRequest struct {
	EditField string   `json:"edit_field"`
	Value     *float64 `json:"value"`
}

func (h *GoalHandler) SaveGoal(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req saveGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Value == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "value is required"})
	}

	goal, err := h.goals.SaveGoal(c.Context(), userID, services.SaveGoalInput{
		EditField: req.EditField,
		Value:     *req.Value,
	})
	if err != nil {
		switch {
		case errors.Is(err, metrics.ErrOutOfRange), errors.Is(err, metrics.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save goal"})
		}
	}

	return c.JSON(fiber.Map{"goal": goal})
}
