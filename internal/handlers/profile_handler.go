package handlers

import (
	"context"
	"errors"

	"github.com/Avo5/BMIcal-main/internal/models"
	"github.com/Avo5/BMIcal-main/internal/repository"
	"github.com/Avo5/BMIcal-main/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

// profileStore is the slice of UserRepository the profile handler needs.
type profileStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, input repository.UpdateProfileInput) (*models.User, error)
}

// recordRecalculator recomputes stored metrics after a profile change.
type recordRecalculator interface {
	RecalculateForUser(ctx context.Context, userID int64) (int64, error)
}

type ProfileHandler struct {
	userRepo profileStore
	recalc   recordRecalculator
}

func NewProfileHandler(userRepo profileStore, recalc recordRecalculator) *ProfileHandler {
	return &ProfileHandler{userRepo: userRepo, recalc: recalc}
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	user, err := h.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}

	return c.JSON(fiber.Map{"user": user})
}

// UpdateProfile replaces the whole profile and recalculates every stored
// record under the new attributes. Omitted fields are cleared, not kept.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if msg := validateProfileRequest(req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	input := repository.UpdateProfileInput{
		Sex:           req.Sex,
		HeightCm:      req.HeightCm,
		ActivityLevel: req.ActivityLevel,
	}
	if req.BirthDate != nil {
		birth, _ := parseDate(*req.BirthDate)
		input.BirthDate = &birth
	}

	user, err := h.userRepo.UpdateProfile(c.Context(), userID, input)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	recalculated, err := h.recalc.RecalculateForUser(c.Context(), userID)
	if err != nil && !errors.Is(err, services.ErrUserNotFound) {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Profile saved but record recalculation failed"})
	}

	return c.JSON(fiber.Map{
		"user":                 user,
		"records_recalculated": recalculated,
	})
}
