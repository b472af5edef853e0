package handlers

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Avo5/BMIcal-main/internal/metrics"
	"github.com/Avo5/BMIcal-main/internal/models"
	"github.com/Avo5/BMIcal-main/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

// recordManager covers the record operations the HTTP layer exposes.
type recordManager interface {
	CreateRecord(ctx context.Context, userID int64, input services.SaveRecordInput) (*models.BodyRecord, error)
	UpdateRecord(ctx context.Context, userID, recordID int64, input services.SaveRecordInput) (*models.BodyRecord, error)
	DeleteRecord(ctx context.Context, userID, recordID int64) error
	ListRecords(ctx context.Context, userID int64) ([]models.BodyRecord, error)
	ListRecordsChronological(ctx context.Context, userID int64) ([]models.BodyRecord, error)
}

type RecordHandler struct {
	records recordManager
}

func NewRecordHandler(records recordManager) *RecordHandler {
	return &RecordHandler{records: records}
}

func (h *RecordHandler) ListRecords(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	records, err := h.records.ListRecords(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch records"})
	}
	if records == nil {
		records = []models.BodyRecord{}
	}

	return c.JSON(fiber.Map{"records": records})
}

func (h *RecordHandler) CreateRecord(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	input, msg := parseRecordBody(c)
	if msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	record, err := h.records.CreateRecord(c.Context(), userID, input)
	if err != nil {
		return recordErrorResponse(c, err, "Failed to create record")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"record": record})
}

func (h *RecordHandler) UpdateRecord(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	recordID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record id"})
	}

	input, msg := parseRecordBody(c)
	if msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	record, err := h.records.UpdateRecord(c.Context(), userID, int64(recordID), input)
	if err != nil {
		return recordErrorResponse(c, err, "Failed to update record")
	}

	return c.JSON(fiber.Map{"record": record})
}

func (h *RecordHandler) DeleteRecord(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	recordID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record id"})
	}

	if err := h.records.DeleteRecord(c.Context(), userID, int64(recordID)); err != nil {
		return recordErrorResponse(c, err, "Failed to delete record")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ExportRecords streams the user's full history as CSV, oldest record first.
// The leading byte order mark keeps spreadsheet imports from mangling memos.
func (h *RecordHandler) ExportRecords(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	records, err := h.records.ListRecordsChronological(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch records"})
	}

	var buf bytes.Buffer
	buf.WriteString("\uFEFF")
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"record_date", "height_cm", "weight_kg", "bmi", "bmr", "tdee", "memo", "created_at"})
	for _, rec := range records {
		memo := ""
		if rec.Memo != nil {
			memo = *rec.Memo
		}
		_ = w.Write([]string{
			rec.RecordDate.Format("2006-01-02"),
			csvFloat(&rec.HeightCm),
			csvFloat(&rec.WeightKg),
			csvFloat(rec.BMI),
			csvFloat(rec.BMR),
			csvFloat(rec.TDEE),
			memo,
			rec.CreatedAt.Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build export"})
	}

	filename := fmt.Sprintf("records_user_%d_%d.csv", userID, time.Now().Unix())
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(buf.Bytes())
}

func csvFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// parseRecordBody validates the request body and returns an error message for
// the client when it is not usable.
func parseRecordBody(c *fiber.Ctx) (services.SaveRecordInput, string) {
	var req recordRequest
	if err := c.BodyParser(&req); err != nil {
		return services.SaveRecordInput{}, "Invalid request body"
	}
	if msg := validateRecordRequest(req); msg != "" {
		return services.SaveRecordInput{}, msg
	}

	recordDate, _ := parseDate(req.RecordDate)
	return services.SaveRecordInput{
		RecordDate: recordDate,
		HeightCm:   req.HeightCm,
		WeightKg:   *req.WeightKg,
		Memo:       req.Memo,
	}, ""
}

func recordErrorResponse(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, metrics.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrUserNotFound), errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Record not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fallback})
	}
}
