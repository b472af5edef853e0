package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Avo5/BMIcal-main/internal/metrics"
	"github.com/Avo5/BMIcal-main/internal/models"
	"github.com/Avo5/BMIcal-main/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type stubRecordManager struct {
	createResult *models.BodyRecord
	createErr    error
	updateResult *models.BodyRecord
	updateErr    error
	deleteErr    error
	listResult   []models.BodyRecord
	listErr      error
	exportResult []models.BodyRecord
	exportErr    error

	lastUserID   int64
	lastRecordID int64
	lastInput    services.SaveRecordInput
}

func (s *stubRecordManager) CreateRecord(_ context.Context, userID int64, input services.SaveRecordInput) (*models.BodyRecord, error) {
	s.lastUserID = userID
	s.lastInput = input
	return s.createResult, s.createErr
}

func (s *stubRecordManager) UpdateRecord(_ context.Context, userID, recordID int64, input services.SaveRecordInput) (*models.BodyRecord, error) {
	s.lastUserID = userID
	s.lastRecordID = recordID
	s.lastInput = input
	return s.updateResult, s.updateErr
}

func (s *stubRecordManager) DeleteRecord(_ context.Context, userID, recordID int64) error {
	s.lastUserID = userID
	s.lastRecordID = recordID
	return s.deleteErr
}

func (s *stubRecordManager) ListRecords(_ context.Context, userID int64) ([]models.BodyRecord, error) {
	s.lastUserID = userID
	return s.listResult, s.listErr
}

func (s *stubRecordManager) ListRecordsChronological(_ context.Context, userID int64) ([]models.BodyRecord, error) {
	s.lastUserID = userID
	return s.exportResult, s.exportErr
}

func recordTestApp(service recordManager) *fiber.App {
	handler := NewRecordHandler(service)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "42")
		return c.Next()
	})
	app.Get("/api/v1/records", handler.ListRecords)
	app.Post("/api/v1/records", handler.CreateRecord)
	app.Get("/api/v1/records/export", handler.ExportRecords)
	app.Put("/api/v1/records/:id", handler.UpdateRecord)
	app.Delete("/api/v1/records/:id", handler.DeleteRecord)
	return app
}

func TestCreateRecordReturnsCreated(t *testing.T) {
	bmi := 22.86
	service := &stubRecordManager{
		createResult: &models.BodyRecord{ID: 7, UserID: 42, WeightKg: 70, HeightCm: 175, BMI: &bmi},
	}
	app := recordTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/records", strings.NewReader(`{
		"record_date": "2025-06-01",
		"height_cm": 175,
		"weight_kg": 70,
		"memo": "morning"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastUserID != 42 {
		t.Fatalf("expected user id 42, got %d", service.lastUserID)
	}
	if service.lastInput.WeightKg != 70 {
		t.Fatalf("expected weight 70, got %v", service.lastInput.WeightKg)
	}
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if !service.lastInput.RecordDate.Equal(want) {
		t.Fatalf("expected record date %v, got %v", want, service.lastInput.RecordDate)
	}
	if service.lastInput.Memo == nil || *service.lastInput.Memo != "morning" {
		t.Fatalf("expected memo to be passed through")
	}
}

func TestCreateRecordRejectsMissingFields(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing date", `{"weight_kg": 70}`},
		{"bad date", `{"record_date": "06/01/2025", "weight_kg": 70}`},
		{"missing weight", `{"record_date": "2025-06-01"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := &stubRecordManager{}
			app := recordTestApp(service)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/records", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			if service.lastUserID != 0 {
				t.Fatalf("service should not be called for invalid input")
			}
		})
	}
}

func TestCreateRecordMapsRangeErrorTo400(t *testing.T) {
	service := &stubRecordManager{
		createErr: fmt.Errorf("weight_kg must be greater than 0 and at most 1000: %w", metrics.ErrInvalidInput),
	}
	app := recordTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/records", strings.NewReader(`{
		"record_date": "2025-06-01",
		"weight_kg": 1500
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestUpdateRecordReturnsNotFoundForForeignRecord(t *testing.T) {
	service := &stubRecordManager{updateErr: pgx.ErrNoRows}
	app := recordTestApp(service)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/records/999", strings.NewReader(`{
		"record_date": "2025-06-01",
		"weight_kg": 70
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if service.lastRecordID != 999 {
		t.Fatalf("expected record id 999, got %d", service.lastRecordID)
	}
}

func TestDeleteRecordReturnsNoContent(t *testing.T) {
	service := &stubRecordManager{}
	app := recordTestApp(service)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/records/7", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if service.lastRecordID != 7 {
		t.Fatalf("expected record id 7, got %d", service.lastRecordID)
	}
}

func TestListRecordsReturnsEmptyArrayNotNull(t *testing.T) {
	service := &stubRecordManager{}
	app := recordTestApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Records []models.BodyRecord `json:"records"`
	}
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(string(raw), `"records":[]`) {
		t.Fatalf("expected empty array in body, got %s", raw)
	}
}

func TestExportRecordsWritesCSVWithBOM(t *testing.T) {
	bmi := 22.86
	bmr := 1648.75
	tdee := 2555.56
	memo := "after run"
	service := &stubRecordManager{
		exportResult: []models.BodyRecord{
			{
				ID:         1,
				UserID:     42,
				RecordDate: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
				HeightCm:   175,
				WeightKg:   70,
				Memo:       &memo,
				BMI:        &bmi,
				BMR:        &bmr,
				TDEE:       &tdee,
				CreatedAt:  time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC),
			},
			{
				ID:         2,
				UserID:     42,
				RecordDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
				HeightCm:   175,
				WeightKg:   69.5,
				CreatedAt:  time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
			},
		},
	}
	app := recordTestApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records/export", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("expected text/csv content type, got %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "records_user_42_") {
		t.Fatalf("unexpected content disposition %q", cd)
	}

	raw, _ := io.ReadAll(resp.Body)
	body := string(raw)
	if !strings.HasPrefix(body, "\uFEFF") {
		t.Fatalf("expected UTF-8 BOM prefix")
	}
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(body, "\uFEFF")), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "record_date,height_cm,weight_kg,bmi,bmr,tdee,memo,created_at" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2025-05-01,175,70,22.86,1648.75,2555.56,after run,") {
		t.Fatalf("unexpected first row %q", lines[1])
	}
	// NULL metrics export as empty cells.
	if !strings.HasPrefix(lines[2], "2025-06-01,175,69.5,,,,,") {
		t.Fatalf("unexpected second row %q", lines[2])
	}
}

func TestRecordEndpointsRejectMissingUser(t *testing.T) {
	service := &stubRecordManager{}
	handler := NewRecordHandler(service)

	app := fiber.New()
	app.Get("/api/v1/records", handler.ListRecords)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
