package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Avo5/BMIcal-main/internal/metrics"
	"github.com/Avo5/BMIcal-main/internal/models"
	"github.com/Avo5/BMIcal-main/internal/repository"
	"github.com/jackc/pgx/v5"
)

const (
	maxRecordHeightCm = 300.0
	maxRecordWeightKg = 1000.0
)

type recordStore interface {
	Create(ctx context.Context, input repository.CreateBodyRecordInput) (*models.BodyRecord, error)
	Update(ctx context.Context, id, userID int64, input repository.UpdateBodyRecordInput) (*models.BodyRecord, error)
	Delete(ctx context.Context, id, userID int64) error
	ListByUserDateDesc(ctx context.Context, userID int64) ([]models.BodyRecord, error)
	ListByUserDateAsc(ctx context.Context, userID int64) ([]models.BodyRecord, error)
}

type RecordService struct {
	userRepo   profileReader
	recordRepo recordStore
}

func NewRecordService(userRepo profileReader, recordRepo recordStore) *RecordService {
	return &RecordService{userRepo: userRepo, recordRepo: recordRepo}
}

type SaveRecordInput struct {
	RecordDate time.Time
	HeightCm   *float64
	WeightKg   float64
	Memo       *string
}

// derivedRecord is a record input with its server-computed metric fields.
type derivedRecord struct {
	heightCm float64
	bmi      *float64
	bmr      *float64
	tdee     *float64
}

// derive resolves the effective height (falling back to the profile height
// when the request omits one), validates the measurement ranges, and computes
// BMI plus BMR/TDEE. Energy metrics use the record's own date for age and are
// nil when the profile lacks sex or birth date.
func (s *RecordService) derive(ctx context.Context, userID int64, input SaveRecordInput) (*derivedRecord, error) {
	profile, err := s.userRepo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	heightCm := 0.0
	switch {
	case input.HeightCm != nil:
		heightCm = *input.HeightCm
	case profile.HeightCm != nil:
		heightCm = *profile.HeightCm
	default:
		return nil, fmt.Errorf("%w: height_cm is required when the profile has no height", metrics.ErrInvalidInput)
	}

	if heightCm <= 0 || heightCm > maxRecordHeightCm {
		return nil, fmt.Errorf("%w: height_cm must be greater than 0 and at most %.0f",
			metrics.ErrInvalidInput, maxRecordHeightCm)
	}
	if input.WeightKg <= 0 || input.WeightKg > maxRecordWeightKg {
		return nil, fmt.Errorf("%w: weight_kg must be greater than 0 and at most %.0f",
			metrics.ErrInvalidInput, maxRecordWeightKg)
	}

	bmi, err := metrics.BMI(input.WeightKg, heightCm)
	if err != nil {
		return nil, err
	}
	bmr, tdee := metrics.EnergyMetrics(metricsProfile(profile), input.WeightKg, heightCm, input.RecordDate)

	return &derivedRecord{heightCm: heightCm, bmi: &bmi, bmr: bmr, tdee: tdee}, nil
}

func (s *RecordService) CreateRecord(ctx context.Context, userID int64, input SaveRecordInput) (*models.BodyRecord, error) {
	derived, err := s.derive(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	return s.recordRepo.Create(ctx, repository.CreateBodyRecordInput{
		UserID:     userID,
		RecordDate: input.RecordDate,
		HeightCm:   derived.heightCm,
		WeightKg:   input.WeightKg,
		Memo:       input.Memo,
		BMI:        derived.bmi,
		BMR:        derived.bmr,
		TDEE:       derived.tdee,
	})
}

func (s *RecordService) UpdateRecord(ctx context.Context, userID, recordID int64, input SaveRecordInput) (*models.BodyRecord, error) {
	derived, err := s.derive(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	return s.recordRepo.Update(ctx, recordID, userID, repository.UpdateBodyRecordInput{
		RecordDate: input.RecordDate,
		HeightCm:   derived.heightCm,
		WeightKg:   input.WeightKg,
		Memo:       input.Memo,
		BMI:        derived.bmi,
		BMR:        derived.bmr,
		TDEE:       derived.tdee,
	})
}

func (s *RecordService) DeleteRecord(ctx context.Context, userID, recordID int64) error {
	return s.recordRepo.Delete(ctx, recordID, userID)
}

func (s *RecordService) ListRecords(ctx context.Context, userID int64) ([]models.BodyRecord, error) {
	return s.recordRepo.ListByUserDateDesc(ctx, userID)
}

// ListRecordsChronological returns the export ordering, oldest first.
func (s *RecordService) ListRecordsChronological(ctx context.Context, userID int64) ([]models.BodyRecord, error) {
	return s.recordRepo.ListByUserDateAsc(ctx, userID)
}
