package services

import (
	"context"
	"errors"
	"time"

	"github.com/Avo5/BMIcal-main/internal/metrics"
	"github.com/Avo5/BMIcal-main/internal/models"
	"github.com/Avo5/BMIcal-main/internal/repository"
	"github.com/jackc/pgx/v5"
)

var ErrUserNotFound = errors.New("user not found")

type profileReader interface {
	GetProfile(ctx context.Context, userID int64) (*models.Profile, error)
}

type goalStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Goal, error)
	Upsert(ctx context.Context, userID int64, input repository.UpsertGoalInput) (*models.Goal, error)
}

type GoalService struct {
	userRepo profileReader
	goalRepo goalStore
	now      func() time.Time
}

func NewGoalService(userRepo profileReader, goalRepo goalStore) *GoalService {
	return &GoalService{
		userRepo: userRepo,
		goalRepo: goalRepo,
		now:      time.Now,
	}
}

func (s *GoalService) GetGoal(ctx context.Context, userID int64) (*models.Goal, error) {
	return s.goalRepo.GetByUserID(ctx, userID)
}

type SaveGoalInput struct {
	EditField string
	Value     float64
}

// SaveGoal derives goal values from the single edited field and upserts the
// user's goal row. Fields the profile cannot support keep their previously
// stored values. Any out-of-range value rejects the whole save; nothing is
// persisted partially.
func (s *GoalService) SaveGoal(ctx context.Context, userID int64, input SaveGoalInput) (*models.Goal, error) {
	field, err := metrics.ParseEditField(input.EditField)
	if err != nil {
		return nil, err
	}

	profile, err := s.userRepo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	targets, err := metrics.SolveGoal(metricsProfile(profile), field, input.Value, s.now())
	if err != nil {
		return nil, err
	}

	existing, err := s.goalRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	merged := mergeTargets(existing, targets)

	if err := merged.Validate(); err != nil {
		return nil, err
	}

	return s.goalRepo.Upsert(ctx, userID, repository.UpsertGoalInput{
		TargetWeightKg: merged.WeightKg,
		TargetBMI:      merged.BMI,
		TargetBMR:      merged.BMR,
		TargetTDEE:     merged.TDEE,
	})
}

// mergeTargets lays the solved fields over the stored goal, so fields the
// solver could not derive survive a save instead of getting nulled.
func mergeTargets(existing *models.Goal, solved metrics.GoalTargets) metrics.GoalTargets {
	merged := solved
	if existing == nil {
		return merged
	}
	if merged.WeightKg == nil {
		merged.WeightKg = existing.TargetWeightKg
	}
	if merged.BMI == nil {
		merged.BMI = existing.TargetBMI
	}
	if merged.BMR == nil {
		merged.BMR = existing.TargetBMR
	}
	if merged.TDEE == nil {
		merged.TDEE = existing.TargetTDEE
	}
	return merged
}

// metricsProfile converts a stored profile row into the shape the formula
// package takes.
func metricsProfile(p *models.Profile) metrics.Profile {
	var mp metrics.Profile
	if p.Sex != nil {
		sex := metrics.Sex(*p.Sex)
		mp.Sex = &sex
	}
	mp.BirthDate = p.BirthDate
	mp.HeightCm = p.HeightCm
	if p.ActivityLevel != nil {
		mp.ActivityLevel = *p.ActivityLevel
	}
	return mp
}
