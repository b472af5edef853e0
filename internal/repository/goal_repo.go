package repository

import (
	"context"

	"github.com/Avo5/BMIcal-main/internal/models"
	"github.com/jackc/pgx/v5"
)

type GoalRepository struct {
	db DBTX
}

func NewGoalRepository(db DBTX) *GoalRepository {
	return &GoalRepository{db: db}
}

const goalColumns = `user_id, target_weight_kg, target_bmi, target_bmr, target_tdee, created_at, updated_at`

func scanGoal(row pgx.Row) (*models.Goal, error) {
	var goal models.Goal
	err := row.Scan(
		&goal.UserID,
		&goal.TargetWeightKg,
		&goal.TargetBMI,
		&goal.TargetBMR,
		&goal.TargetTDEE,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *GoalRepository) GetByUserID(ctx context.Context, userID int64) (*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = $1`
	return scanGoal(r.db.QueryRow(ctx, query, userID))
}

type UpsertGoalInput struct {
	TargetWeightKg *float64
	TargetBMI      *float64
	TargetBMR      *float64
	TargetTDEE     *float64
}

// Upsert writes the single goal row for a user, creating it on first save.
func (r *GoalRepository) Upsert(ctx context.Context, userID int64, input UpsertGoalInput) (*models.Goal, error) {
	query := `
		INSERT INTO goals (user_id, target_weight_kg, target_bmi, target_bmr, target_tdee)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET target_weight_kg = EXCLUDED.target_weight_kg,
			target_bmi = EXCLUDED.target_bmi,
			target_bmr = EXCLUDED.target_bmr,
			target_tdee = EXCLUDED.target_tdee,
			updated_at = NOW()
		RETURNING ` + goalColumns
	return scanGoal(r.db.QueryRow(ctx, query,
		userID,
		input.TargetWeightKg,
		input.TargetBMI,
		input.TargetBMR,
		input.TargetTDEE,
	))
}
