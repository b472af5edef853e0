package repository

import (
	"context"
	"time"

	"github.com/Avo5/BMIcal-main/internal/models"
	"github.com/jackc/pgx/v5"
)

type BodyRecordRepository struct {
	db DBTX
}

func NewBodyRecordRepository(db DBTX) *BodyRecordRepository {
	return &BodyRecordRepository{db: db}
}

const bodyRecordColumns = `id, user_id, record_date, height_cm, weight_kg, memo, bmi, bmr, tdee, created_at, updated_at`

func scanBodyRecord(row pgx.Row) (*models.BodyRecord, error) {
	var rec models.BodyRecord
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.RecordDate,
		&rec.HeightCm,
		&rec.WeightKg,
		&rec.Memo,
		&rec.BMI,
		&rec.BMR,
		&rec.TDEE,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

type CreateBodyRecordInput struct {
	UserID     int64
	RecordDate time.Time
	HeightCm   float64
	WeightKg   float64
	Memo       *string
	BMI        *float64
	BMR        *float64
	TDEE       *float64
}

func (r *BodyRecordRepository) Create(ctx context.Context, input CreateBodyRecordInput) (*models.BodyRecord, error) {
	query := `
		INSERT INTO body_records (user_id, record_date, height_cm, weight_kg, memo, bmi, bmr, tdee)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + bodyRecordColumns
	return scanBodyRecord(r.db.QueryRow(ctx, query,
		input.UserID,
		input.RecordDate,
		input.HeightCm,
		input.WeightKg,
		input.Memo,
		input.BMI,
		input.BMR,
		input.TDEE,
	))
}

type UpdateBodyRecordInput struct {
	RecordDate time.Time
	HeightCm   float64
	WeightKg   float64
	Memo       *string
	BMI        *float64
	BMR        *float64
	TDEE       *float64
}

// Update rewrites a record including its derived fields. Ownership is
// enforced by matching both id and user_id; a non-owned id reads as not found.
func (r *BodyRecordRepository) Update(ctx context.Context, id, userID int64, input UpdateBodyRecordInput) (*models.BodyRecord, error) {
	query := `
		UPDATE body_records
		SET record_date = $1,
			height_cm = $2,
			weight_kg = $3,
			memo = $4,
			bmi = $5,
			bmr = $6,
			tdee = $7,
			updated_at = NOW()
		WHERE id = $8 AND user_id = $9
		RETURNING ` + bodyRecordColumns
	return scanBodyRecord(r.db.QueryRow(ctx, query,
		input.RecordDate,
		input.HeightCm,
		input.WeightKg,
		input.Memo,
		input.BMI,
		input.BMR,
		input.TDEE,
		id,
		userID,
	))
}

func (r *BodyRecordRepository) GetByID(ctx context.Context, id, userID int64) (*models.BodyRecord, error) {
	query := `SELECT ` + bodyRecordColumns + ` FROM body_records WHERE id = $1 AND user_id = $2`
	return scanBodyRecord(r.db.QueryRow(ctx, query, id, userID))
}

func (r *BodyRecordRepository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM body_records WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListByUserDateDesc returns all records for a user, newest first.
func (r *BodyRecordRepository) ListByUserDateDesc(ctx context.Context, userID int64) ([]models.BodyRecord, error) {
	query := `
		SELECT ` + bodyRecordColumns + `
		FROM body_records
		WHERE user_id = $1
		ORDER BY record_date DESC, id DESC
	`
	return r.list(ctx, query, userID)
}

// ListByUserDateAsc returns all records for a user in chronological order,
// the order the recalculator and the CSV export walk them in.
func (r *BodyRecordRepository) ListByUserDateAsc(ctx context.Context, userID int64) ([]models.BodyRecord, error) {
	query := `
		SELECT ` + bodyRecordColumns + `
		FROM body_records
		WHERE user_id = $1
		ORDER BY record_date ASC, id ASC
	`
	return r.list(ctx, query, userID)
}

func (r *BodyRecordRepository) list(ctx context.Context, query string, userID int64) ([]models.BodyRecord, error) {
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.BodyRecord
	for rows.Next() {
		rec, err := scanBodyRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// UpdateMetrics overwrites the derived bmr/tdee of one record, returning the
// affected row count.
func (r *BodyRecordRepository) UpdateMetrics(ctx context.Context, recordID int64, bmr, tdee *float64, updatedAt time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE body_records SET bmr = $1, tdee = $2, updated_at = $3 WHERE id = $4`,
		bmr, tdee, updatedAt, recordID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ClearMetricsForUser NULLs bmr/tdee on every record the user owns in one
// statement, returning the affected row count.
func (r *BodyRecordRepository) ClearMetricsForUser(ctx context.Context, userID int64, updatedAt time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE body_records SET bmr = NULL, tdee = NULL, updated_at = $1 WHERE user_id = $2`,
		updatedAt, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
