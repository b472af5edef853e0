package repository

import (
	"context"
	"time"

	"github.com/Avo5/BMIcal-main/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so the same repository
// can run standalone or inside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, password_hash, birth_date, sex, height_cm, activity_level, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.BirthDate,
		&user.Sex,
		&user.HeightCm,
		&user.ActivityLevel,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, username, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, username, passwordHash))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.QueryRow(ctx, query, username))
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// GetProfile returns only the fields metric computation needs.
func (r *UserRepository) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	query := `
		SELECT id, birth_date, sex, height_cm, activity_level
		FROM users
		WHERE id = $1
	`
	var profile models.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.BirthDate,
		&profile.Sex,
		&profile.HeightCm,
		&profile.ActivityLevel,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

type UpdateProfileInput struct {
	BirthDate     *time.Time
	Sex           *string
	HeightCm      *float64
	ActivityLevel *string
}

// UpdateProfile replaces all four profile fields. Nil inputs clear the
// corresponding columns; the profile handler relies on that so a cleared sex
// or birth date cascades into NULLed record metrics.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, input UpdateProfileInput) (*models.User, error) {
	query := `
		UPDATE users
		SET birth_date = $1,
			sex = $2,
			height_cm = $3,
			activity_level = $4,
			updated_at = NOW()
		WHERE id = $5
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query,
		input.BirthDate,
		input.Sex,
		input.HeightCm,
		input.ActivityLevel,
		userID,
	))
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $1, updated_at = NOW()
		WHERE id = $2
	`
	tag, err := r.db.Exec(ctx, query, passwordHash, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
