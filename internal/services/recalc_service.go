package services

import (
	"context"
	"errors"
	"time"

	"github.com/Avo5/BMIcal-main/internal/metrics"
	"github.com/Avo5/BMIcal-main/internal/models"
	"github.com/Avo5/BMIcal-main/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// recalcStore is the data access the recalculation pass needs. All calls made
// during one pass run against the same transaction.
type recalcStore interface {
	GetProfile(ctx context.Context, userID int64) (*models.Profile, error)
	ListByUserDateAsc(ctx context.Context, userID int64) ([]models.BodyRecord, error)
	UpdateMetrics(ctx context.Context, recordID int64, bmr, tdee *float64, updatedAt time.Time) (int64, error)
	ClearMetricsForUser(ctx context.Context, userID int64, updatedAt time.Time) (int64, error)
}

// txStore combines the two repositories a recalculation transaction rebinds.
type txStore struct {
	*repository.UserRepository
	*repository.BodyRecordRepository
}

// RecalcService re-derives bmr/tdee for a user's whole record history after a
// profile change.
type RecalcService struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewRecalcService(db *pgxpool.Pool) *RecalcService {
	return &RecalcService{db: db, now: time.Now}
}

// RecalculateForUser runs one all-or-nothing pass over the user's records and
// returns the number of rows touched. An advisory lock on the user id
// serializes the pass against concurrent record edits for the same user;
// different users never contend.
func (s *RecalcService) RecalculateForUser(ctx context.Context, userID int64) (int64, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", userID); err != nil {
		return 0, err
	}

	store := txStore{
		UserRepository:       repository.NewUserRepository(tx),
		BodyRecordRepository: repository.NewBodyRecordRepository(tx),
	}
	updated, err := recalculate(ctx, store, userID, s.now().UTC())
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return updated, nil
}

// recalculate holds the actual pass, separated from the transaction plumbing.
// With both sex and birth date set, every record gets fresh bmr/tdee computed
// with age as of that record's own date. Otherwise every record's bmr/tdee is
// cleared in bulk.
func recalculate(ctx context.Context, store recalcStore, userID int64, now time.Time) (int64, error) {
	profile, err := store.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	mp := metricsProfile(profile)
	if !mp.CanDeriveEnergy() {
		return store.ClearMetricsForUser(ctx, userID, now)
	}

	records, err := store.ListByUserDateAsc(ctx, userID)
	if err != nil {
		return 0, err
	}

	var updated int64
	for _, rec := range records {
		bmr, tdee := metrics.EnergyMetrics(mp, rec.WeightKg, rec.HeightCm, rec.RecordDate)
		n, err := store.UpdateMetrics(ctx, rec.ID, bmr, tdee, now)
		if err != nil {
			return 0, err
		}
		updated += n
	}
	return updated, nil
}
