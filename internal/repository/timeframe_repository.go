package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dinacademy/batch-scheduler-api/internal/models"
)

// TimeframeRepository manages persistence for timeframes.
type TimeframeRepository struct {
	db *sqlx.DB
}

// NewTimeframeRepository constructs a TimeframeRepository.
func NewTimeframeRepository(db *sqlx.DB) *TimeframeRepository {
	return &TimeframeRepository{db: db}
}

// ListAll returns every timeframe ordered by start time.
func (r *TimeframeRepository) ListAll(ctx context.Context) ([]models.Timeframe, error) {
	const query = `SELECT id, label, start_time, end_time FROM timeframes ORDER BY start_time, end_time, id`
	timeframes := []models.Timeframe{}
	if err := r.db.SelectContext(ctx, &timeframes, query); err != nil {
		return nil, fmt.Errorf("list timeframes: %w", err)
	}
	return timeframes, nil
}

// FindByID fetches a timeframe by id.
func (r *TimeframeRepository) FindByID(ctx context.Context, id int64) (*models.Timeframe, error) {
	const query = `SELECT id, label, start_time, end_time FROM timeframes WHERE id = $1`
	var timeframe models.Timeframe
	if err := r.db.GetContext(ctx, &timeframe, query, id); err != nil {
		return nil, err
	}
	return &timeframe, nil
}

// ExistsByTimes checks the (start, end) uniqueness invariant.
func (r *TimeframeRepository) ExistsByTimes(ctx context.Context, start, end string) (bool, error) {
	const query = `SELECT 1 FROM timeframes WHERE start_time = $1 AND end_time = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, start, end); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check timeframe times: %w", err)
	}
	return true, nil
}

// Create inserts a new timeframe record.
func (r *TimeframeRepository) Create(ctx context.Context, timeframe *models.Timeframe) error {
	const query = `INSERT INTO timeframes (label, start_time, end_time) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, timeframe.Label, timeframe.StartTime, timeframe.EndTime).Scan(&timeframe.ID); err != nil {
		return fmt.Errorf("create timeframe: %w", translateUniqueViolation(err))
	}
	return nil
}

// Delete removes a timeframe. Callers must verify no batch references it.
func (r *TimeframeRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM timeframes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete timeframe: %w", err)
	}
	return nil
}
