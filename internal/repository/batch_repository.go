package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dinacademy/batch-scheduler-api/internal/models"
)

// BatchRepository provides persistence for batches.
type BatchRepository struct {
	db *sqlx.DB
}

// NewBatchRepository creates a new batch repository.
func NewBatchRepository(db *sqlx.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

const batchDetailColumns = `b.id, b.course_id, b.timeframe_id, b.room_id, b.batch_number,
	b.days, b.teacher_ids, b.active, b.created_at, b.updated_at,
	c.name AS course_name, t.label AS timeframe_label, r.room_number`

const batchDetailJoins = `FROM batches b
	JOIN courses c ON b.course_id = c.id
	JOIN timeframes t ON b.timeframe_id = t.id
	JOIN rooms r ON b.room_id = r.id`

// ListDetails returns every batch with resolved display fields, ordered by
// course name then batch number.
func (r *BatchRepository) ListDetails(ctx context.Context) ([]models.BatchDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s ORDER BY c.name, b.batch_number, b.id`, batchDetailColumns, batchDetailJoins)
	batches := []models.BatchDetail{}
	if err := r.db.SelectContext(ctx, &batches, query); err != nil {
		return nil, fmt.Errorf("list batch details: %w", err)
	}
	return batches, nil
}

// FindByID loads a raw batch by id.
func (r *BatchRepository) FindByID(ctx context.Context, id int64) (*models.Batch, error) {
	const query = `SELECT id, course_id, timeframe_id, room_id, batch_number, days, teacher_ids, active, created_at, updated_at FROM batches WHERE id = $1`
	var batch models.Batch
	if err := r.db.GetContext(ctx, &batch, query, id); err != nil {
		return nil, err
	}
	return &batch, nil
}

// FindDetailByID loads a batch with resolved display fields.
func (r *BatchRepository) FindDetailByID(ctx context.Context, id int64) (*models.BatchDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE b.id = $1`, batchDetailColumns, batchDetailJoins)
	var batch models.BatchDetail
	if err := r.db.GetContext(ctx, &batch, query, id); err != nil {
		return nil, err
	}
	return &batch, nil
}

// ExistsByCourseAndNumber checks batch number uniqueness within a course.
func (r *BatchRepository) ExistsByCourseAndNumber(ctx context.Context, courseID int64, number string, excludeID int64) (bool, error) {
	query := `SELECT 1 FROM batches WHERE course_id = $1 AND batch_number = $2`
	args := []interface{}{courseID, number}
	if excludeID != 0 {
		query += ` AND id <> $3`
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+` LIMIT 1`, args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check batch number: %w", err)
	}
	return true, nil
}

// ListActiveSlots returns the active batches assigning the teacher on the day,
// with their timeframes resolved, ordered by batch id ascending so conflict
// reporting is deterministic. Membership is exact array containment.
func (r *BatchRepository) ListActiveSlots(ctx context.Context, teacherID int64, day string, excludeID int64) ([]models.BatchSlot, error) {
	query := `SELECT b.id, t.label AS timeframe_label, t.start_time, t.end_time
		FROM batches b
		JOIN timeframes t ON b.timeframe_id = t.id
		WHERE b.active AND $1 = ANY(b.teacher_ids) AND $2 = ANY(b.days)`
	args := []interface{}{teacherID, day}
	if excludeID != 0 {
		query += ` AND b.id <> $3`
		args = append(args, excludeID)
	}
	query += ` ORDER BY b.id`

	slots := []models.BatchSlot{}
	if err := r.db.SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, fmt.Errorf("list active slots: %w", err)
	}
	return slots, nil
}

// ListActiveForSlot returns the active batches occupying a day + timeframe,
// with display fields resolved, for the availability dashboard.
func (r *BatchRepository) ListActiveForSlot(ctx context.Context, day string, timeframeID int64) ([]models.BatchDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE b.active AND b.timeframe_id = $1 AND $2 = ANY(b.days) ORDER BY b.id`, batchDetailColumns, batchDetailJoins)
	batches := []models.BatchDetail{}
	if err := r.db.SelectContext(ctx, &batches, query, timeframeID, day); err != nil {
		return nil, fmt.Errorf("list batches for slot: %w", err)
	}
	return batches, nil
}

// CountByTimeframe counts batches (active or not) referencing a timeframe.
func (r *BatchRepository) CountByTimeframe(ctx context.Context, timeframeID int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM batches WHERE timeframe_id = $1`, timeframeID); err != nil {
		return 0, fmt.Errorf("count batches by timeframe: %w", err)
	}
	return count, nil
}

// CountByRoom counts batches (active or not) referencing a room.
func (r *BatchRepository) CountByRoom(ctx context.Context, roomID int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM batches WHERE room_id = $1`, roomID); err != nil {
		return 0, fmt.Errorf("count batches by room: %w", err)
	}
	return count, nil
}

// Create stores a new batch record.
func (r *BatchRepository) Create(ctx context.Context, batch *models.Batch) error {
	now := time.Now().UTC()
	batch.CreatedAt = now
	batch.UpdatedAt = now

	const query = `INSERT INTO batches (course_id, timeframe_id, room_id, batch_number, days, teacher_ids, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query,
		batch.CourseID, batch.TimeframeID, batch.RoomID, batch.BatchNumber,
		batch.Days, batch.TeacherIDs, batch.Active, batch.CreatedAt, batch.UpdatedAt,
	).Scan(&batch.ID)
	if err != nil {
		return fmt.Errorf("create batch: %w", translateUniqueViolation(err))
	}
	return nil
}

// Update overwrites a batch record in place.
func (r *BatchRepository) Update(ctx context.Context, batch *models.Batch) error {
	batch.UpdatedAt = time.Now().UTC()
	const query = `UPDATE batches SET course_id = $2, timeframe_id = $3, room_id = $4, batch_number = $5,
		days = $6, teacher_ids = $7, active = $8, updated_at = $9 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query,
		batch.ID, batch.CourseID, batch.TimeframeID, batch.RoomID, batch.BatchNumber,
		batch.Days, batch.TeacherIDs, batch.Active, batch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update batch: %w", translateUniqueViolation(err))
	}
	return nil
}

// Delete removes a batch by id.
func (r *BatchRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM batches WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	return nil
}
