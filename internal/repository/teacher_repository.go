package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/dinacademy/batch-scheduler-api/internal/models"
)

// TeacherRepository manages persistence for teachers.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// ListAll returns every teacher ordered alphabetically by name.
func (r *TeacherRepository) ListAll(ctx context.Context) ([]models.Teacher, error) {
	const query = `SELECT id, name, phone FROM teachers ORDER BY name, id`
	teachers := []models.Teacher{}
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// FindByID fetches a teacher by id.
func (r *TeacherRepository) FindByID(ctx context.Context, id int64) (*models.Teacher, error) {
	const query = `SELECT id, name, phone FROM teachers WHERE id = $1`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// ExistsByNameAndPhone checks the (name, phone) uniqueness invariant.
func (r *TeacherRepository) ExistsByNameAndPhone(ctx context.Context, name, phone string) (bool, error) {
	const query = `SELECT 1 FROM teachers WHERE name = $1 AND phone = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, name, phone); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check teacher name/phone: %w", err)
	}
	return true, nil
}

// CountByIDs reports how many of the given ids exist.
func (r *TeacherRepository) CountByIDs(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	const query = `SELECT COUNT(*) FROM teachers WHERE id = ANY($1)`
	var count int
	if err := r.db.GetContext(ctx, &count, query, pq.Int64Array(ids)); err != nil {
		return 0, fmt.Errorf("count teachers by ids: %w", err)
	}
	return count, nil
}

// NamesByID returns an id -> name map for every teacher.
func (r *TeacherRepository) NamesByID(ctx context.Context) (map[int64]string, error) {
	const query = `SELECT id, name FROM teachers`
	rows := []models.Teacher{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("load teacher names: %w", err)
	}
	names := make(map[int64]string, len(rows))
	for _, t := range rows {
		names[t.ID] = t.Name
	}
	return names, nil
}

// Create inserts a new teacher record.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	const query = `INSERT INTO teachers (name, phone) VALUES ($1, $2) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, teacher.Name, teacher.Phone).Scan(&teacher.ID); err != nil {
		return fmt.Errorf("create teacher: %w", translateUniqueViolation(err))
	}
	return nil
}

// Delete removes a teacher unconditionally. Batches referencing the teacher
// keep the dangling id and render a placeholder name.
func (r *TeacherRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM teachers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	return nil
}
