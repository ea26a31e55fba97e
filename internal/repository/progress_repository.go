package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/brightsteps/records-api/internal/models"
)

const progressColumns = `id, student_id, subcategory_id, level, completed, plan, created_at, updated_at`

// ProgressRepository manages persistence for per-subcategory progress rows.
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository constructs a new progress repository.
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// ListByStudent returns all progress rows for one student.
func (r *ProgressRepository) ListByStudent(ctx context.Context, studentID string) ([]models.StudentProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM student_progress WHERE student_id = $1`
	var rows []models.StudentProgress
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list student progress: %w", err)
	}
	return rows, nil
}

// ListByClass returns progress rows for every student in a class in a single
// query. Grouping into a per-student structure happens in the service; one
// wide result set is cheaper than a query per student.
func (r *ProgressRepository) ListByClass(ctx context.Context, classID string) ([]models.StudentProgress, error) {
	const query = `SELECT p.id, p.student_id, p.subcategory_id, p.level, p.completed, p.plan, p.created_at, p.updated_at
		FROM student_progress p JOIN students s ON s.id = p.student_id
		WHERE s.class_id = $1`
	var rows []models.StudentProgress
	if err := r.db.SelectContext(ctx, &rows, query, classID); err != nil {
		return nil, fmt.Errorf("list class progress: %w", err)
	}
	return rows, nil
}

// Upsert atomically inserts or patches the (student, subcategory) row using
// the engine's native conflict resolution. Nil fields leave an existing row's
// values untouched; on first insert they fall back to level 0, not completed,
// no plan. A read-then-write sequence would race two concurrent callers into
// duplicate inserts, so the conditional write must stay a single statement.
func (r *ProgressRepository) Upsert(ctx context.Context, studentID, subcategoryID string, level *int, completed *bool, plan *string) (*models.StudentProgress, error) {
	const query = `INSERT INTO student_progress (id, student_id, subcategory_id, level, completed, plan, created_at, updated_at)
		VALUES ($1, $2, $3, COALESCE($4, 0), COALESCE($5, FALSE), $6, $7, $7)
		ON CONFLICT (student_id, subcategory_id) DO UPDATE SET
			level = COALESCE($4, student_progress.level),
			completed = COALESCE($5, student_progress.completed),
			plan = COALESCE($6, student_progress.plan),
			updated_at = $7
		RETURNING ` + progressColumns

	now := time.Now().UTC()
	var row models.StudentProgress
	if err := r.db.GetContext(ctx, &row, query, uuid.NewString(), studentID, subcategoryID, level, completed, plan, now); err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}
	return &row, nil
}

// ClearPlan nulls the plan text on an existing row. It never creates a row;
// a missing pair surfaces as sql.ErrNoRows.
func (r *ProgressRepository) ClearPlan(ctx context.Context, studentID, subcategoryID string) error {
	const query = `UPDATE student_progress SET plan = NULL, updated_at = $3 WHERE student_id = $1 AND subcategory_id = $2`
	res, err := r.db.ExecContext(ctx, query, studentID, subcategoryID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("clear plan: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("clear plan result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
