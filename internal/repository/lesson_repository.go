package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/brightsteps/records-api/internal/models"
)

const lessonColumns = `id, class_id, topic, objective, content, curriculum_area, notes, visual_schedule, created_at`

// LessonRepository manages persistence for lessons.
type LessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository constructs a new lesson repository.
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// ListByClass returns a class's lessons newest first.
func (r *LessonRepository) ListByClass(ctx context.Context, classID string) ([]models.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE class_id = $1 ORDER BY created_at DESC`
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, classID); err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return lessons, nil
}

// FindByID returns a lesson record by ID.
func (r *LessonRepository) FindByID(ctx context.Context, id string) (*models.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1`
	var lesson models.Lesson
	if err := r.db.GetContext(ctx, &lesson, query, id); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// Create persists a lesson record.
func (r *LessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	if lesson.ID == "" {
		lesson.ID = uuid.NewString()
	}
	if lesson.CreatedAt.IsZero() {
		lesson.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO lessons (id, class_id, topic, objective, content, curriculum_area, notes, visual_schedule, created_at)
		VALUES (:id, :class_id, :topic, :objective, :content, :curriculum_area, :notes, :visual_schedule, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, lesson); err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}
	return nil
}

// UpdatePartial patches only the provided fields. A missing row surfaces as
// sql.ErrNoRows.
func (r *LessonRepository) UpdatePartial(ctx context.Context, id string, content, visualSchedule *string) error {
	var (
		sets []string
		args []interface{}
	)
	if content != nil {
		sets = append(sets, fmt.Sprintf("content = $%d", len(args)+1))
		args = append(args, *content)
	}
	if visualSchedule != nil {
		sets = append(sets, fmt.Sprintf("visual_schedule = $%d", len(args)+1))
		args = append(args, *visualSchedule)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE lessons SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update lesson: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update lesson result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a lesson record. A missing row surfaces as sql.ErrNoRows.
func (r *LessonRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete lesson result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
