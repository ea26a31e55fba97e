package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/brightsteps/records-api/internal/models"
)

const studentColumns = `id, class_id, first_name, last_name, date_of_birth, diagnoses, strengths, challenges, interests, sensory_needs, communication_style, support_strategies, triggers, calming_strategies, teacher_notes, created_at, updated_at`

// StudentRepository manages persistence for student profiles.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a new student repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students ordered by (last name, first name), optionally
// filtered by owning class.
func (r *StudentRepository) List(ctx context.Context, classID string) ([]models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students`
	var args []interface{}
	if classID != "" {
		query += ` WHERE class_id = $1`
		args = append(args, classID)
	}
	query += ` ORDER BY last_name ASC, first_name ASC`

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID returns a student record by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// Create persists a student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now

	const query = `INSERT INTO students (id, class_id, first_name, last_name, date_of_birth, diagnoses, strengths, challenges, interests, sensory_needs, communication_style, support_strategies, triggers, calming_strategies, teacher_notes, created_at, updated_at)
		VALUES (:id, :class_id, :first_name, :last_name, :date_of_birth, :diagnoses, :strengths, :challenges, :interests, :sensory_needs, :communication_style, :support_strategies, :triggers, :calming_strategies, :teacher_notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of a student record.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET class_id = :class_id, first_name = :first_name, last_name = :last_name, date_of_birth = :date_of_birth, diagnoses = :diagnoses, strengths = :strengths, challenges = :challenges, interests = :interests, sensory_needs = :sensory_needs, communication_style = :communication_style, support_strategies = :support_strategies, triggers = :triggers, calming_strategies = :calming_strategies, teacher_notes = :teacher_notes, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Delete removes a student and all of their progress rows in one
// transaction so no orphan progress can survive.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin student delete: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM student_progress WHERE student_id = $1`, id); err != nil {
		return fmt.Errorf("delete student progress: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit student delete: %w", err)
	}
	return nil
}
