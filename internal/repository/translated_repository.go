package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/brightsteps/records-api/internal/models"
)

// The translated repositories read the shadow tables populated by the batch
// sync tooling. Rows share the canonical row's id so a localized read is a
// direct substitution of the canonical one. These types are strictly
// read-only: live traffic never writes the shadow tables, and a missing or
// stale shadow row simply does not appear in the localized view.

// TranslatedClassRepository reads classes from classes_translated.
type TranslatedClassRepository struct {
	db *sqlx.DB
}

// NewTranslatedClassRepository constructs a translated class reader.
func NewTranslatedClassRepository(db *sqlx.DB) *TranslatedClassRepository {
	return &TranslatedClassRepository{db: db}
}

// List mirrors the canonical class list over the shadow tables.
func (r *TranslatedClassRepository) List(ctx context.Context) ([]models.ClassWithCount, error) {
	const query = `SELECT c.id, c.name, c.description, c.age_range, c.created_at, c.updated_at, COUNT(s.id) AS student_count
		FROM classes_translated c LEFT JOIN students_translated s ON s.class_id = c.id
		GROUP BY c.id, c.name, c.description, c.age_range, c.created_at, c.updated_at
		ORDER BY c.name ASC`
	var classes []models.ClassWithCount
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("list translated classes: %w", err)
	}
	return classes, nil
}

// FindByID returns the translated class row matching the canonical id.
func (r *TranslatedClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	const query = `SELECT id, name, description, age_range, created_at, updated_at FROM classes_translated WHERE id = $1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// ListStudentSummaries returns the localized roster projection for a class.
func (r *TranslatedClassRepository) ListStudentSummaries(ctx context.Context, classID string) ([]models.StudentSummary, error) {
	const query = `SELECT id, first_name, last_name, date_of_birth FROM students_translated WHERE class_id = $1 ORDER BY last_name ASC, first_name ASC`
	var students []models.StudentSummary
	if err := r.db.SelectContext(ctx, &students, query, classID); err != nil {
		return nil, fmt.Errorf("list translated class students: %w", err)
	}
	return students, nil
}

// TranslatedStudentRepository reads students from students_translated.
type TranslatedStudentRepository struct {
	db *sqlx.DB
}

// NewTranslatedStudentRepository constructs a translated student reader.
func NewTranslatedStudentRepository(db *sqlx.DB) *TranslatedStudentRepository {
	return &TranslatedStudentRepository{db: db}
}

// List mirrors the canonical student list over the shadow table.
func (r *TranslatedStudentRepository) List(ctx context.Context, classID string) ([]models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students_translated`
	var args []interface{}
	if classID != "" {
		query += ` WHERE class_id = $1`
		args = append(args, classID)
	}
	query += ` ORDER BY last_name ASC, first_name ASC`

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list translated students: %w", err)
	}
	return students, nil
}

// FindByID returns the translated student row matching the canonical id.
func (r *TranslatedStudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students_translated WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// TranslatedProgressRepository reads localized plan text from
// student_progress_translated.
type TranslatedProgressRepository struct {
	db *sqlx.DB
}

// NewTranslatedProgressRepository constructs a translated progress reader.
func NewTranslatedProgressRepository(db *sqlx.DB) *TranslatedProgressRepository {
	return &TranslatedProgressRepository{db: db}
}

// ListByStudent returns all translated progress rows for one student.
func (r *TranslatedProgressRepository) ListByStudent(ctx context.Context, studentID string) ([]models.StudentProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM student_progress_translated WHERE student_id = $1`
	var rows []models.StudentProgress
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list translated student progress: %w", err)
	}
	return rows, nil
}
