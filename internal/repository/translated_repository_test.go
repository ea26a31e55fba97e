package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslatedClassRepositoryListReadsShadowTablesOnly(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewTranslatedClassRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "name", "description", "age_range", "created_at", "updated_at", "student_count"}).
		AddRow("c1", "Sala Arcoíris", nil, "4-6", now, now, 2)
	mock.ExpectQuery("FROM classes_translated c LEFT JOIN students_translated s ON s.class_id = c.id").
		WillReturnRows(rows)

	classes, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "Sala Arcoíris", classes[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslatedStudentRepositoryFindByIDMissingRow(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewTranslatedStudentRepository(db)

	// A student not yet synced simply does not appear in the localized view.
	mock.ExpectQuery(`FROM students_translated WHERE id = \$1`).
		WithArgs("s-unsynced").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "s-unsynced")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslatedProgressRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewTranslatedProgressRepository(db)

	now := time.Now().UTC()
	rows := progressRows(t).AddRow("p1", "s1", "ci-1-1", 2, false, "plan traducido", now, now)
	mock.ExpectQuery(`FROM student_progress_translated WHERE student_id = \$1`).
		WithArgs("s1").
		WillReturnRows(rows)

	result, err := repo.ListByStudent(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.NotNil(t, result[0].Plan)
	assert.Equal(t, "plan traducido", *result[0].Plan)
	assert.NoError(t, mock.ExpectationsWereMet())
}
