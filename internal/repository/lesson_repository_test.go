package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightsteps/records-api/internal/models"
)

func TestLessonRepositoryListByClassNewestFirst(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "class_id", "topic", "objective", "content", "curriculum_area", "notes", "visual_schedule", "created_at"}).
		AddRow("l2", "c1", "Colors", "Identify colors", "...", nil, nil, nil, now).
		AddRow("l1", "c1", "Shapes", "Identify shapes", "...", "Maths", nil, nil, now.Add(-time.Hour))
	mock.ExpectQuery(`FROM lessons WHERE class_id = \$1 ORDER BY created_at DESC`).
		WithArgs("c1").
		WillReturnRows(rows)

	lessons, err := repo.ListByClass(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, "l2", lessons[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectExec("INSERT INTO lessons").
		WithArgs(sqlmock.AnyArg(), "c1", "Colors", "Identify colors", "content", nil, nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	lesson := &models.Lesson{ClassID: "c1", Topic: "Colors", Objective: "Identify colors", Content: "content"}
	require.NoError(t, repo.Create(context.Background(), lesson))
	assert.NotEmpty(t, lesson.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryUpdatePartialContentOnly(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	content := "updated content"
	mock.ExpectExec(`UPDATE lessons SET content = \$1 WHERE id = \$2`).
		WithArgs(content, "l1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePartial(context.Background(), "l1", &content, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryUpdatePartialBothFields(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	content := "updated"
	schedule := `[{"order":1,"text":"Circle time"}]`
	mock.ExpectExec(`UPDATE lessons SET content = \$1, visual_schedule = \$2 WHERE id = \$3`).
		WithArgs(content, schedule, "l1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePartial(context.Background(), "l1", &content, &schedule))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectExec(`DELETE FROM lessons WHERE id = \$1`).
		WithArgs("nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
