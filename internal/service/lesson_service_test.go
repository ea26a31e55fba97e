package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brightsteps/records-api/internal/models"
	appErrors "github.com/brightsteps/records-api/pkg/errors"
)

type mockLessonRepo struct {
	lessons map[string]models.Lesson
	deleted []string
}

func (m *mockLessonRepo) ListByClass(ctx context.Context, classID string) ([]models.Lesson, error) {
	var out []models.Lesson
	for _, l := range m.lessons {
		if l.ClassID == classID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockLessonRepo) FindByID(ctx context.Context, id string) (*models.Lesson, error) {
	if l, ok := m.lessons[id]; ok {
		return &l, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockLessonRepo) Create(ctx context.Context, lesson *models.Lesson) error {
	if m.lessons == nil {
		m.lessons = make(map[string]models.Lesson)
	}
	if lesson.ID == "" {
		lesson.ID = "generated"
	}
	if lesson.CreatedAt.IsZero() {
		lesson.CreatedAt = time.Now().UTC()
	}
	m.lessons[lesson.ID] = *lesson
	return nil
}

func (m *mockLessonRepo) UpdatePartial(ctx context.Context, id string, content, visualSchedule *string) error {
	l, ok := m.lessons[id]
	if !ok {
		return sql.ErrNoRows
	}
	if content != nil {
		l.Content = *content
	}
	if visualSchedule != nil {
		l.VisualSchedule = visualSchedule
	}
	m.lessons[id] = l
	return nil
}

func (m *mockLessonRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.lessons[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.lessons, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func lessonTestService(repo *mockLessonRepo, classes classFinder) *LessonService {
	return NewLessonService(repo, classes, nil, validator.New(), zap.NewNop())
}

func TestLessonServiceCreateUnknownClass(t *testing.T) {
	svc := lessonTestService(&mockLessonRepo{}, &mockClassRepo{})

	_, err := svc.Create(context.Background(), "missing", CreateLessonRequest{
		Topic: "Weather", Objective: "Name the seasons", Content: "...",
	})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestLessonServiceCreateRequiresContent(t *testing.T) {
	svc := lessonTestService(&mockLessonRepo{}, &mockClassRepo{classes: map[string]models.Class{"c1": {ID: "c1"}}})

	_, err := svc.Create(context.Background(), "c1", CreateLessonRequest{Topic: "Weather"})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestLessonServiceUpdateRequiresField(t *testing.T) {
	svc := lessonTestService(&mockLessonRepo{}, &mockClassRepo{})

	_, err := svc.Update(context.Background(), "l1", UpdateLessonRequest{})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestLessonServiceUpdatePartial(t *testing.T) {
	repo := &mockLessonRepo{lessons: map[string]models.Lesson{
		"l1": {ID: "l1", ClassID: "c1", Topic: "Weather", Objective: "Seasons", Content: "old"},
	}}
	svc := lessonTestService(repo, &mockClassRepo{})

	content := "new content"
	lesson, err := svc.Update(context.Background(), "l1", UpdateLessonRequest{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "new content", lesson.Content)
	assert.Nil(t, lesson.VisualSchedule)
}

func TestLessonServiceUpdateNotFound(t *testing.T) {
	svc := lessonTestService(&mockLessonRepo{}, &mockClassRepo{})

	content := "x"
	_, err := svc.Update(context.Background(), "missing", UpdateLessonRequest{Content: &content})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestLessonServiceExportPDF(t *testing.T) {
	notes := "bring picture cards"
	repo := &mockLessonRepo{lessons: map[string]models.Lesson{
		"l1": {
			ID: "l1", ClassID: "c1", Topic: "Weather", Objective: "Name the seasons",
			Content: "1. Warm up\n2. Activity", Notes: &notes,
			CreatedAt: time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC),
		},
	}}
	svc := lessonTestService(repo, &mockClassRepo{})

	data, err := svc.ExportPDF(context.Background(), "l1")
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}
