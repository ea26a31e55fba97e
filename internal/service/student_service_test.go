package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brightsteps/records-api/internal/models"
	appErrors "github.com/brightsteps/records-api/pkg/errors"
)

type mockStudentRepo struct {
	students map[string]models.Student
	deleted  []string
}

func (m *mockStudentRepo) List(ctx context.Context, classID string) ([]models.Student, error) {
	out := make([]models.Student, 0, len(m.students))
	for _, s := range m.students {
		if classID == "" || s.ClassID == classID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if m.students == nil {
		m.students = make(map[string]models.Student)
	}
	if student.ID == "" {
		student.ID = "generated"
	}
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error {
	delete(m.students, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type recordingCacheRepo struct {
	patterns []string
}

func (r *recordingCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	return appErrors.ErrCacheMiss
}

func (r *recordingCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (r *recordingCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	r.patterns = append(r.patterns, pattern)
	return nil
}

func studentTestService(repo *mockStudentRepo, classes classFinder, cache *CacheService) *StudentService {
	router := NewLocaleRouter("en", nil, repo, nil, nil, repo, nil)
	return NewStudentService(repo, classes, router, cache, validator.New(), zap.NewNop())
}

func TestStudentServiceCreateUnknownClass(t *testing.T) {
	svc := studentTestService(&mockStudentRepo{}, &mockClassRepo{}, nil)

	_, err := svc.Create(context.Background(), CreateStudentRequest{
		ClassID:     "missing",
		FirstName:   "Alma",
		LastName:    "Berg",
		DateOfBirth: time.Date(2016, 4, 2, 0, 0, 0, 0, time.UTC),
	})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestStudentServiceCreateProfileRoundTrip(t *testing.T) {
	repo := &mockStudentRepo{}
	classes := &mockClassRepo{classes: map[string]models.Class{"c1": {ID: "c1"}}}
	svc := studentTestService(repo, classes, nil)

	created, err := svc.Create(context.Background(), CreateStudentRequest{
		ClassID:     "c1",
		FirstName:   "Alma",
		LastName:    "Berg",
		DateOfBirth: time.Date(2016, 4, 2, 0, 0, 0, 0, time.UTC),
		StudentProfilePayload: StudentProfilePayload{
			Diagnoses: models.StringList{"autism", "ADHD"},
			Interests: models.StringList{"trains"},
		},
	})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"autism", "ADHD"}, got.Diagnoses)
	assert.Equal(t, models.StringList{"trains"}, got.Interests)
	// absent list fields come back as empty lists, never null
	assert.Equal(t, models.StringList{}, got.Strengths)
	assert.Equal(t, models.StringList{}, got.Triggers)
}

func TestStudentServiceCreateRequiresNames(t *testing.T) {
	svc := studentTestService(&mockStudentRepo{}, &mockClassRepo{}, nil)

	_, err := svc.Create(context.Background(), CreateStudentRequest{ClassID: "c1"})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestStudentServiceDeleteInvalidatesClassProgress(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{
		"s1": {ID: "s1", ClassID: "c1", FirstName: "Alma", LastName: "Berg"},
	}}
	cacheRepo := &recordingCacheRepo{}
	cache := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	svc := studentTestService(repo, &mockClassRepo{classes: map[string]models.Class{"c1": {ID: "c1"}}}, cache)

	require.NoError(t, svc.Delete(context.Background(), "s1"))
	assert.Equal(t, []string{"s1"}, repo.deleted)
	assert.Equal(t, []string{"progress:class:c1"}, cacheRepo.patterns)
}

func TestStudentServiceDeleteNotFound(t *testing.T) {
	svc := studentTestService(&mockStudentRepo{}, &mockClassRepo{}, nil)

	err := svc.Delete(context.Background(), "missing")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestStudentServiceListFiltersByClass(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{
		"s1": {ID: "s1", ClassID: "c1"},
		"s2": {ID: "s2", ClassID: "c2"},
	}}
	svc := studentTestService(repo, &mockClassRepo{}, nil)

	students, err := svc.List(context.Background(), "c1", "")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "s1", students[0].ID)
}
