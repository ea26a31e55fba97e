package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brightsteps/records-api/internal/models"
	appErrors "github.com/brightsteps/records-api/pkg/errors"
)

type mockClassRepo struct {
	classes map[string]models.Class
	rosters map[string][]models.StudentSummary
	deleted []string
}

func (m *mockClassRepo) List(ctx context.Context) ([]models.ClassWithCount, error) {
	out := make([]models.ClassWithCount, 0, len(m.classes))
	for id, c := range m.classes {
		out = append(out, models.ClassWithCount{Class: c, StudentCount: len(m.rosters[id])})
	}
	return out, nil
}

func (m *mockClassRepo) FindByID(ctx context.Context, id string) (*models.Class, error) {
	if c, ok := m.classes[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockClassRepo) ListStudentSummaries(ctx context.Context, classID string) ([]models.StudentSummary, error) {
	return m.rosters[classID], nil
}

func (m *mockClassRepo) CountStudents(ctx context.Context, classID string) (int, error) {
	return len(m.rosters[classID]), nil
}

func (m *mockClassRepo) Create(ctx context.Context, class *models.Class) error {
	if m.classes == nil {
		m.classes = make(map[string]models.Class)
	}
	if class.ID == "" {
		class.ID = "generated"
	}
	m.classes[class.ID] = *class
	return nil
}

func (m *mockClassRepo) Update(ctx context.Context, class *models.Class) error {
	m.classes[class.ID] = *class
	return nil
}

func (m *mockClassRepo) Delete(ctx context.Context, id string) error {
	delete(m.classes, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func classTestRouter(repo *mockClassRepo) *LocaleRouter {
	return NewLocaleRouter("en", repo, nil, nil, repo, nil, nil)
}

func TestClassServiceCreate(t *testing.T) {
	repo := &mockClassRepo{}
	svc := NewClassService(repo, classTestRouter(repo), validator.New(), zap.NewNop())

	class, err := svc.Create(context.Background(), CreateClassRequest{Name: "Blue Group"})
	require.NoError(t, err)
	assert.NotEmpty(t, class.ID)
	assert.Equal(t, "Blue Group", class.Name)
}

func TestClassServiceCreateRequiresName(t *testing.T) {
	svc := NewClassService(&mockClassRepo{}, classTestRouter(&mockClassRepo{}), validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateClassRequest{})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestClassServiceGetNotFound(t *testing.T) {
	repo := &mockClassRepo{}
	svc := NewClassService(repo, classTestRouter(repo), validator.New(), zap.NewNop())

	_, err := svc.Get(context.Background(), "missing", "")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestClassServiceGetIncludesRoster(t *testing.T) {
	repo := &mockClassRepo{
		classes: map[string]models.Class{"c1": {ID: "c1", Name: "Blue Group"}},
		rosters: map[string][]models.StudentSummary{"c1": {
			{ID: "s1", FirstName: "Alma", LastName: "Berg"},
			{ID: "s2", FirstName: "Leo", LastName: "Ek"},
		}},
	}
	svc := NewClassService(repo, classTestRouter(repo), validator.New(), zap.NewNop())

	detail, err := svc.Get(context.Background(), "c1", "")
	require.NoError(t, err)
	assert.Equal(t, "Blue Group", detail.Name)
	assert.Len(t, detail.Students, 2)
	assert.Equal(t, 2, detail.StudentCount)
}

func TestClassServiceDeleteConflictWithStudents(t *testing.T) {
	repo := &mockClassRepo{
		classes: map[string]models.Class{"c1": {ID: "c1", Name: "Blue Group"}},
		rosters: map[string][]models.StudentSummary{"c1": {{ID: "s1"}}},
	}
	svc := NewClassService(repo, classTestRouter(repo), validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), "c1")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Empty(t, repo.deleted)
}

func TestClassServiceDeleteEmptyClass(t *testing.T) {
	repo := &mockClassRepo{classes: map[string]models.Class{"c1": {ID: "c1", Name: "Blue Group"}}}
	svc := NewClassService(repo, classTestRouter(repo), validator.New(), zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "c1"))
	assert.Equal(t, []string{"c1"}, repo.deleted)
}

func TestClassServiceUpdateNotFound(t *testing.T) {
	repo := &mockClassRepo{}
	svc := NewClassService(repo, classTestRouter(repo), validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), "missing", UpdateClassRequest{Name: "Renamed"})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
