package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brightsteps/records-api/internal/models"
	"github.com/brightsteps/records-api/internal/service"
)

type classRepoFake struct {
	classes map[string]models.Class
	rosters map[string][]models.StudentSummary
}

func (f *classRepoFake) List(ctx context.Context) ([]models.ClassWithCount, error) {
	out := make([]models.ClassWithCount, 0, len(f.classes))
	for id, c := range f.classes {
		out = append(out, models.ClassWithCount{Class: c, StudentCount: len(f.rosters[id])})
	}
	return out, nil
}

func (f *classRepoFake) FindByID(ctx context.Context, id string) (*models.Class, error) {
	if c, ok := f.classes[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (f *classRepoFake) ListStudentSummaries(ctx context.Context, classID string) ([]models.StudentSummary, error) {
	return f.rosters[classID], nil
}

func (f *classRepoFake) CountStudents(ctx context.Context, classID string) (int, error) {
	return len(f.rosters[classID]), nil
}

func (f *classRepoFake) Create(ctx context.Context, class *models.Class) error {
	if f.classes == nil {
		f.classes = make(map[string]models.Class)
	}
	if class.ID == "" {
		class.ID = "generated"
	}
	f.classes[class.ID] = *class
	return nil
}

func (f *classRepoFake) Update(ctx context.Context, class *models.Class) error {
	f.classes[class.ID] = *class
	return nil
}

func (f *classRepoFake) Delete(ctx context.Context, id string) error {
	delete(f.classes, id)
	return nil
}

func newClassHandler(repo *classRepoFake) *ClassHandler {
	router := service.NewLocaleRouter("en", repo, nil, nil, repo, nil, nil)
	svc := service.NewClassService(repo, router, nil, zap.NewNop())
	return NewClassHandler(svc)
}

func TestClassHandlerCreateInvalidJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newClassHandler(&classRepoFake{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/classes", strings.NewReader("{not json"))
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClassHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newClassHandler(&classRepoFake{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/classes/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestClassHandlerDeleteConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newClassHandler(&classRepoFake{
		classes: map[string]models.Class{"c1": {ID: "c1", Name: "Blue Group"}},
		rosters: map[string][]models.StudentSummary{"c1": {{ID: "s1"}}},
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/classes/c1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "c1"}}

	handler.Delete(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestClassHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newClassHandler(&classRepoFake{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/classes", strings.NewReader(`{"name":"Blue Group"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Blue Group")
}
