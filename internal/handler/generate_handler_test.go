package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brightsteps/records-api/internal/ai"
	"github.com/brightsteps/records-api/internal/models"
	"github.com/brightsteps/records-api/internal/service"
	appErrors "github.com/brightsteps/records-api/pkg/errors"
)

type plannerFake struct {
	reply string
	err   error
}

func (f *plannerFake) Enabled() bool { return true }

func (f *plannerFake) Generate(ctx context.Context, prompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type pictogramFake struct {
	matches map[string]*ai.PictogramMatch
}

func (f *pictogramFake) Search(ctx context.Context, keyword string) (*ai.PictogramMatch, error) {
	return f.matches[keyword], nil
}

type lessonRepoFake struct {
	lessons []models.Lesson
}

func (f *lessonRepoFake) ListByClass(ctx context.Context, classID string) ([]models.Lesson, error) {
	return f.lessons, nil
}

func (f *lessonRepoFake) FindByID(ctx context.Context, id string) (*models.Lesson, error) {
	return nil, sql.ErrNoRows
}

func (f *lessonRepoFake) Create(ctx context.Context, lesson *models.Lesson) error {
	lesson.ID = "generated"
	f.lessons = append(f.lessons, *lesson)
	return nil
}

func (f *lessonRepoFake) UpdatePartial(ctx context.Context, id string, content, visualSchedule *string) error {
	return sql.ErrNoRows
}

func (f *lessonRepoFake) Delete(ctx context.Context, id string) error {
	return sql.ErrNoRows
}

type progressWriterFake struct {
	writes []service.SetProgressRequest
}

func (f *progressWriterFake) SetProgress(ctx context.Context, studentID string, req service.SetProgressRequest) (*models.StudentProgress, error) {
	f.writes = append(f.writes, req)
	return &models.StudentProgress{StudentID: studentID, SubcategoryID: req.SubcategoryID, Plan: req.Plan}, nil
}

func newGenerateHandler(planner *plannerFake, pictogram *pictogramFake, lessons *lessonRepoFake, students *studentRepoFake, classes *classRepoFake) *GenerateHandler {
	if pictogram == nil {
		pictogram = &pictogramFake{}
	}
	svc := service.NewPlannerService(planner, pictogram, lessons, students, students, classes, &progressWriterFake{}, nil, zap.NewNop())
	return NewGenerateHandler(svc)
}

func TestGenerateHandlerLessonRateLimited(t *testing.T) {
	gin.SetMode(gin.TestMode)
	planner := &plannerFake{err: appErrors.RateLimited(errors.New("429 RESOURCE_EXHAUSTED"), 9)}
	classes := &classRepoFake{classes: map[string]models.Class{"c1": {ID: "c1", Name: "Blue Group"}}}
	handler := newGenerateHandler(planner, nil, &lessonRepoFake{}, &studentRepoFake{}, classes)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/classes/c1/lessons/generate", strings.NewReader(`{"topic":"Weather","objective":"Name the seasons"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "c1"}}

	handler.GenerateLesson(c)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "9", w.Header().Get("Retry-After"))
}

func TestGenerateHandlerLessonPersists(t *testing.T) {
	gin.SetMode(gin.TestMode)
	planner := &plannerFake{reply: "Warm up, main activity, wrap up."}
	classes := &classRepoFake{classes: map[string]models.Class{"c1": {ID: "c1", Name: "Blue Group"}}}
	lessons := &lessonRepoFake{}
	handler := newGenerateHandler(planner, nil, lessons, &studentRepoFake{}, classes)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/classes/c1/lessons/generate", strings.NewReader(`{"topic":"Weather","objective":"Name the seasons"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "c1"}}

	handler.GenerateLesson(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, lessons.lessons, 1)
	assert.Equal(t, "Warm up, main activity, wrap up.", lessons.lessons[0].Content)
}

func TestGenerateHandlerPictogramRequiresKeyword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newGenerateHandler(&plannerFake{}, nil, &lessonRepoFake{}, &studentRepoFake{}, &classRepoFake{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/pictograms", nil)
	c.Request = req

	handler.SearchPictogram(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateHandlerVisualSchedule(t *testing.T) {
	gin.SetMode(gin.TestMode)
	planner := &plannerFake{reply: "wash hands\nsit down"}
	pictogram := &pictogramFake{matches: map[string]*ai.PictogramMatch{
		"wash hands": {ID: 7, URL: "https://static.arasaac.org/pictograms/7/7_300.png"},
	}}
	handler := newGenerateHandler(planner, pictogram, &lessonRepoFake{}, &studentRepoFake{}, &classRepoFake{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/generate/visual-schedule", strings.NewReader(`{"activity":"lunch routine"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.VisualSchedule(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "wash hands")
	assert.Contains(t, w.Body.String(), "7_300.png")
	assert.Contains(t, w.Body.String(), "sit down")
}
