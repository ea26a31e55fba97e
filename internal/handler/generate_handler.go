package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightsteps/records-api/internal/service"
	appErrors "github.com/brightsteps/records-api/pkg/errors"
	"github.com/brightsteps/records-api/pkg/response"
)

// GenerateHandler exposes the AI collaborator endpoints.
type GenerateHandler struct {
	planner *service.PlannerService
}

// NewGenerateHandler constructs GenerateHandler.
func NewGenerateHandler(planner *service.PlannerService) *GenerateHandler {
	return &GenerateHandler{planner: planner}
}

// GenerateLesson godoc
// @Summary Generate and save a lesson plan for a class
// @Tags Generate
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body service.GenerateLessonRequest true "Lesson parameters"
// @Success 201 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /classes/{id}/lessons/generate [post]
func (h *GenerateHandler) GenerateLesson(c *gin.Context) {
	var req service.GenerateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	lesson, err := h.planner.GenerateLesson(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lesson)
}

// GenerateGoalPlan godoc
// @Summary Generate and store a goal plan for one competency
// @Tags Generate
// @Produce json
// @Param id path string true "Student ID"
// @Param subcategoryId path string true "Subcategory ID"
// @Success 200 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /students/{id}/progress/{subcategoryId}/plan/generate [post]
func (h *GenerateHandler) GenerateGoalPlan(c *gin.Context) {
	progress, err := h.planner.GenerateGoalPlan(c.Request.Context(), c.Param("id"), c.Param("subcategoryId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, progress, nil)
}

// VisualSchedule godoc
// @Summary Generate visual schedule steps with pictograms
// @Tags Generate
// @Accept json
// @Produce json
// @Param payload body service.VisualScheduleRequest true "Activity description"
// @Success 200 {object} response.Envelope
// @Router /generate/visual-schedule [post]
func (h *GenerateHandler) VisualSchedule(c *gin.Context) {
	var req service.VisualScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	steps, err := h.planner.BuildVisualSchedule(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, steps, nil)
}

// SearchPictogram godoc
// @Summary Look up the best pictogram for a keyword
// @Tags Generate
// @Produce json
// @Param keyword query string true "Search keyword"
// @Success 200 {object} response.Envelope
// @Router /pictograms [get]
func (h *GenerateHandler) SearchPictogram(c *gin.Context) {
	match, err := h.planner.SearchPictogram(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, match, nil)
}
