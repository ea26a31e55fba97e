package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightsteps/records-api/internal/service"
	appErrors "github.com/brightsteps/records-api/pkg/errors"
	"github.com/brightsteps/records-api/pkg/response"
)

// ProgressHandler exposes competency progress endpoints.
type ProgressHandler struct {
	progress *service.ProgressService
}

// NewProgressHandler constructs ProgressHandler.
func NewProgressHandler(progress *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

// GetStudent godoc
// @Summary Get one student's progress per subcategory
// @Tags Progress
// @Produce json
// @Param id path string true "Student ID"
// @Param lang query string false "Response language"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/progress [get]
func (h *ProgressHandler) GetStudent(c *gin.Context) {
	progress, err := h.progress.GetStudentProgress(c.Request.Context(), c.Param("id"), c.Query("lang"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, progress, nil)
}

// GetClass godoc
// @Summary Get the progress of every student in a class
// @Tags Progress
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/progress [get]
func (h *ProgressHandler) GetClass(c *gin.Context) {
	progress, err := h.progress.GetClassProgress(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, progress, nil)
}

// Set godoc
// @Summary Record a partial progress update
// @Tags Progress
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.SetProgressRequest true "Progress payload"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/progress [post]
func (h *ProgressHandler) Set(c *gin.Context) {
	var req service.SetProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	progress, err := h.progress.SetProgress(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, progress, nil)
}

// ClearPlan godoc
// @Summary Remove the goal plan from a progress row
// @Tags Progress
// @Param id path string true "Student ID"
// @Param subcategoryId path string true "Subcategory ID"
// @Success 204
// @Router /students/{id}/progress/{subcategoryId}/plan [delete]
func (h *ProgressHandler) ClearPlan(c *gin.Context) {
	if err := h.progress.ClearPlan(c.Request.Context(), c.Param("id"), c.Param("subcategoryId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ExportClass godoc
// @Summary Download the class progress matrix as CSV or PDF
// @Tags Progress
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Class ID"
// @Param format query string false "Export format: csv (default) or pdf"
// @Success 200 {string} string "Exported content"
// @Router /classes/{id}/progress/export [get]
func (h *ProgressHandler) ExportClass(c *gin.Context) {
	classID := c.Param("id")
	if c.Query("format") == "pdf" {
		data, err := h.progress.ExportClassPDF(c.Request.Context(), classID)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=progress-%s.pdf", classID))
		c.Data(http.StatusOK, "application/pdf", data)
		return
	}
	data, err := h.progress.ExportClassCSV(c.Request.Context(), classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=progress-%s.csv", classID))
	c.Data(http.StatusOK, "text/csv", data)
}
