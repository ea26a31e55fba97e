package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/brightsteps/records-api/internal/models"
	appErrors "github.com/brightsteps/records-api/pkg/errors"
	"github.com/brightsteps/records-api/pkg/export"
)

type lessonRepository interface {
	ListByClass(ctx context.Context, classID string) ([]models.Lesson, error)
	FindByID(ctx context.Context, id string) (*models.Lesson, error)
	Create(ctx context.Context, lesson *models.Lesson) error
	UpdatePartial(ctx context.Context, id string, content, visualSchedule *string) error
	Delete(ctx context.Context, id string) error
}

// CreateLessonRequest holds payload for saving a lesson.
type CreateLessonRequest struct {
	Topic          string  `json:"topic" validate:"required"`
	Objective      string  `json:"objective" validate:"required"`
	Content        string  `json:"content" validate:"required"`
	CurriculumArea *string `json:"curriculum_area"`
	Notes          *string `json:"notes"`
}

// UpdateLessonRequest holds a partial lesson update. At least one field must
// be present.
type UpdateLessonRequest struct {
	Content        *string `json:"content"`
	VisualSchedule *string `json:"visual_schedule"`
}

// LessonService handles lesson use-cases.
type LessonService struct {
	repo      lessonRepository
	classes   classFinder
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLessonService constructs the lesson service.
func NewLessonService(repo lessonRepository, classes classFinder, pdf *export.PDFExporter, validate *validator.Validate, logger *zap.Logger) *LessonService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &LessonService{repo: repo, classes: classes, pdf: pdf, validator: validate, logger: logger}
}

// ListByClass returns a class's lessons, newest first.
func (s *LessonService) ListByClass(ctx context.Context, classID string) ([]models.Lesson, error) {
	lessons, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}
	return lessons, nil
}

// Get returns one lesson.
func (s *LessonService) Get(ctx context.Context, id string) (*models.Lesson, error) {
	lesson, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}
	return lesson, nil
}

// Create stores a lesson under an existing class.
func (s *LessonService) Create(ctx context.Context, classID string, req CreateLessonRequest) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson payload")
	}
	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	lesson := &models.Lesson{
		ClassID:        classID,
		Topic:          req.Topic,
		Objective:      req.Objective,
		Content:        req.Content,
		CurriculumArea: req.CurriculumArea,
		Notes:          req.Notes,
	}
	if err := s.repo.Create(ctx, lesson); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lesson")
	}
	return lesson, nil
}

// Update applies a partial lesson edit.
func (s *LessonService) Update(ctx context.Context, id string, req UpdateLessonRequest) (*models.Lesson, error) {
	if req.Content == nil && req.VisualSchedule == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no lesson fields to update")
	}
	if err := s.repo.UpdatePartial(ctx, id, req.Content, req.VisualSchedule); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update lesson")
	}
	return s.Get(ctx, id)
}

// Delete removes a lesson.
func (s *LessonService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete lesson")
	}
	return nil
}

// ExportPDF renders a lesson as a printable document.
func (s *LessonService) ExportPDF(ctx context.Context, id string) ([]byte, error) {
	lesson, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	doc := export.Document{
		Title:    lesson.Topic,
		Subtitle: fmt.Sprintf("Created %s", lesson.CreatedAt.Format("2 January 2006")),
		Sections: []export.Section{
			{Label: "Objective", Body: lesson.Objective},
			{Label: "Lesson Plan", Body: lesson.Content},
		},
	}
	if lesson.CurriculumArea != nil && *lesson.CurriculumArea != "" {
		doc.Subtitle = fmt.Sprintf("%s - %s", *lesson.CurriculumArea, doc.Subtitle)
	}
	if lesson.Notes != nil && *lesson.Notes != "" {
		doc.Sections = append(doc.Sections, export.Section{Label: "Notes", Body: *lesson.Notes})
	}
	if lesson.VisualSchedule != nil && *lesson.VisualSchedule != "" {
		doc.Sections = append(doc.Sections, export.Section{Label: "Visual Schedule", Body: *lesson.VisualSchedule})
	}
	rendered, err := s.pdf.RenderDocument(doc)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render lesson export")
	}
	return rendered, nil
}
