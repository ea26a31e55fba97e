package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/brightsteps/records-api/internal/models"
	appErrors "github.com/brightsteps/records-api/pkg/errors"
)

type classRepository interface {
	ClassReader
	CountStudents(ctx context.Context, classID string) (int, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id string) error
}

// CreateClassRequest holds payload for creating classes.
type CreateClassRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	AgeRange    *string `json:"age_range"`
}

// UpdateClassRequest holds payload for replacing a class's mutable fields.
type UpdateClassRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	AgeRange    *string `json:"age_range"`
}

// ClassService handles class use-cases. Reads honor the request language via
// the locale router; all writes go to the canonical tables.
type ClassService struct {
	repo      classRepository
	router    *LocaleRouter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs the class service.
func NewClassService(repo classRepository, router *LocaleRouter, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, router: router, validator: validate, logger: logger}
}

// List returns classes with student counts, ordered by name.
func (s *ClassService) List(ctx context.Context, lang string) ([]models.ClassWithCount, error) {
	classes, err := s.router.Classes(lang).List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, nil
}

// Get returns a class with its nested student roster.
func (s *ClassService) Get(ctx context.Context, id, lang string) (*models.ClassDetail, error) {
	reader := s.router.Classes(lang)
	class, err := reader.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	students, err := reader.ListStudentSummaries(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class roster")
	}
	if students == nil {
		students = []models.StudentSummary{}
	}
	return &models.ClassDetail{Class: *class, Students: students, StudentCount: len(students)}, nil
}

// Create registers a new class.
func (s *ClassService) Create(ctx context.Context, req CreateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	class := &models.Class{
		Name:        req.Name,
		Description: req.Description,
		AgeRange:    req.AgeRange,
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	return class, nil
}

// Update replaces the mutable fields of a class.
func (s *ClassService) Update(ctx context.Context, id string, req UpdateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	class.Name = req.Name
	class.Description = req.Description
	class.AgeRange = req.AgeRange
	if err := s.repo.Update(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class")
	}
	return class, nil
}

// Delete removes a class. Classes still holding students are protected.
func (s *ClassService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	count, err := s.repo.CountStudents(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count class students")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "class still has students")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class")
	}
	return nil
}
