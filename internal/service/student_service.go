package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/brightsteps/records-api/internal/models"
	appErrors "github.com/brightsteps/records-api/pkg/errors"
)

type studentRepository interface {
	StudentReader
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

type classFinder interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

// StudentProfilePayload carries the profile fields shared by create and
// update requests. Absent list fields default to empty, never null.
type StudentProfilePayload struct {
	Diagnoses          models.StringList `json:"diagnoses"`
	Strengths          models.StringList `json:"strengths"`
	Challenges         models.StringList `json:"challenges"`
	Interests          models.StringList `json:"interests"`
	SensoryNeeds       models.StringList `json:"sensory_needs"`
	CommunicationStyle *string           `json:"communication_style"`
	SupportStrategies  models.StringList `json:"support_strategies"`
	Triggers           models.StringList `json:"triggers"`
	CalmingStrategies  models.StringList `json:"calming_strategies"`
	TeacherNotes       *string           `json:"teacher_notes"`
}

// CreateStudentRequest holds payload for creating students.
type CreateStudentRequest struct {
	ClassID     string    `json:"class_id" validate:"required"`
	FirstName   string    `json:"first_name" validate:"required"`
	LastName    string    `json:"last_name" validate:"required"`
	DateOfBirth time.Time `json:"date_of_birth" validate:"required"`
	StudentProfilePayload
}

// UpdateStudentRequest holds payload for updating students.
type UpdateStudentRequest struct {
	ClassID     string    `json:"class_id" validate:"required"`
	FirstName   string    `json:"first_name" validate:"required"`
	LastName    string    `json:"last_name" validate:"required"`
	DateOfBirth time.Time `json:"date_of_birth" validate:"required"`
	StudentProfilePayload
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	classes   classFinder
	router    *LocaleRouter
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, classes classFinder, router *LocaleRouter, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, classes: classes, router: router, cache: cache, validator: validate, logger: logger}
}

// List returns students, optionally filtered to one class.
func (s *StudentService) List(ctx context.Context, classID, lang string) ([]models.Student, error) {
	students, err := s.router.Students(lang).List(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// Get returns one student profile.
func (s *StudentService) Get(ctx context.Context, id, lang string) (*models.Student, error) {
	student, err := s.router.Students(lang).FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create registers a new student in an existing class.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if err := s.ensureClass(ctx, req.ClassID); err != nil {
		return nil, err
	}
	student := &models.Student{
		ClassID:     req.ClassID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
	}
	applyProfile(student, req.StudentProfilePayload)
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return student, nil
}

// Update replaces a student's profile.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := s.ensureClass(ctx, req.ClassID); err != nil {
		return nil, err
	}
	student.ClassID = req.ClassID
	student.FirstName = req.FirstName
	student.LastName = req.LastName
	student.DateOfBirth = req.DateOfBirth
	applyProfile(student, req.StudentProfilePayload)
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return student, nil
}

// Delete removes a student and their progress rows in one transaction.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	if s.cache.Enabled() {
		_ = s.cache.Invalidate(ctx, classProgressKey(student.ClassID))
	}
	return nil
}

func (s *StudentService) ensureClass(ctx context.Context, classID string) error {
	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return nil
}

func applyProfile(student *models.Student, p StudentProfilePayload) {
	student.Diagnoses = emptyIfNil(p.Diagnoses)
	student.Strengths = emptyIfNil(p.Strengths)
	student.Challenges = emptyIfNil(p.Challenges)
	student.Interests = emptyIfNil(p.Interests)
	student.SensoryNeeds = emptyIfNil(p.SensoryNeeds)
	student.CommunicationStyle = p.CommunicationStyle
	student.SupportStrategies = emptyIfNil(p.SupportStrategies)
	student.Triggers = emptyIfNil(p.Triggers)
	student.CalmingStrategies = emptyIfNil(p.CalmingStrategies)
	student.TeacherNotes = p.TeacherNotes
}

func emptyIfNil(list models.StringList) models.StringList {
	if list == nil {
		return models.StringList{}
	}
	return list
}
