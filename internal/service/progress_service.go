package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/brightsteps/records-api/internal/models"
	appErrors "github.com/brightsteps/records-api/pkg/errors"
	"github.com/brightsteps/records-api/pkg/export"
)

type progressRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.StudentProgress, error)
	ListByClass(ctx context.Context, classID string) ([]models.StudentProgress, error)
	Upsert(ctx context.Context, studentID, subcategoryID string, level *int, completed *bool, plan *string) (*models.StudentProgress, error)
	ClearPlan(ctx context.Context, studentID, subcategoryID string) error
}

type studentFinder interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type rosterReader interface {
	ListStudentSummaries(ctx context.Context, classID string) ([]models.StudentSummary, error)
}

// SetProgressRequest holds a partial progress write. Nil fields leave the
// stored value untouched; a first write fills the omitted fields with
// level 0, not completed, no plan.
type SetProgressRequest struct {
	SubcategoryID string  `json:"subcategory_id" validate:"required"`
	Level         *int    `json:"level" validate:"omitempty,min=0"`
	Completed     *bool   `json:"completed"`
	Plan          *string `json:"plan"`
}

// ProgressService handles competency progress use-cases.
type ProgressService struct {
	repo      progressRepository
	students  studentFinder
	roster    rosterReader
	router    *LocaleRouter
	cache     *CacheService
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProgressService constructs the progress service.
func NewProgressService(repo progressRepository, students studentFinder, roster rosterReader, router *LocaleRouter, cache *CacheService, csv *export.CSVExporter, pdf *export.PDFExporter, validate *validator.Validate, logger *zap.Logger) *ProgressService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ProgressService{repo: repo, students: students, roster: roster, router: router, cache: cache, csv: csv, pdf: pdf, validator: validate, logger: logger}
}

func classProgressKey(classID string) string {
	return fmt.Sprintf("progress:class:%s", classID)
}

// GetStudentProgress returns one student's progress keyed by subcategory.
// Students with no recorded progress yield an empty map.
func (s *ProgressService) GetStudentProgress(ctx context.Context, studentID, lang string) (models.ProgressMap, error) {
	if _, err := s.router.Students(lang).FindByID(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	rows, err := s.router.Progress(lang).ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load progress")
	}
	result := make(models.ProgressMap, len(rows))
	for _, row := range rows {
		result[row.SubcategoryID] = models.ProgressEntry{
			Level:     row.Level,
			Completed: row.Completed,
			Plan:      row.Plan,
			UpdatedAt: row.UpdatedAt,
		}
	}
	return result, nil
}

// GetClassProgress returns the progress of every student in a class, grouped
// by student then subcategory. Students without any rows are absent.
func (s *ProgressService) GetClassProgress(ctx context.Context, classID string) (models.ClassProgressMap, error) {
	key := classProgressKey(classID)
	if s.cache.Enabled() {
		var cached models.ClassProgressMap
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}
	rows, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class progress")
	}
	result := make(models.ClassProgressMap)
	for _, row := range rows {
		entry := models.ProgressEntry{
			Level:     row.Level,
			Completed: row.Completed,
			Plan:      row.Plan,
			UpdatedAt: row.UpdatedAt,
		}
		if _, ok := result[row.StudentID]; !ok {
			result[row.StudentID] = make(models.ProgressMap)
		}
		result[row.StudentID][row.SubcategoryID] = entry
	}
	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, key, result, 0)
	}
	return result, nil
}

// SetProgress records a partial progress update through the atomic upsert.
func (s *ProgressService) SetProgress(ctx context.Context, studentID string, req SetProgressRequest) (*models.StudentProgress, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid progress payload")
	}
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	progress, err := s.repo.Upsert(ctx, studentID, req.SubcategoryID, req.Level, req.Completed, req.Plan)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save progress")
	}
	if s.cache.Enabled() {
		_ = s.cache.Invalidate(ctx, classProgressKey(student.ClassID))
	}
	return progress, nil
}

// ClearPlan removes the stored goal plan for an existing progress pair. The
// operation never creates a row.
func (s *ProgressService) ClearPlan(ctx context.Context, studentID, subcategoryID string) error {
	if subcategoryID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "subcategory id is required")
	}
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := s.repo.ClearPlan(ctx, studentID, subcategoryID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "no progress recorded for subcategory")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear plan")
	}
	if s.cache.Enabled() {
		_ = s.cache.Invalidate(ctx, classProgressKey(student.ClassID))
	}
	return nil
}

// ExportClassCSV renders the class progress matrix as CSV, one row per
// recorded (student, subcategory) pair ordered by student name.
func (s *ProgressService) ExportClassCSV(ctx context.Context, classID string) ([]byte, error) {
	data, err := s.classProgressDataset(ctx, classID)
	if err != nil {
		return nil, err
	}
	rendered, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render progress export")
	}
	return rendered, nil
}

// ExportClassPDF renders the same progress matrix as a printable PDF table.
func (s *ProgressService) ExportClassPDF(ctx context.Context, classID string) ([]byte, error) {
	data, err := s.classProgressDataset(ctx, classID)
	if err != nil {
		return nil, err
	}
	rendered, err := s.pdf.RenderTable(data, "Class Progress")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render progress export")
	}
	return rendered, nil
}

func (s *ProgressService) classProgressDataset(ctx context.Context, classID string) (export.Dataset, error) {
	roster, err := s.roster.ListStudentSummaries(ctx, classID)
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class roster")
	}
	progress, err := s.GetClassProgress(ctx, classID)
	if err != nil {
		return export.Dataset{}, err
	}
	data := export.Dataset{
		Headers: []string{"student", "subcategory", "level", "completed", "plan"},
	}
	for _, student := range roster {
		entries, ok := progress[student.ID]
		if !ok {
			continue
		}
		subcategories := make([]string, 0, len(entries))
		for id := range entries {
			subcategories = append(subcategories, id)
		}
		sort.Strings(subcategories)
		name := student.LastName + ", " + student.FirstName
		for _, subcategoryID := range subcategories {
			entry := entries[subcategoryID]
			plan := ""
			if entry.Plan != nil {
				plan = *entry.Plan
			}
			data.Rows = append(data.Rows, map[string]string{
				"student":     name,
				"subcategory": subcategoryID,
				"level":       strconv.Itoa(entry.Level),
				"completed":   strconv.FormatBool(entry.Completed),
				"plan":        plan,
			})
		}
	}
	return data, nil
}
