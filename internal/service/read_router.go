package service

import (
	"context"
	"strings"

	"github.com/brightsteps/records-api/internal/models"
)

// ClassReader is the read surface shared by canonical and translated class tables.
type ClassReader interface {
	List(ctx context.Context) ([]models.ClassWithCount, error)
	FindByID(ctx context.Context, id string) (*models.Class, error)
	ListStudentSummaries(ctx context.Context, classID string) ([]models.StudentSummary, error)
}

// StudentReader is the read surface shared by canonical and translated student tables.
type StudentReader interface {
	List(ctx context.Context, classID string) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// ProgressReader is the read surface shared by canonical and translated progress tables.
type ProgressReader interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.StudentProgress, error)
}

// LocaleRouter selects the table set a read runs against based on the request
// language. Every entity in a single response comes from one table set; there
// is no per-row fallback to the canonical tables.
type LocaleRouter struct {
	defaultLang string

	classes            ClassReader
	students           StudentReader
	progress           ProgressReader
	translatedClasses  ClassReader
	translatedStudents StudentReader
	translatedProgress ProgressReader
}

// NewLocaleRouter wires canonical and translated readers behind one selector.
func NewLocaleRouter(
	defaultLang string,
	classes ClassReader, students StudentReader, progress ProgressReader,
	translatedClasses ClassReader, translatedStudents StudentReader, translatedProgress ProgressReader,
) *LocaleRouter {
	if defaultLang == "" {
		defaultLang = "en"
	}
	return &LocaleRouter{
		defaultLang:        strings.ToLower(defaultLang),
		classes:            classes,
		students:           students,
		progress:           progress,
		translatedClasses:  translatedClasses,
		translatedStudents: translatedStudents,
		translatedProgress: translatedProgress,
	}
}

// Normalize lowercases the language tag and strips any region subtag, so
// "SV-se" and "sv" route the same way. Empty input maps to the default.
func (r *LocaleRouter) Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if idx := strings.IndexAny(lang, "-_"); idx > 0 {
		lang = lang[:idx]
	}
	if lang == "" {
		return r.defaultLang
	}
	return lang
}

func (r *LocaleRouter) translated(lang string) bool {
	return r.Normalize(lang) != r.defaultLang
}

// Classes returns the class reader for the given language.
func (r *LocaleRouter) Classes(lang string) ClassReader {
	if r.translated(lang) {
		return r.translatedClasses
	}
	return r.classes
}

// Students returns the student reader for the given language.
func (r *LocaleRouter) Students(lang string) StudentReader {
	if r.translated(lang) {
		return r.translatedStudents
	}
	return r.students
}

// Progress returns the progress reader for the given language.
func (r *LocaleRouter) Progress(lang string) ProgressReader {
	if r.translated(lang) {
		return r.translatedProgress
	}
	return r.progress
}
