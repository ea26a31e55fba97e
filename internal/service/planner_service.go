package service

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/brightsteps/records-api/internal/ai"
	"github.com/brightsteps/records-api/internal/models"
	appErrors "github.com/brightsteps/records-api/pkg/errors"
)

type plannerClient interface {
	Enabled() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

type pictogramSearcher interface {
	Search(ctx context.Context, keyword string) (*ai.PictogramMatch, error)
}

type studentLister interface {
	List(ctx context.Context, classID string) ([]models.Student, error)
}

type progressPlanWriter interface {
	SetProgress(ctx context.Context, studentID string, req SetProgressRequest) (*models.StudentProgress, error)
}

// GenerateLessonRequest holds parameters for an AI-authored lesson.
type GenerateLessonRequest struct {
	Topic          string  `json:"topic" validate:"required"`
	Objective      string  `json:"objective" validate:"required"`
	CurriculumArea *string `json:"curriculum_area"`
	Notes          *string `json:"notes"`
}

// VisualScheduleRequest describes the activity to break into schedule steps.
type VisualScheduleRequest struct {
	Activity string `json:"activity" validate:"required"`
}

// PlannerService drives the AI collaborators: lesson generation, goal plans,
// visual schedules and pictogram lookups. Lesson and goal-plan generation are
// fatal on collaborator failure; pictogram lookups degrade silently.
type PlannerService struct {
	planner   plannerClient
	pictogram pictogramSearcher
	lessons   lessonRepository
	students  studentFinder
	roster    studentLister
	classes   classFinder
	progress  progressPlanWriter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPlannerService constructs the planner service.
func NewPlannerService(planner plannerClient, pictogram pictogramSearcher, lessons lessonRepository, students studentFinder, roster studentLister, classes classFinder, progress progressPlanWriter, validate *validator.Validate, logger *zap.Logger) *PlannerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlannerService{
		planner:   planner,
		pictogram: pictogram,
		lessons:   lessons,
		students:  students,
		roster:    roster,
		classes:   classes,
		progress:  progress,
		validator: validate,
		logger:    logger,
	}
}

// GenerateLesson asks the model for a lesson plan tailored to the class
// profile and persists the result.
func (s *PlannerService) GenerateLesson(ctx context.Context, classID string, req GenerateLessonRequest) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson request")
	}
	if !s.planner.Enabled() {
		return nil, appErrors.Clone(appErrors.ErrUpstream, "lesson generation is not configured")
	}
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	students, err := s.roster.List(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class roster")
	}
	content, err := s.planner.Generate(ctx, buildLessonPrompt(class, students, req))
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	lesson := &models.Lesson{
		ClassID:        classID,
		Topic:          req.Topic,
		Objective:      req.Objective,
		Content:        content,
		CurriculumArea: req.CurriculumArea,
		Notes:          req.Notes,
	}
	if err := s.lessons.Create(ctx, lesson); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save generated lesson")
	}
	return lesson, nil
}

// GenerateGoalPlan asks the model for a goal plan for one student and one
// competency subcategory, then stores it on the progress row.
func (s *PlannerService) GenerateGoalPlan(ctx context.Context, studentID, subcategoryID string) (*models.StudentProgress, error) {
	if subcategoryID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subcategory id is required")
	}
	if !s.planner.Enabled() {
		return nil, appErrors.Clone(appErrors.ErrUpstream, "goal plan generation is not configured")
	}
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	plan, err := s.planner.Generate(ctx, buildGoalPrompt(student, subcategoryID))
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	return s.progress.SetProgress(ctx, studentID, SetProgressRequest{
		SubcategoryID: subcategoryID,
		Plan:          &plan,
	})
}

// stepPrefixPattern matches a bullet or "1." / "2)" numbering prefix on a
// model reply line. Digits that start the step text itself stay intact.
var stepPrefixPattern = regexp.MustCompile(`^\s*(?:[-*]|\d+[.)])\s*`)

// BuildVisualSchedule breaks an activity into ordered steps and attaches a
// pictogram to each step where one can be found. Pictogram misses leave the
// step text-only.
func (s *PlannerService) BuildVisualSchedule(ctx context.Context, req VisualScheduleRequest) ([]models.VisualScheduleStep, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule request")
	}
	if !s.planner.Enabled() {
		return nil, appErrors.Clone(appErrors.ErrUpstream, "schedule generation is not configured")
	}
	raw, err := s.planner.Generate(ctx, buildSchedulePrompt(req.Activity))
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	steps := make([]models.VisualScheduleStep, 0, 8)
	for _, line := range strings.Split(raw, "\n") {
		text := strings.TrimSpace(stepPrefixPattern.ReplaceAllString(line, ""))
		if text == "" {
			continue
		}
		step := models.VisualScheduleStep{Order: len(steps) + 1, Text: text}
		if match, err := s.pictogram.Search(ctx, text); err == nil && match != nil {
			url := match.URL
			step.PictogramURL = &url
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// SearchPictogram returns the best pictogram for the keyword, or nil when
// nothing suitable exists.
func (s *PlannerService) SearchPictogram(ctx context.Context, keyword string) (*ai.PictogramMatch, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "keyword is required")
	}
	match, err := s.pictogram.Search(ctx, keyword)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "pictogram lookup failed")
	}
	return match, nil
}

func buildLessonPrompt(class *models.Class, students []models.Student, req GenerateLessonRequest) string {
	var b strings.Builder
	b.WriteString("You are a special education teacher planning a lesson.\n")
	fmt.Fprintf(&b, "Class: %s", class.Name)
	if class.AgeRange != nil && *class.AgeRange != "" {
		fmt.Fprintf(&b, " (ages %s)", *class.AgeRange)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Topic: %s\nObjective: %s\n", req.Topic, req.Objective)
	if req.CurriculumArea != nil && *req.CurriculumArea != "" {
		fmt.Fprintf(&b, "Curriculum area: %s\n", *req.CurriculumArea)
	}
	if req.Notes != nil && *req.Notes != "" {
		fmt.Fprintf(&b, "Teacher notes: %s\n", *req.Notes)
	}
	if len(students) > 0 {
		b.WriteString("Student profiles:\n")
		for _, st := range students {
			fmt.Fprintf(&b, "- %s: strengths %s; challenges %s; interests %s; sensory needs %s\n",
				st.FirstName,
				strings.Join(st.Strengths, ", "),
				strings.Join(st.Challenges, ", "),
				strings.Join(st.Interests, ", "),
				strings.Join(st.SensoryNeeds, ", "))
		}
	}
	b.WriteString("Write a structured lesson plan with warm-up, main activity, differentiation per student need, and wrap-up.")
	return b.String()
}

func buildGoalPrompt(student *models.Student, subcategoryID string) string {
	var b strings.Builder
	b.WriteString("You are a special education teacher writing a short, actionable goal plan.\n")
	fmt.Fprintf(&b, "Student: %s %s\n", student.FirstName, student.LastName)
	if len(student.Strengths) > 0 {
		fmt.Fprintf(&b, "Strengths: %s\n", strings.Join(student.Strengths, ", "))
	}
	if len(student.Challenges) > 0 {
		fmt.Fprintf(&b, "Challenges: %s\n", strings.Join(student.Challenges, ", "))
	}
	if len(student.SupportStrategies) > 0 {
		fmt.Fprintf(&b, "Support strategies that work: %s\n", strings.Join(student.SupportStrategies, ", "))
	}
	if student.CommunicationStyle != nil && *student.CommunicationStyle != "" {
		fmt.Fprintf(&b, "Communication style: %s\n", *student.CommunicationStyle)
	}
	fmt.Fprintf(&b, "Competency area: %s\n", subcategoryID)
	b.WriteString("Write 3-5 concrete steps the teacher can take over the next weeks.")
	return b.String()
}

func buildSchedulePrompt(activity string) string {
	return fmt.Sprintf("Break the activity %q into 4-8 short visual schedule steps for a special education class. Return one step per line, no numbering, each step 2-4 simple words.", activity)
}
