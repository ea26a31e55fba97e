package models

import "time"

// Lesson holds generated lesson content for a class. The creation timestamp
// is immutable and drives the default newest-first ordering.
type Lesson struct {
	ID             string    `db:"id" json:"id"`
	ClassID        string    `db:"class_id" json:"class_id"`
	Topic          string    `db:"topic" json:"topic"`
	Objective      string    `db:"objective" json:"objective"`
	Content        string    `db:"content" json:"content"`
	CurriculumArea *string   `db:"curriculum_area" json:"curriculum_area,omitempty"`
	Notes          *string   `db:"notes" json:"notes,omitempty"`
	VisualSchedule *string   `db:"visual_schedule" json:"visual_schedule,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
