package models

import "time"

// Class represents a teaching group owning zero or more students.
type Class struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	AgeRange    *string   `db:"age_range" json:"age_range,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ClassWithCount decorates a class with its current student count.
type ClassWithCount struct {
	Class
	StudentCount int `db:"student_count" json:"student_count"`
}

// ClassDetail extends Class with its student roster.
type ClassDetail struct {
	Class
	Students     []StudentSummary `json:"students"`
	StudentCount int              `json:"student_count"`
}
