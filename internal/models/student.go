package models

import "time"

// Student represents a learner profile within a class. The list-valued
// profile fields are stored as serialized text and parsed on read.
type Student struct {
	ID                 string     `db:"id" json:"id"`
	ClassID            string     `db:"class_id" json:"class_id"`
	FirstName          string     `db:"first_name" json:"first_name"`
	LastName           string     `db:"last_name" json:"last_name"`
	DateOfBirth        time.Time  `db:"date_of_birth" json:"date_of_birth"`
	Diagnoses          StringList `db:"diagnoses" json:"diagnoses"`
	Strengths          StringList `db:"strengths" json:"strengths"`
	Challenges         StringList `db:"challenges" json:"challenges"`
	Interests          StringList `db:"interests" json:"interests"`
	SensoryNeeds       StringList `db:"sensory_needs" json:"sensory_needs"`
	CommunicationStyle *string    `db:"communication_style" json:"communication_style,omitempty"`
	SupportStrategies  StringList `db:"support_strategies" json:"support_strategies"`
	Triggers           StringList `db:"triggers" json:"triggers"`
	CalmingStrategies  StringList `db:"calming_strategies" json:"calming_strategies"`
	TeacherNotes       *string    `db:"teacher_notes" json:"teacher_notes,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// StudentSummary is the roster projection nested under a class detail.
type StudentSummary struct {
	ID          string    `db:"id" json:"id"`
	FirstName   string    `db:"first_name" json:"first_name"`
	LastName    string    `db:"last_name" json:"last_name"`
	DateOfBirth time.Time `db:"date_of_birth" json:"date_of_birth"`
}
