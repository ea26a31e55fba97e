package models

import "time"

// StudentProgress tracks one student's standing on one competency
// subcategory. The (student_id, subcategory_id) pair is unique; writes go
// through an atomic upsert so the invariant holds under concurrent callers.
type StudentProgress struct {
	ID            string    `db:"id" json:"id"`
	StudentID     string    `db:"student_id" json:"student_id"`
	SubcategoryID string    `db:"subcategory_id" json:"subcategory_id"`
	Level         int       `db:"level" json:"level"`
	Completed     bool      `db:"completed" json:"completed"`
	Plan          *string   `db:"plan" json:"plan"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ProgressEntry is the per-subcategory projection returned to callers.
type ProgressEntry struct {
	Level     int       `json:"level"`
	Completed bool      `json:"completed"`
	Plan      *string   `json:"plan"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProgressMap maps subcategory ids to progress entries for one student.
type ProgressMap map[string]ProgressEntry

// ClassProgressMap maps student ids to their progress maps. Students with no
// progress rows are absent from the key set.
type ClassProgressMap map[string]ProgressMap
