package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/brightsteps/records-api/pkg/config"
)

// New returns a database client for the configured driver. PostgreSQL is the
// default; SQLite is supported for single-file deployments. All queries in
// this module use $N placeholders, which both engines accept.
func New(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch cfg.Driver {
	case "sqlite":
		db, err = sqlx.Open("sqlite3", cfg.Path+"?_foreign_keys=on&_loc=UTC")
	default:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.Name,
			cfg.SSLMode,
		)
		db, err = sqlx.Open("postgres", dsn)
	}
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// schemaStatements create the canonical tables. Only portable DDL is used so
// the same statements run on PostgreSQL and SQLite. The translated shadow
// tables are owned by the shadow sync tooling, not by the live application.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS classes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		age_range TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id TEXT PRIMARY KEY,
		class_id TEXT NOT NULL REFERENCES classes(id),
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		date_of_birth TIMESTAMP NOT NULL,
		diagnoses TEXT,
		strengths TEXT,
		challenges TEXT,
		interests TEXT,
		sensory_needs TEXT,
		communication_style TEXT,
		support_strategies TEXT,
		triggers TEXT,
		calming_strategies TEXT,
		teacher_notes TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_students_class_id ON students(class_id)`,
	`CREATE TABLE IF NOT EXISTS student_progress (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL REFERENCES students(id),
		subcategory_id TEXT NOT NULL,
		level INTEGER NOT NULL DEFAULT 0,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		plan TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_student_progress_pair ON student_progress(student_id, subcategory_id)`,
	`CREATE TABLE IF NOT EXISTS lessons (
		id TEXT PRIMARY KEY,
		class_id TEXT NOT NULL REFERENCES classes(id),
		topic TEXT NOT NULL,
		objective TEXT NOT NULL,
		content TEXT NOT NULL,
		curriculum_area TEXT,
		notes TEXT,
		visual_schedule TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_lessons_class_id ON lessons(class_id)`,
	`CREATE TABLE IF NOT EXISTS custom_cards (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		image_data TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
}

// EnsureSchema creates the canonical tables and indexes when absent. It is
// idempotent and never drops or rewrites existing objects.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
