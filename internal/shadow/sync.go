package shadow

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Policy names the conflict behaviour of a bulk copy into the shadow tables.
type Policy int

const (
	// PolicyReplace overwrites existing shadow rows with the canonical
	// values. Used for a full resync; manual edits to translated text are
	// lost.
	PolicyReplace Policy = iota
	// PolicySeed only inserts rows missing from the shadow tables, keeping
	// any manually translated content intact.
	PolicySeed
)

func (p Policy) String() string {
	if p == PolicySeed {
		return "seed"
	}
	return "replace"
}

// Result reports how many rows each copy touched.
type Result struct {
	Classes  int64 `json:"classes"`
	Students int64 `json:"students"`
	Progress int64 `json:"progress"`
}

type tableSpec struct {
	source  string
	target  string
	create  string
	columns []column
}

type column struct {
	name    string
	sqlType string
}

// Shadow rows keep the canonical row's id as their primary key so a
// localized read is a direct per-id substitution of the canonical one.
var tables = []tableSpec{
	{
		source: "classes",
		target: "classes_translated",
		create: `CREATE TABLE IF NOT EXISTS classes_translated (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			age_range TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		columns: []column{
			{"id", "TEXT"}, {"name", "TEXT"}, {"description", "TEXT"}, {"age_range", "TEXT"},
			{"created_at", "TIMESTAMP"}, {"updated_at", "TIMESTAMP"},
		},
	},
	{
		source: "students",
		target: "students_translated",
		create: `CREATE TABLE IF NOT EXISTS students_translated (
			id TEXT PRIMARY KEY,
			class_id TEXT NOT NULL,
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
		columns: []column{
			{"id", "TEXT"}, {"class_id", "TEXT"}, {"first_name", "TEXT"}, {"last_name", "TEXT"},
			{"date_of_birth", "TIMESTAMP"}, {"diagnoses", "TEXT"}, {"strengths", "TEXT"},
			{"challenges", "TEXT"}, {"interests", "TEXT"}, {"sensory_needs", "TEXT"},
			{"communication_style", "TEXT"}, {"support_strategies", "TEXT"}, {"triggers", "TEXT"},
			{"calming_strategies", "TEXT"}, {"teacher_notes", "TEXT"},
			{"created_at", "TIMESTAMP"}, {"updated_at", "TIMESTAMP"},
		},
	},
	{
		source: "student_progress",
		target: "student_progress_translated",
		create: `CREATE TABLE IF NOT EXISTS student_progress_translated (
			id TEXT PRIMARY KEY,
			student_id TEXT NOT NULL,
			subcategory_id TEXT NOT NULL,
			level INTEGER NOT NULL DEFAULT 0,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			plan TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		columns: []column{
			{"id", "TEXT"}, {"student_id", "TEXT"}, {"subcategory_id", "TEXT"},
			{"level", "INTEGER"}, {"completed", "BOOLEAN"}, {"plan", "TEXT"},
			{"created_at", "TIMESTAMP"}, {"updated_at", "TIMESTAMP"},
		},
	},
}

var indexStatements = []string{
	`CREATE INDEX IF NOT EXISTS idx_students_translated_class_id ON students_translated(class_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_student_progress_translated_pair ON student_progress_translated(student_id, subcategory_id)`,
}

// Syncer maintains the translated shadow tables. It is operated out-of-band
// by the sync CLI and is never invoked by request-serving code.
type Syncer struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewSyncer constructs a shadow table syncer.
func NewSyncer(db *sqlx.DB, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{db: db, logger: logger}
}

// EnsureSchema idempotently creates the shadow tables and their indexes. It
// never drops or rewrites existing objects, so repeated runs are safe.
func (s *Syncer) EnsureSchema(ctx context.Context) error {
	for _, spec := range tables {
		if _, err := s.db.ExecContext(ctx, spec.create); err != nil {
			return fmt.Errorf("create %s: %w", spec.target, err)
		}
	}
	for _, stmt := range indexStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create shadow index: %w", err)
		}
	}
	return nil
}

// CopyAll bulk-copies canonical rows into the shadow tables under the given
// conflict policy. Replace is a full resync; seed preserves manual edits.
func (s *Syncer) CopyAll(ctx context.Context, policy Policy) (*Result, error) {
	if err := s.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	result := &Result{}
	for _, spec := range tables {
		affected, err := s.copyTable(ctx, spec, policy)
		if err != nil {
			return nil, err
		}
		switch spec.source {
		case "classes":
			result.Classes = affected
		case "students":
			result.Students = affected
		case "student_progress":
			result.Progress = affected
		}
		s.logger.Info("shadow copy",
			zap.String("table", spec.target),
			zap.String("policy", policy.String()),
			zap.Int64("rows", affected))
	}
	return result, nil
}

func (s *Syncer) copyTable(ctx context.Context, spec tableSpec, policy Policy) (int64, error) {
	names := make([]string, len(spec.columns))
	for i, col := range spec.columns {
		names[i] = col.name
	}
	colList := strings.Join(names, ", ")

	var conflict string
	if policy == PolicySeed {
		conflict = "ON CONFLICT (id) DO NOTHING"
	} else {
		var sets []string
		for _, col := range spec.columns {
			if col.name == "id" {
				continue
			}
			sets = append(sets, fmt.Sprintf("%s = excluded.%s", col.name, col.name))
		}
		conflict = "ON CONFLICT (id) DO UPDATE SET " + strings.Join(sets, ", ")
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s %s",
		spec.target, colList, colList, spec.source, conflict)
	res, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("copy %s: %w", spec.target, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return affected, nil
}

// DeltaSync repairs append-only schema drift on the shadow tables: it
// creates missing tables and adds missing columns, deleting nothing. Meant
// for remote shadow targets that must never lose manually translated rows.
func (s *Syncer) DeltaSync(ctx context.Context) error {
	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}

	for _, spec := range tables {
		existing, err := s.tableColumns(ctx, spec.target)
		if err != nil {
			return err
		}
		for _, col := range spec.columns {
			if _, ok := existing[col.name]; ok {
				continue
			}
			stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", spec.target, col.name, col.sqlType)
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("add column %s.%s: %w", spec.target, col.name, err)
			}
			s.logger.Info("shadow column added",
				zap.String("table", spec.target),
				zap.String("column", col.name))
		}
	}
	return nil
}

// tableColumns discovers the live column set with a zero-row select, which
// works identically on PostgreSQL and SQLite.
func (s *Syncer) tableColumns(ctx context.Context, table string) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT 0", table))
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", table, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", table, err)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inspect %s: %w", table, err)
	}

	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set, nil
}

// Reset drops and rebuilds the shadow tables from the canonical snapshot.
// Destructive; the CLI gates it behind an explicit confirmation flag.
func (s *Syncer) Reset(ctx context.Context) (*Result, error) {
	for _, spec := range tables {
		if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", spec.target)); err != nil {
			return nil, fmt.Errorf("drop %s: %w", spec.target, err)
		}
	}
	return s.CopyAll(ctx, PolicyReplace)
}
