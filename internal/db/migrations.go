package db

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/ideaforge-backend/internal/logger"
)

// Migration is one versioned schema change. Versions are unique and
// applied in ascending order, each inside its own transaction together
// with its ledger row.
type Migration struct {
	Version int
	Name    string
	Up      func(tx *gorm.DB) error
}

type migrationRecord struct {
	ID        int       `gorm:"primaryKey;autoIncrement"`
	Version   int       `gorm:"uniqueIndex;not null"`
	Name      string    `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

func (migrationRecord) TableName() string { return "schema_migrations" }

type Migrator struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMigrator(db *gorm.DB, log *logger.Logger) *Migrator {
	return &Migrator{db: db, log: log.With("service", "Migrator")}
}

// Run applies every migration whose version is absent from the ledger.
// A migration that fails rolls back atomically and aborts the run.
func (m *Migrator) Run(migrations []Migration) error {
	if err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			version INTEGER UNIQUE NOT NULL,
			name TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create migration ledger: %w", err)
	}

	applied := map[int]bool{}
	var records []migrationRecord
	if err := m.db.Find(&records).Error; err != nil {
		return fmt.Errorf("failed to read migration ledger: %w", err)
	}
	for _, r := range records {
		applied[r.Version] = true
	}

	for _, mig := range migrations {
		if applied[mig.Version] {
			m.log.Debug("Migration already applied", "version", mig.Version, "name", mig.Name)
			continue
		}
		m.log.Info("Applying migration...", "version", mig.Version, "name", mig.Name)
		err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := mig.Up(tx); err != nil {
				return err
			}
			return tx.Create(&migrationRecord{
				Version:   mig.Version,
				Name:      mig.Name,
				AppliedAt: time.Now().UTC(),
			}).Error
		})
		if err != nil {
			m.log.Error("Migration failed", "version", mig.Version, "name", mig.Name, "error", err)
			return fmt.Errorf("migration %d (%s) failed: %w", mig.Version, mig.Name, err)
		}
		m.log.Info("Migration applied", "version", mig.Version, "name", mig.Name)
	}
	return nil
}

// All returns the full migration set in order.
func All() []Migration {
	return []Migration{
		{Version: 1, Name: "initial_schema", Up: initialSchema},
		{Version: 2, Name: "event_log_indexes", Up: eventLogIndexes},
	}
}

func initialSchema(tx *gorm.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS workspaces (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			folder_path TEXT,
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			workspace_id TEXT NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'problem_input',
			current_step TEXT NOT NULL DEFAULT 'problem_input',
			workflow_state TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS core_problems (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			original_input TEXT NOT NULL,
			validated_problem TEXT,
			is_valid INTEGER NOT NULL DEFAULT 0,
			validation_feedback TEXT,
			version INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS personas (
			id TEXT PRIMARY KEY,
			core_problem_id TEXT NOT NULL REFERENCES core_problems(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			industry TEXT NOT NULL,
			role TEXT NOT NULL,
			pain_degree INTEGER NOT NULL DEFAULT 3,
			position INTEGER NOT NULL DEFAULT 0,
			is_locked INTEGER NOT NULL DEFAULT 0,
			is_active INTEGER NOT NULL DEFAULT 0,
			generation_batch TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS pain_points (
			id TEXT PRIMARY KEY,
			persona_id TEXT NOT NULL REFERENCES personas(id) ON DELETE CASCADE,
			description TEXT NOT NULL,
			severity INTEGER,
			impact_area TEXT,
			position INTEGER NOT NULL DEFAULT 0,
			is_locked INTEGER NOT NULL DEFAULT 0,
			generation_batch TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS key_solutions (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			persona_id TEXT NOT NULL REFERENCES personas(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			solution_type TEXT,
			complexity_level TEXT,
			position INTEGER NOT NULL DEFAULT 0,
			is_locked INTEGER NOT NULL DEFAULT 0,
			is_selected INTEGER NOT NULL DEFAULT 0,
			generation_batch TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS solution_pain_point_mappings (
			id TEXT PRIMARY KEY,
			solution_id TEXT NOT NULL REFERENCES key_solutions(id) ON DELETE CASCADE,
			pain_point_id TEXT NOT NULL REFERENCES pain_points(id) ON DELETE CASCADE,
			relevance_score REAL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(solution_id, pain_point_id)
		)`,
		`CREATE TABLE IF NOT EXISTS user_stories (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			as_a TEXT NOT NULL,
			i_want TEXT NOT NULL,
			so_that TEXT NOT NULL,
			acceptance_criteria TEXT NOT NULL DEFAULT '[]',
			priority TEXT,
			complexity_points INTEGER,
			position INTEGER NOT NULL DEFAULT 0,
			is_edited INTEGER NOT NULL DEFAULT 0,
			original_content TEXT,
			edited_content TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS canvas_states (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			nodes TEXT NOT NULL,
			edges TEXT NOT NULL,
			viewport TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS state_events (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			event_type TEXT NOT NULL,
			event_data TEXT NOT NULL,
			event_metadata TEXT,
			sequence_number INTEGER NOT NULL,
			created_by TEXT NOT NULL DEFAULT 'user',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_workspaces_user ON workspaces(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_workspace ON projects(workspace_id)`,
		`CREATE INDEX IF NOT EXISTS idx_core_problems_project ON core_problems(project_id)`,
		`CREATE INDEX IF NOT EXISTS idx_personas_core_problem ON personas(core_problem_id)`,
		`CREATE INDEX IF NOT EXISTS idx_pain_points_persona ON pain_points(persona_id)`,
		`CREATE INDEX IF NOT EXISTS idx_key_solutions_project ON key_solutions(project_id)`,
		`CREATE INDEX IF NOT EXISTS idx_key_solutions_persona ON key_solutions(persona_id)`,
		`CREATE INDEX IF NOT EXISTS idx_user_stories_project ON user_stories(project_id)`,
		`CREATE INDEX IF NOT EXISTS idx_canvas_states_project ON canvas_states(project_id)`,
	}
	for _, stmt := range stmts {
		if err := tx.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func eventLogIndexes(tx *gorm.DB) error {
	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_state_events_project_seq
			ON state_events(project_id, sequence_number)`,
		`CREATE INDEX IF NOT EXISTS idx_state_events_project_type
			ON state_events(project_id, event_type)`,
	}
	for _, stmt := range stmts {
		if err := tx.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
