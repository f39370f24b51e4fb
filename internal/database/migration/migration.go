package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
  name       TEXT        PRIMARY KEY,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// steps are applied in order. Append only: names are recorded in schema_migrations.
var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  username      TEXT        NOT NULL UNIQUE,
  email         TEXT        NOT NULL UNIQUE,
  password_hash TEXT        NOT NULL,
  full_name     TEXT        NOT NULL DEFAULT '',
  bio           TEXT        NOT NULL DEFAULT '',
  role          TEXT        NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
  disabled      BOOLEAN     NOT NULL DEFAULT false,
  last_login_at TIMESTAMPTZ,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_projects",
		SQL: `CREATE TABLE IF NOT EXISTS projects (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  owner_id    UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  name        TEXT        NOT NULL,
  description TEXT        NOT NULL DEFAULT '',
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_projects_owner_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_projects_owner_id ON projects (owner_id);`,
	},
	{
		Name: "create_index_projects_name",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_projects_name ON projects (name);`,
	},
	{
		Name: "create_table_tasks",
		SQL: `CREATE TABLE IF NOT EXISTS tasks (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  owner_id    UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  project_id  UUID        REFERENCES projects (id) ON DELETE CASCADE,
  title       TEXT        NOT NULL,
  description TEXT        NOT NULL DEFAULT '',
  status      TEXT        NOT NULL DEFAULT 'pending'
              CHECK (status IN ('pending', 'in_progress', 'completed', 'failed')),
  model       TEXT,
  due_date    TIMESTAMPTZ,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_tasks_owner_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_tasks_owner_id ON tasks (owner_id);`,
	},
	{
		Name: "create_index_tasks_project_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_tasks_project_id ON tasks (project_id);`,
	},
	{
		Name: "create_index_tasks_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks (status);`,
	},
	{
		Name: "create_table_knowledge",
		SQL: `CREATE TABLE IF NOT EXISTS knowledge (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  owner_id   UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  project_id UUID        REFERENCES projects (id) ON DELETE SET NULL,
  title      TEXT        NOT NULL DEFAULT '',
  content    TEXT        NOT NULL,
  model      TEXT,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_knowledge_owner_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_knowledge_owner_id ON knowledge (owner_id);`,
	},
	{
		Name: "create_index_knowledge_title",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_knowledge_title ON knowledge (title);`,
	},
	{
		Name: "create_table_tags",
		SQL: `CREATE TABLE IF NOT EXISTS tags (
  id   UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
  name TEXT NOT NULL UNIQUE
);`,
	},
	{
		Name: "create_table_knowledge_tags",
		SQL: `CREATE TABLE IF NOT EXISTS knowledge_tags (
  knowledge_id UUID NOT NULL REFERENCES knowledge (id) ON DELETE CASCADE,
  tag_id       UUID NOT NULL REFERENCES tags (id) ON DELETE CASCADE,
  PRIMARY KEY (knowledge_id, tag_id)
);`,
	},
	{
		Name: "create_index_knowledge_tags_tag_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_knowledge_tags_tag_id ON knowledge_tags (tag_id);`,
	},
	{
		Name: "create_table_attachments",
		SQL: `CREATE TABLE IF NOT EXISTS attachments (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  owner_id     UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  filename     TEXT        NOT NULL,
  storage_path TEXT        NOT NULL UNIQUE,
  size         BIGINT      NOT NULL CHECK (size >= 0),
  content_type TEXT        NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_attachments_owner_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_attachments_owner_id ON attachments (owner_id, created_at);`,
	},
}

// EnsureMigrated applies every step not yet recorded in schema_migrations.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *slog.Logger, dbHost string) error {
	start := time.Now()
	log := logger.With("component", "database", "db_host", dbHost)

	log.Info("db_migration_check", "status", "starting")

	if _, err := db.ExecContext(ctx, createMigrationsTable); err != nil {
		log.Error("db_migration_failed", "status", "error",
			"error_message", fmt.Sprintf("failed to create schema_migrations: %v", err),
			"duration_ms", time.Since(start).Milliseconds())
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	applied, err := appliedSteps(ctx, db)
	if err != nil {
		log.Error("db_migration_failed", "status", "error",
			"error_message", err.Error(),
			"duration_ms", time.Since(start).Milliseconds())
		return err
	}

	pending := make([]migrationStep, 0, len(steps))
	for _, step := range steps {
		if !applied[step.Name] {
			pending = append(pending, step)
		}
	}
	if len(pending) == 0 {
		log.Info("db_migration_skip", "status", "success",
			"msg_detail", "schema up to date, skipping migration",
			"duration_ms", time.Since(start).Milliseconds())
		return nil
	}

	log.Info("db_migration_start", "status", "in_progress", "pending_steps", len(pending))

	for _, step := range pending {
		stepStart := time.Now()
		if err := applyStep(ctx, db, step); err != nil {
			log.Error("db_migration_failed", "status", "error",
				"migration_step", step.Name,
				"error_message", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds())
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step", "status", "success",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds())
	}

	log.Info("db_migration_success", "status", "success",
		"duration_ms", time.Since(start).Milliseconds())

	return nil
}

func appliedSteps(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan schema_migrations: %w", err)
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

func applyStep(ctx context.Context, db *sql.DB, step migrationStep) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, step.Name); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
