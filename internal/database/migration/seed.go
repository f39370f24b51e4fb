package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// SampleUsername is the account created by Seed.
const SampleUsername = "sample_user"

// Seed inserts a sample user with one project, task and tagged knowledge entry.
// It does nothing when any user already exists.
func Seed(ctx context.Context, db *sql.DB, logger *slog.Logger, passwordHash string) error {
	log := logger.With("component", "database")

	var users int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&users); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if users > 0 {
		log.Info("db_seed_skip", "status", "success", "msg_detail", "database already contains data")
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var userID, projectID, knowledgeID string
	if err := tx.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id`,
		SampleUsername, "sample_user@example.com", passwordHash,
	).Scan(&userID); err != nil {
		return fmt.Errorf("seed user: %w", err)
	}
	if err := tx.QueryRowContext(ctx,
		`INSERT INTO projects (owner_id, name, description) VALUES ($1, $2, $3) RETURNING id`,
		userID, "Sample Project", "This is a sample project",
	).Scan(&projectID); err != nil {
		return fmt.Errorf("seed project: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO tasks (owner_id, project_id, title, description) VALUES ($1, $2, $3, $4)`,
		userID, projectID, "Sample Task", "This is a sample task",
	); err != nil {
		return fmt.Errorf("seed task: %w", err)
	}
	if err := tx.QueryRowContext(ctx,
		`INSERT INTO knowledge (owner_id, project_id, title, content, model) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		userID, projectID, "Sample", "This is a sample knowledge entry", "gpt-3.5-turbo",
	).Scan(&knowledgeID); err != nil {
		return fmt.Errorf("seed knowledge: %w", err)
	}
	for _, tag := range []string{"sample", "example"} {
		if _, err := tx.ExecContext(ctx, `
			WITH t AS (
				INSERT INTO tags (name) VALUES ($1)
				ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
				RETURNING id
			)
			INSERT INTO knowledge_tags (knowledge_id, tag_id) SELECT $2, id FROM t`,
			tag, knowledgeID,
		); err != nil {
			return fmt.Errorf("seed tag %s: %w", tag, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	log.Info("db_seed_success", "status", "success", "username", SampleUsername)
	return nil
}
