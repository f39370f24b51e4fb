package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"adaptagent/internal/model"
	"adaptagent/internal/repository"
)

// TaskPostgres is a PostgreSQL implementation of repository.TaskRepository.
type TaskPostgres struct {
	db *sql.DB
}

// NewTaskPostgres creates a new TaskPostgres repository.
func NewTaskPostgres(db *sql.DB) *TaskPostgres {
	return &TaskPostgres{db: db}
}

var _ repository.TaskRepository = (*TaskPostgres)(nil)

const taskColumns = `id, owner_id, project_id, title, description, status, model, due_date, created_at, updated_at`

func scanTask(s scanner) (*model.Task, error) {
	var (
		t         model.Task
		projectID sql.NullString
		llmModel  sql.NullString
		dueDate   sql.NullTime
	)
	if err := s.Scan(
		&t.ID,
		&t.OwnerID,
		&projectID,
		&t.Title,
		&t.Description,
		&t.Status,
		&llmModel,
		&dueDate,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.ProjectID = stringPtr(projectID)
	t.Model = stringPtr(llmModel)
	t.DueDate = timePtr(dueDate)
	return &t, nil
}

// Create inserts a task row.
func (r *TaskPostgres) Create(ctx context.Context, t *model.Task) (*model.Task, error) {
	const q = `
		INSERT INTO tasks (id, owner_id, project_id, title, description, status, model, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + taskColumns
	row := r.db.QueryRowContext(ctx, q,
		t.ID,
		t.OwnerID,
		nullString(t.ProjectID),
		t.Title,
		t.Description,
		t.Status,
		nullString(t.Model),
		nullTime(t.DueDate),
		t.CreatedAt,
		t.UpdatedAt,
	)
	out, err := scanTask(row)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// FindByID fetches a task owned by ownerID.
func (r *TaskPostgres) FindByID(ctx context.Context, ownerID, id string) (*model.Task, error) {
	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND owner_id = $2`
	return scanTask(r.db.QueryRowContext(ctx, q, id, ownerID))
}

// List returns the owner's tasks matching f, newest first.
func (r *TaskPostgres) List(ctx context.Context, ownerID string, f repository.TaskFilter, pq repository.PageQuery) (*repository.PageResult[model.Task], error) {
	w := &where{}
	w.add("owner_id = $?", ownerID)
	if f.ProjectID != "" {
		w.add("project_id = $?", f.ProjectID)
	}
	if f.Status != "" {
		w.add("status = $?", f.Status)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE `+w.String(), w.args...).Scan(&total); err != nil {
		return nil, err
	}

	qList := fmt.Sprintf(`SELECT %s
		FROM tasks
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, taskColumns, w.String(), w.next(), w.next()+1)
	args := append(w.args, pq.Limit, pq.Offset)
	rows, err := r.db.QueryContext(ctx, qList, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Task]{Items: items, Total: total}, nil
}

// Update writes every mutable task field.
func (r *TaskPostgres) Update(ctx context.Context, t *model.Task) (*model.Task, error) {
	const q = `
		UPDATE tasks
		SET project_id = $3, title = $4, description = $5, status = $6, model = $7, due_date = $8, updated_at = $9
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + taskColumns
	row := r.db.QueryRowContext(ctx, q,
		t.ID,
		t.OwnerID,
		nullString(t.ProjectID),
		t.Title,
		t.Description,
		t.Status,
		nullString(t.Model),
		nullTime(t.DueDate),
		t.UpdatedAt,
	)
	return scanTask(row)
}

// Delete removes a task owned by ownerID.
func (r *TaskPostgres) Delete(ctx context.Context, ownerID, id string) error {
	const q = `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// CountByStatus groups the owner's tasks by status, optionally within one project.
func (r *TaskPostgres) CountByStatus(ctx context.Context, ownerID, projectID string) (map[string]int, error) {
	var w where
	w.add("owner_id = $?", ownerID)
	if projectID != "" {
		w.add("project_id = $?", projectID)
	}
	q := `SELECT status, COUNT(*) FROM tasks WHERE ` + w.String() + ` GROUP BY status`
	rows, err := r.db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
