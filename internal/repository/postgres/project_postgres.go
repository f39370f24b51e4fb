package postgres

import (
	"context"
	"database/sql"

	"adaptagent/internal/model"
	"adaptagent/internal/repository"
)

// ProjectPostgres is a PostgreSQL implementation of repository.ProjectRepository.
type ProjectPostgres struct {
	db *sql.DB
}

// NewProjectPostgres creates a new ProjectPostgres repository.
func NewProjectPostgres(db *sql.DB) *ProjectPostgres {
	return &ProjectPostgres{db: db}
}

var _ repository.ProjectRepository = (*ProjectPostgres)(nil)

const projectColumns = `id, owner_id, name, description, created_at, updated_at`

func scanProject(s scanner) (*model.Project, error) {
	var p model.Project
	if err := s.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a project row.
func (r *ProjectPostgres) Create(ctx context.Context, p *model.Project) (*model.Project, error) {
	const q = `
		INSERT INTO projects (id, owner_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + projectColumns
	row := r.db.QueryRowContext(ctx, q, p.ID, p.OwnerID, p.Name, p.Description, p.CreatedAt, p.UpdatedAt)
	out, err := scanProject(row)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// FindByID fetches a project owned by ownerID.
func (r *ProjectPostgres) FindByID(ctx context.Context, ownerID, id string) (*model.Project, error) {
	const q = `SELECT ` + projectColumns + ` FROM projects WHERE id = $1 AND owner_id = $2`
	return scanProject(r.db.QueryRowContext(ctx, q, id, ownerID))
}

// List returns the owner's projects newest first.
func (r *ProjectPostgres) List(ctx context.Context, ownerID string, pq repository.PageQuery) (*repository.PageResult[model.Project], error) {
	const qCount = `SELECT COUNT(*) FROM projects WHERE owner_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, ownerID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `SELECT ` + projectColumns + `
		FROM projects
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, qList, ownerID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Project]{Items: items, Total: total}, nil
}

// Update writes name and description. It returns sql.ErrNoRows when the project is not the owner's.
func (r *ProjectPostgres) Update(ctx context.Context, p *model.Project) (*model.Project, error) {
	const q = `
		UPDATE projects
		SET name = $3, description = $4, updated_at = $5
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + projectColumns
	row := r.db.QueryRowContext(ctx, q, p.ID, p.OwnerID, p.Name, p.Description, p.UpdatedAt)
	return scanProject(row)
}

// Delete removes a project; its tasks go with it.
func (r *ProjectPostgres) Delete(ctx context.Context, ownerID, id string) error {
	const q = `DELETE FROM projects WHERE id = $1 AND owner_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
