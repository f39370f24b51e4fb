package postgres

import (
	"context"
	"database/sql"

	"adaptagent/internal/model"
	"adaptagent/internal/repository"
)

// AttachmentPostgres is a PostgreSQL implementation of repository.AttachmentRepository.
type AttachmentPostgres struct {
	db *sql.DB
}

// NewAttachmentPostgres creates a new AttachmentPostgres repository.
func NewAttachmentPostgres(db *sql.DB) *AttachmentPostgres {
	return &AttachmentPostgres{db: db}
}

var _ repository.AttachmentRepository = (*AttachmentPostgres)(nil)

const attachmentColumns = `id, owner_id, filename, storage_path, size, content_type, created_at`

func scanAttachment(s scanner) (*model.Attachment, error) {
	var a model.Attachment
	if err := s.Scan(
		&a.ID,
		&a.OwnerID,
		&a.Filename,
		&a.StoragePath,
		&a.Size,
		&a.ContentType,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new attachment row and returns the stored record.
func (r *AttachmentPostgres) Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error) {
	const q = `
		INSERT INTO attachments (id, owner_id, filename, storage_path, size, content_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + attachmentColumns
	row := r.db.QueryRowContext(ctx, q,
		a.ID,
		a.OwnerID,
		a.Filename,
		a.StoragePath,
		a.Size,
		a.ContentType,
		a.CreatedAt,
	)
	out, err := scanAttachment(row)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// FindByID fetches a single attachment owned by ownerID.
func (r *AttachmentPostgres) FindByID(ctx context.Context, ownerID, id string) (*model.Attachment, error) {
	const q = `SELECT ` + attachmentColumns + ` FROM attachments WHERE id = $1 AND owner_id = $2`
	return scanAttachment(r.db.QueryRowContext(ctx, q, id, ownerID))
}

// List returns the owner's attachments newest first, with a total count.
func (r *AttachmentPostgres) List(ctx context.Context, ownerID string, pq repository.PageQuery) (*repository.PageResult[model.Attachment], error) {
	const qCount = `SELECT COUNT(*) FROM attachments WHERE owner_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, ownerID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `SELECT ` + attachmentColumns + `
		FROM attachments
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, qList, ownerID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Attachment, 0)
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Attachment]{Items: items, Total: total}, nil
}

// Delete removes an attachment row. It returns sql.ErrNoRows when nothing matched.
func (r *AttachmentPostgres) Delete(ctx context.Context, ownerID, id string) error {
	const q = `DELETE FROM attachments WHERE id = $1 AND owner_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
