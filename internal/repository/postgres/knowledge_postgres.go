package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"adaptagent/internal/model"
	"adaptagent/internal/repository"
)

// KnowledgePostgres is a PostgreSQL implementation of repository.KnowledgeRepository.
// Tags live in tags/knowledge_tags and are aggregated into Knowledge.Tags on read.
type KnowledgePostgres struct {
	db *sql.DB
}

// NewKnowledgePostgres creates a new KnowledgePostgres repository.
func NewKnowledgePostgres(db *sql.DB) *KnowledgePostgres {
	return &KnowledgePostgres{db: db}
}

var _ repository.KnowledgeRepository = (*KnowledgePostgres)(nil)

const knowledgeColumns = `id, owner_id, project_id, title, content, model, created_at, updated_at`

const knowledgeSelect = `
	SELECT k.id, k.owner_id, k.project_id, k.title, k.content, k.model,
	       COALESCE(array_agg(t.name ORDER BY t.name) FILTER (WHERE t.name IS NOT NULL), '{}') AS tags,
	       k.created_at, k.updated_at
	FROM knowledge k
	LEFT JOIN knowledge_tags kt ON kt.knowledge_id = k.id
	LEFT JOIN tags t ON t.id = kt.tag_id`

func scanKnowledge(s scanner, withTags bool) (*model.Knowledge, error) {
	var (
		k         model.Knowledge
		projectID sql.NullString
		llmModel  sql.NullString
		tags      pq.StringArray
	)
	dest := []any{&k.ID, &k.OwnerID, &projectID, &k.Title, &k.Content, &llmModel}
	if withTags {
		dest = append(dest, &tags)
	}
	dest = append(dest, &k.CreatedAt, &k.UpdatedAt)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	k.ProjectID = stringPtr(projectID)
	k.Model = stringPtr(llmModel)
	k.Tags = []string(tags)
	if k.Tags == nil {
		k.Tags = []string{}
	}
	return &k, nil
}

// Create inserts the entry and links its tags in one transaction.
func (r *KnowledgePostgres) Create(ctx context.Context, k *model.Knowledge) (*model.Knowledge, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	const q = `
		INSERT INTO knowledge (id, owner_id, project_id, title, content, model, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + knowledgeColumns
	out, err := scanKnowledge(tx.QueryRowContext(ctx, q,
		k.ID,
		k.OwnerID,
		nullString(k.ProjectID),
		k.Title,
		k.Content,
		nullString(k.Model),
		k.CreatedAt,
		k.UpdatedAt,
	), false)
	if err != nil {
		return nil, mapError(err)
	}

	if err := linkTags(ctx, tx, out.ID, k.Tags); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	out.Tags = append([]string{}, k.Tags...)
	return out, nil
}

// FindByID fetches an entry owned by ownerID with its tags.
func (r *KnowledgePostgres) FindByID(ctx context.Context, ownerID, id string) (*model.Knowledge, error) {
	q := knowledgeSelect + `
	WHERE k.id = $1 AND k.owner_id = $2
	GROUP BY k.id`
	return scanKnowledge(r.db.QueryRowContext(ctx, q, id, ownerID), true)
}

// List returns the owner's entries matching f, newest first.
func (r *KnowledgePostgres) List(ctx context.Context, ownerID string, f repository.KnowledgeFilter, page repository.PageQuery) (*repository.PageResult[model.Knowledge], error) {
	w := &where{}
	w.add("k.owner_id = $?", ownerID)
	if f.ProjectID != "" {
		w.add("k.project_id = $?", f.ProjectID)
	}
	if f.Tag != "" {
		w.add(`EXISTS (
			SELECT 1 FROM knowledge_tags ft JOIN tags fn ON fn.id = ft.tag_id
			WHERE ft.knowledge_id = k.id AND fn.name = $?)`, f.Tag)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM knowledge k WHERE `+w.String(), w.args...).Scan(&total); err != nil {
		return nil, err
	}

	qList := fmt.Sprintf(`%s
	WHERE %s
	GROUP BY k.id
	ORDER BY k.created_at DESC, k.id DESC
	LIMIT $%d OFFSET $%d`, knowledgeSelect, w.String(), w.next(), w.next()+1)
	args := append(w.args, page.Limit, page.Offset)
	rows, err := r.db.QueryContext(ctx, qList, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Knowledge, 0)
	for rows.Next() {
		k, err := scanKnowledge(rows, true)
		if err != nil {
			return nil, err
		}
		items = append(items, *k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Knowledge]{Items: items, Total: total}, nil
}

// Update writes the entry and replaces its tag links.
func (r *KnowledgePostgres) Update(ctx context.Context, k *model.Knowledge) (*model.Knowledge, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	const q = `
		UPDATE knowledge
		SET project_id = $3, title = $4, content = $5, model = $6, updated_at = $7
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + knowledgeColumns
	out, err := scanKnowledge(tx.QueryRowContext(ctx, q,
		k.ID,
		k.OwnerID,
		nullString(k.ProjectID),
		k.Title,
		k.Content,
		nullString(k.Model),
		k.UpdatedAt,
	), false)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM knowledge_tags WHERE knowledge_id = $1`, k.ID); err != nil {
		return nil, err
	}
	if err := linkTags(ctx, tx, k.ID, k.Tags); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	out.Tags = append([]string{}, k.Tags...)
	return out, nil
}

// Delete removes an entry; its tag links cascade.
func (r *KnowledgePostgres) Delete(ctx context.Context, ownerID, id string) error {
	const q = `DELETE FROM knowledge WHERE id = $1 AND owner_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// linkTags upserts tag names and links them to the entry.
func linkTags(ctx context.Context, tx *sql.Tx, knowledgeID string, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	const qTags = `INSERT INTO tags (name) SELECT unnest($1::text[]) ON CONFLICT (name) DO NOTHING`
	if _, err := tx.ExecContext(ctx, qTags, pq.Array(tags)); err != nil {
		return fmt.Errorf("upsert tags: %w", err)
	}
	const qLink = `
		INSERT INTO knowledge_tags (knowledge_id, tag_id)
		SELECT $1, id FROM tags WHERE name = ANY($2::text[])
		ON CONFLICT DO NOTHING`
	if _, err := tx.ExecContext(ctx, qLink, knowledgeID, pq.Array(tags)); err != nil {
		return fmt.Errorf("link tags: %w", err)
	}
	return nil
}
