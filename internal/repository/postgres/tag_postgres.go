package postgres

import (
	"context"
	"database/sql"

	"adaptagent/internal/model"
	"adaptagent/internal/repository"
)

// TagPostgres is a PostgreSQL implementation of repository.TagRepository.
type TagPostgres struct {
	db *sql.DB
}

// NewTagPostgres creates a new TagPostgres repository.
func NewTagPostgres(db *sql.DB) *TagPostgres {
	return &TagPostgres{db: db}
}

var _ repository.TagRepository = (*TagPostgres)(nil)

// List returns the tags used by the owner's knowledge entries, most used first.
func (r *TagPostgres) List(ctx context.Context, ownerID string) ([]model.Tag, error) {
	const q = `
		SELECT t.id, t.name, COUNT(*) AS uses
		FROM tags t
		JOIN knowledge_tags kt ON kt.tag_id = t.id
		JOIN knowledge k ON k.id = kt.knowledge_id
		WHERE k.owner_id = $1
		GROUP BY t.id, t.name
		ORDER BY uses DESC, t.name ASC`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]model.Tag, 0)
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Count); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
