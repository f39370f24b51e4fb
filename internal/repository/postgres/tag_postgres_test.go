package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaptagent/internal/model"
)

func TestTagPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTagPostgres(db)

	mock.ExpectQuery("SELECT t.id, t.name, COUNT\\(\\*\\) AS uses FROM tags t (.+) WHERE k.owner_id = \\$1").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "uses"}).
			AddRow("t1", "go", 4).
			AddRow("t2", "sql", 1))

	tags, err := repo.List(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, []model.Tag{{ID: "t1", Name: "go", Count: 4}, {ID: "t2", Name: "sql", Count: 1}}, tags)

	mock.ExpectQuery("FROM tags").WithArgs("u1").WillReturnError(errors.New("timeout"))

	_, err = repo.List(context.Background(), "u1")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
