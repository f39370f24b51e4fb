package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaptagent/internal/model"
	"adaptagent/internal/repository"
)

var taskCols = []string{"id", "owner_id", "project_id", "title", "description", "status", "model", "due_date", "created_at", "updated_at"}

func TestTaskPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	projectID := "p1"
	task := &model.Task{
		ID:        "t1",
		OwnerID:   "u1",
		ProjectID: &projectID,
		Title:     "Write docs",
		Status:    model.TaskPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectQuery("INSERT INTO tasks").
		WithArgs("t1", "u1", "p1", "Write docs", "", model.TaskPending, nil, nil, now, now).
		WillReturnRows(sqlmock.NewRows(taskCols).
			AddRow("t1", "u1", "p1", "Write docs", "", model.TaskPending, nil, nil, now, now))

	out, err := NewTaskPostgres(db).Create(context.Background(), task)

	require.NoError(t, err)
	require.NotNil(t, out.ProjectID)
	assert.Equal(t, "p1", *out.ProjectID)
	assert.Nil(t, out.Model)
	assert.Nil(t, out.DueDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTaskPostgres(db)
	due := time.Now().Add(24 * time.Hour)

	t.Run("owner only", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM tasks WHERE owner_id = \\$1$").
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery("SELECT (.+) FROM tasks WHERE owner_id = \\$1 ORDER BY (.+) LIMIT \\$2 OFFSET \\$3").
			WithArgs("u1", 10, 0).
			WillReturnRows(sqlmock.NewRows(taskCols).
				AddRow("t1", "u1", nil, "A", "", model.TaskPending, "gpt-4o", due, time.Now(), time.Now()))

		res, err := repo.List(context.Background(), "u1", repository.TaskFilter{}, repository.PageQuery{Limit: 10})

		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Nil(t, res.Items[0].ProjectID)
		require.NotNil(t, res.Items[0].Model)
		assert.Equal(t, "gpt-4o", *res.Items[0].Model)
		assert.NotNil(t, res.Items[0].DueDate)
	})

	t.Run("project and status filters", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM tasks WHERE owner_id = \\$1 AND project_id = \\$2 AND status = \\$3").
			WithArgs("u1", "p1", model.TaskCompleted).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("LIMIT \\$4 OFFSET \\$5").
			WithArgs("u1", "p1", model.TaskCompleted, 10, 0).
			WillReturnRows(sqlmock.NewRows(taskCols))

		res, err := repo.List(context.Background(), "u1",
			repository.TaskFilter{ProjectID: "p1", Status: model.TaskCompleted},
			repository.PageQuery{Limit: 10})

		require.NoError(t, err)
		assert.Equal(t, 0, res.Total)
		assert.NotNil(t, res.Items)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskPostgres_UpdateAndDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTaskPostgres(db)
	now := time.Now().UTC()
	task := &model.Task{ID: "t1", OwnerID: "u1", Title: "A", Status: model.TaskInProgress, UpdatedAt: now}

	mock.ExpectQuery("UPDATE tasks SET").
		WithArgs("t1", "u1", nil, "A", "", model.TaskInProgress, nil, nil, now).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.Update(context.Background(), task)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	mock.ExpectExec("DELETE FROM tasks").
		WithArgs("t1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(context.Background(), "u1", "t1"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskPostgres_CountByStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTaskPostgres(db)

	t.Run("all projects", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*) FROM tasks WHERE owner_id = $1 GROUP BY status")).
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
				AddRow(model.TaskPending, 3).
				AddRow(model.TaskCompleted, 1))

		counts, err := repo.CountByStatus(context.Background(), "u1", "")

		require.NoError(t, err)
		assert.Equal(t, map[string]int{model.TaskPending: 3, model.TaskCompleted: 1}, counts)
	})

	t.Run("one project", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*) FROM tasks WHERE owner_id = $1 AND project_id = $2 GROUP BY status")).
			WithArgs("u1", "p1").
			WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).AddRow(model.TaskCompleted, 120))

		counts, err := repo.CountByStatus(context.Background(), "u1", "p1")

		require.NoError(t, err)
		assert.Equal(t, map[string]int{model.TaskCompleted: 120}, counts)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
