package migration

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaptagent/internal/logging"
)

func TestEnsureMigrated_FreshDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	logger := logging.New(&buf, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(createMigrationsTable)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT name FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"name"}))
	for _, step := range steps {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(step.SQL)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO schema_migrations").
			WithArgs(step.Name).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
	}

	err = EnsureMigrated(context.Background(), db, logger, "localhost")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Contains(t, buf.String(), "db_migration_success")
}

func TestEnsureMigrated_UpToDate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	rows := sqlmock.NewRows([]string{"name"})
	for _, step := range steps {
		rows.AddRow(step.Name)
	}

	mock.ExpectExec(regexp.QuoteMeta(createMigrationsTable)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT name FROM schema_migrations").WillReturnRows(rows)

	err = EnsureMigrated(context.Background(), db, logging.New(&buf, time.UTC), "localhost")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Contains(t, buf.String(), "db_migration_skip")
}

func TestEnsureMigrated_PartiallyApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	last := steps[len(steps)-1]
	rows := sqlmock.NewRows([]string{"name"})
	for _, step := range steps[:len(steps)-1] {
		rows.AddRow(step.Name)
	}

	mock.ExpectExec(regexp.QuoteMeta(createMigrationsTable)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT name FROM schema_migrations").WillReturnRows(rows)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(last.SQL)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").WithArgs(last.Name).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = EnsureMigrated(context.Background(), db, logging.Discard(), "localhost")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureMigrated_StepFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	first := steps[0]

	mock.ExpectExec(regexp.QuoteMeta(createMigrationsTable)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT name FROM schema_migrations").WillReturnRows(sqlmock.NewRows([]string{"name"}))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(first.SQL)).WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	err = EnsureMigrated(context.Background(), db, logging.New(&buf, time.UTC), "localhost")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migration step "+first.Name+" failed")
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureMigrated_BootstrapFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(createMigrationsTable)).WillReturnError(errors.New("connection reset"))

	err = EnsureMigrated(context.Background(), db, logging.Discard(), "localhost")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "schema_migrations")
}

func TestSeed(t *testing.T) {
	t.Run("skips when users exist", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		assert.NoError(t, Seed(context.Background(), db, logging.Discard(), "hash"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("inserts sample data", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO users").
			WithArgs(SampleUsername, "sample_user@example.com", "hash").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u1"))
		mock.ExpectQuery("INSERT INTO projects").
			WithArgs("u1", "Sample Project", "This is a sample project").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("p1"))
		mock.ExpectExec("INSERT INTO tasks").
			WithArgs("u1", "p1", "Sample Task", "This is a sample task").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO knowledge").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("k1"))
		mock.ExpectExec("INSERT INTO tags").WithArgs("sample", "k1").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO tags").WithArgs("example", "k1").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, Seed(context.Background(), db, logging.Discard(), "hash"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO users").WillReturnError(errors.New("boom"))
		mock.ExpectRollback()

		err = Seed(context.Background(), db, logging.Discard(), "hash")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "seed user")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
