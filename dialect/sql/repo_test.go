package sql

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/authkit-go/sqlstore/dialect"
	"github.com/authkit-go/sqlstore/predicate"
)

func mockRepo(t *testing.T, table string) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mk, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(Conn{db}, dialect.SQLite, table), mk
}

func TestRepositoryInsert(t *testing.T) {
	repo, mk := mockRepo(t, "users")
	mk.ExpectExec(`INSERT INTO "users" ("id", "email") VALUES (?, ?)`).
		WithArgs("u1", "a@x.com").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Insert(context.Background(), []string{"id", "email"}, []any{"u1", "a@x.com"})
	require.NoError(t, err)
	require.NoError(t, mk.ExpectationsWereMet())
}

func TestRepositoryFindOne(t *testing.T) {
	repo, mk := mockRepo(t, "users")
	p := predicate.Predicate{{{Column: "email", Op: predicate.OpEQ, Value: "a@x.com"}}}
	mk.ExpectQuery(`SELECT * FROM "users" WHERE "email" = ? LIMIT 1`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow("u1", []byte("a@x.com")))

	row, err := repo.FindOne(context.Background(), p, nil)
	require.NoError(t, err)
	// Byte slices are normalized to strings.
	require.Equal(t, map[string]any{"id": "u1", "email": "a@x.com"}, row)
	require.NoError(t, mk.ExpectationsWereMet())
}

func TestRepositoryFindOneNoMatch(t *testing.T) {
	repo, mk := mockRepo(t, "users")
	mk.ExpectQuery(`SELECT * FROM "users" LIMIT 1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	row, err := repo.FindOne(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Nil(t, row)
}

func TestRepositoryUpdateAffected(t *testing.T) {
	repo, mk := mockRepo(t, "users")
	mk.ExpectExec(`UPDATE "users" SET "name" = ?`).
		WithArgs("B").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.Update(context.Background(), []string{"name"}, []any{"B"}, nil)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
}

func TestRepositoryDeleteAffected(t *testing.T) {
	repo, mk := mockRepo(t, "users")
	mk.ExpectExec(`DELETE FROM "users" WHERE "id" = ?`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.Delete(context.Background(), predicate.Predicate{{{Column: "id", Op: predicate.OpEQ, Value: "u1"}}})
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestRepositoryCount(t *testing.T) {
	repo, mk := mockRepo(t, "users")
	mk.ExpectQuery(`SELECT COUNT(*) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := repo.Count(context.Background(), nil)
	require.NoError(t, err)
	require.EqualValues(t, 7, n)
}
