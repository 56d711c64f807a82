package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-app-backend/pkg/database"
)

func newPostgresWidgets(t *testing.T) (pgxmock.PgxPoolIface, *database.UnitOfWork, *Postgres[widget]) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	uow := database.NewUnitOfWork(mock)
	return mock, uow, NewPostgres(uow, widgetMapping)
}

func TestPostgres_FindAll(t *testing.T) {
	mock, _, repo := newPostgresWidgets(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, name, size, is_deleted FROM widgets WHERE name ILIKE $1 AND is_deleted = $2 ORDER BY id",
	)).
		WithArgs("%so%", false).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "size", "is_deleted"}).
			AddRow(int64(1), "soup", 3, false).
			AddRow(int64(4), "sorbet", 1, false))

	got, err := repo.FindAll(context.Background(), Contains("name", "so"), Eq("is_deleted", false))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, widget{ID: 1, Name: "soup", Size: 3}, got[0])
	assert.Equal(t, "sorbet", got[1].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ExistsByIDFiltersSoftDeleted(t *testing.T) {
	mock, _, repo := newPostgresWidgets(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT EXISTS(SELECT 1 FROM widgets WHERE id = $1 AND is_deleted = $2)",
	)).
		WithArgs(int64(7), false).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.ExistsByID(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_AddReturnsGeneratedID(t *testing.T) {
	ctx := context.Background()
	mock, uow, repo := newPostgresWidgets(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		"INSERT INTO widgets (is_deleted, name, size) VALUES ($1, $2, $3) RETURNING id",
	)).
		WithArgs(false, "soup", 3).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(9)))
	mock.ExpectCommit()

	w := widget{Name: "soup", Size: 3}
	require.NoError(t, repo.Add(ctx, &w))
	assert.Equal(t, int64(9), w.ID)

	n, err := uow.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_AddUniqueViolation(t *testing.T) {
	ctx := context.Background()
	mock, uow, repo := newPostgresWidgets(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		"INSERT INTO widgets (is_deleted, name, size) VALUES ($1, $2, $3) RETURNING id",
	)).
		WithArgs(false, "soup", 0).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "ux_widgets_name_live"})
	mock.ExpectRollback()

	err := repo.Add(ctx, &widget{Name: "soup"})
	assert.ErrorIs(t, err, ErrUniqueViolation)

	require.NoError(t, uow.Rollback(ctx))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_AddOtherErrorsPassThrough(t *testing.T) {
	mock, _, repo := newPostgresWidgets(t)
	boom := errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO widgets").
		WithArgs(false, "soup", 0).
		WillReturnError(boom)

	err := repo.Add(context.Background(), &widget{Name: "soup"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrUniqueViolation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SaveFields(t *testing.T) {
	ctx := context.Background()
	mock, _, repo := newPostgresWidgets(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE widgets SET name = $1, size = $2 WHERE id = $3")).
		WithArgs("stew", 4, int64(2)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	n, err := repo.SaveFields(ctx, &widget{ID: 2, Name: "stew", Size: 4}, "name", "size")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.SaveFields(ctx, &widget{ID: 2}, "colour")
	assert.ErrorIs(t, err, ErrUnknownColumn)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateWhere(t *testing.T) {
	ctx := context.Background()
	mock, uow, repo := newPostgresWidgets(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE widgets SET is_deleted = $1, size = $2 WHERE name = $3")).
		WithArgs(true, 0, "soup").
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))
	mock.ExpectCommit()

	n, err := repo.UpdateWhere(ctx, map[string]any{"size": 0, "is_deleted": true}, Eq("name", "soup"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	total, err := uow.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_RejectsUnknownColumnsBeforeQuerying(t *testing.T) {
	ctx := context.Background()
	mock, _, repo := newPostgresWidgets(t)

	_, err := repo.FindAll(ctx, Eq("colour", "red"))
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, err = repo.UpdateWhere(ctx, map[string]any{"colour": "red"})
	assert.ErrorIs(t, err, ErrUnknownColumn)

	require.NoError(t, mock.ExpectationsWereMet())
}
