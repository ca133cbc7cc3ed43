// AngelaMos | 2026
// repository_test.go

package role

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/go-accounts/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(sqlx.NewDb(db, "pgx")), mock
}

func TestRepositoryGetByName(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "name", "description", "created_at", "updated_at", "created_by", "updated_by",
	}).AddRow("r1", "USER", "default", now, now, "system", "system")

	mock.ExpectQuery(regexp.QuoteMeta(`FROM roles WHERE name = $1`)).
		WithArgs("USER").
		WillReturnRows(rows)

	got, err := repo.GetByName(context.Background(), "USER")
	require.NoError(t, err)
	assert.Equal(t, "r1", got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM roles WHERE id = $1`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepositoryAssignToUserReportsInsert(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO user_roles`)).
		WithArgs("u1", "r1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO user_roles`)).
		WithArgs("u1", "r1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	inserted, err := repo.AssignToUser(context.Background(), "u1", "r1")
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.AssignToUser(context.Background(), "u1", "r1")
	require.NoError(t, err)
	assert.False(t, inserted)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryAssignToMissingUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO user_roles`)).
		WithArgs("ghost", "r1").
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := repo.AssignToUser(context.Background(), "ghost", "r1")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepositoryCreateDuplicate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO roles`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "roles_name_key"})

	err := repo.Create(context.Background(), &Role{ID: "r2", Name: "USER"})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestRepositoryDeleteMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM roles WHERE id = $1`)).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}
