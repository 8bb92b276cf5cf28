package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/rekrut-id/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRowColumns = []string{"id", "name", "email", "email_verified_at", "password", "api_token", "created_at", "updated_at"}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func TestUserRepository_GetByToken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM users WHERE api_token = \$1`).
		WithArgs("tok-123").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(7, "Ann", "ann@x.com", nil, "hash", "tok-123", now, now))

	user, err := repo.GetByToken(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, 7, user.ID)
	assert.Equal(t, "ann@x.com", user.Email)
	assert.Nil(t, user.EmailVerifiedAt)
	require.NotNil(t, user.APIToken)
	assert.Equal(t, "tok-123", *user.APIToken)
}

func TestUserRepository_GetByToken_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE api_token = \$1`).
		WithArgs("stale").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByToken(context.Background(), "stale")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_GetByToken_EmptyNeverQueries(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewUserRepository(db)

	_, err := repo.GetByToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_GetByEmail_CaseInsensitive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM users WHERE LOWER\(email\) = LOWER\(\$1\)`).
		WithArgs("ANN@X.COM").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(7, "Ann", "ann@x.com", now, "hash", nil, now, now))

	user, err := repo.GetByEmail(context.Background(), "ANN@X.COM")
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", user.Email)
	assert.NotNil(t, user.EmailVerifiedAt)
	assert.Nil(t, user.APIToken)
	assert.False(t, user.HasSession())
}

func TestUserRepository_GetByEmail_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE LOWER\(email\) = LOWER\(\$1\)`).
		WithArgs("ann@x.com").
		WillReturnError(errors.New("db down"))

	_, err := repo.GetByEmail(context.Background(), "ann@x.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "db down")
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	token := "tok-abc"
	mock.ExpectQuery(`INSERT INTO users \(name, email, password, api_token, created_at, updated_at\)`).
		WithArgs("Ann", "ann@x.com", "hash", "tok-abc", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	user, err := repo.Create(context.Background(), types.User{
		Name:         "Ann",
		Email:        "ann@x.com",
		PasswordHash: "hash",
		APIToken:     &token,
	})
	require.NoError(t, err)
	assert.Equal(t, 42, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_lower_unique"})

	_, err := repo.Create(context.Background(), types.User{Name: "Ann", Email: "ann@x.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUserRepository_UpdateToken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`UPDATE users\s+SET api_token = \$1`).
		WithArgs("fresh", sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users\s+SET api_token = \$1`).
		WithArgs(nil, sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	fresh := "fresh"
	require.NoError(t, repo.UpdateToken(context.Background(), 7, &fresh))
	require.NoError(t, repo.UpdateToken(context.Background(), 7, nil))
}

func TestUserRepository_UpdateToken_MissingUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`UPDATE users`).
		WithArgs(nil, sqlmock.AnyArg(), 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateToken(context.Background(), 99, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_Create_DuplicateToken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	token := "tok-abc"
	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_api_token_unique"})

	_, err := repo.Create(context.Background(), types.User{Name: "Ann", Email: "ann@x.com", PasswordHash: "hash", APIToken: &token})
	assert.ErrorIs(t, err, ErrTokenConflict)
	assert.NotErrorIs(t, err, ErrConflict)
}
