package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"photogram-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestFollowToggleCreatesWhenAbsent(t *testing.T) {
	mock := newMock(t)
	repo := NewFollowRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM follows").
		WithArgs(int64(1), int64(2)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("INSERT INTO follows").
		WithArgs(int64(1), int64(2)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	following, err := repo.Toggle(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, following)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowToggleRemovesWhenPresent(t *testing.T) {
	mock := newMock(t)
	repo := NewFollowRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM follows").
		WithArgs(int64(1), int64(2)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	following, err := repo.Toggle(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, following)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLikeToggleRollsBackOnInsertFailure(t *testing.T) {
	mock := newMock(t)
	repo := NewLikeRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM likes").
		WithArgs(int64(10), int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("INSERT INTO likes").
		WithArgs(int64(10), int64(3)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := repo.Toggle(context.Background(), 10, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLikeCountByPost(t *testing.T) {
	mock := newMock(t)
	repo := NewLikeRepository(mock)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(10)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(4)))

	n, err := repo.CountByPost(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateReportsUniqueViolation(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	user := &models.User{Username: "ana", Email: "ana@example.com", JoinedOn: time.Now()}
	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.Username, user.PasswordHash, user.Firstname, user.Lastname, user.Email,
			user.Location, user.Biography, user.ProfilePhoto, user.JoinedOn).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := repo.Create(context.Background(), user)
	require.Error(t, err)

	constraint, ok := UniqueViolation(err)
	assert.True(t, ok)
	assert.Equal(t, "users_email_key", constraint)
}

func TestUserCreateSetsID(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	user := &models.User{Username: "ana", Email: "ana@example.com", JoinedOn: time.Now()}
	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.Username, user.PasswordHash, user.Firstname, user.Lastname, user.Email,
			user.Location, user.Biography, user.ProfilePhoto, user.JoinedOn).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, int64(42), user.ID)
}

func TestUserGetByUsernameNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("FROM users WHERE username").
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserEmailExists(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("FROM users WHERE email").
		WithArgs("ana@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.EmailExists(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPostListFeed(t *testing.T) {
	mock := newMock(t)
	repo := NewPostRepository(mock)

	created := time.Date(2024, 4, 23, 2, 15, 0, 0, time.UTC)
	mock.ExpectQuery("FROM posts p").
		WillReturnRows(pgxmock.NewRows([]string{"id", "caption", "photo", "user_id", "created_on", "username", "count"}).
			AddRow(int64(1), "sunset", "sunset.jpg", int64(7), created, "ana", int64(3)).
			AddRow(int64(2), "", "cat.png", int64(8), created, "", int64(0)))

	entries, err := repo.ListFeed(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "ana", entries[0].Username)
	assert.Equal(t, int64(3), entries[0].Likes)
	assert.Equal(t, "cat.png", entries[1].Photo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostListByUserEmpty(t *testing.T) {
	mock := newMock(t)
	repo := NewPostRepository(mock)

	mock.ExpectQuery("FROM posts").
		WithArgs(int64(9)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "caption", "photo", "user_id", "created_on"}))

	posts, err := repo.ListByUser(context.Background(), 9)
	require.NoError(t, err)
	assert.Empty(t, posts)
}
