package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/streamhub-user-service/internal/model"
)

func newMockRepo(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserRepo(db), mock
}

func userRows(u model.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "username", "email", "full_name", "avatar_url",
		"cover_image_url", "password_hash", "refresh_token_hash",
		"created_at", "updated_at",
	}).AddRow(u.ID, u.Username, u.Email, u.FullName, u.AvatarURL,
		u.CoverImageURL, u.PasswordHash, u.RefreshTokenHash,
		u.CreatedAt, u.UpdatedAt)
}

func TestCreateNormalizesUniqueFields(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs("alice", "a@x.com", "Alice A", "http://img/av", sqlmock.AnyArg(), "digest").
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := repo.Create(context.Background(), &model.User{
		Username:     "  ALICE ",
		Email:        " A@X.COM ",
		FullName:     " Alice A ",
		AvatarURL:    "http://img/av",
		PasswordHash: "digest",
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicateMapsToErrUserExists(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(assert.AnError)
	_, err := repo.Create(context.Background(), &model.User{Username: "alice"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserExists)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&mysqlLikeError{"Error 1062 (23000): Duplicate entry 'alice' for key 'users.username'"})
	_, err = repo.Create(context.Background(), &model.User{Username: "alice"})
	assert.ErrorIs(t, err, ErrUserExists)
}

// mysqlLikeError reproduces the driver's duplicate-key error text.
type mysqlLikeError struct{ msg string }

func (e *mysqlLikeError) Error() string { return e.msg }

func TestGetByUsernameOrEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE username=\\? OR email=\\?").
		WithArgs("alice", "a@x.com").
		WillReturnRows(userRows(model.User{
			ID: 7, Username: "alice", Email: "a@x.com", FullName: "Alice A",
			AvatarURL: "http://img/av", PasswordHash: "digest",
			CreatedAt: now, UpdatedAt: now,
		}))

	u, err := repo.GetByUsernameOrEmail(context.Background(), "ALICE ", " A@X.COM")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id=\\?").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRefreshTokenLifecycle(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE users SET refresh_token_hash=\\?").
		WithArgs("abc123", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetRefreshTokenHash(context.Background(), 7, "abc123"))

	mock.ExpectExec("UPDATE users SET refresh_token_hash=NULL").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.ClearRefreshToken(context.Background(), 7))

	// Clearing again is idempotent: zero rows affected is still success.
	mock.ExpectExec("UPDATE users SET refresh_token_hash=NULL").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, repo.ClearRefreshToken(context.Background(), 7))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWatchHistoryOrdering(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT video_ref, watched_at FROM watch_history").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"video_ref", "watched_at"}).
			AddRow("vid-2", now).
			AddRow("vid-1", now.Add(-time.Hour)))

	entries, err := repo.WatchHistory(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "vid-2", entries[0].VideoRef)
	assert.Equal(t, "vid-1", entries[1].VideoRef)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "alice", Normalize("  ALICE "))
	assert.Equal(t, "a@x.com", Normalize("A@X.Com"))
}
