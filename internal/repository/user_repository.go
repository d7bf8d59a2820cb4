package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/streamhub-user-service/internal/model"
)

const userColumns = "id,username,email,full_name,avatar_url,cover_image_url,password_hash,refresh_token_hash,created_at,updated_at"

// UserRepo is the credential store: it owns all reads and writes of the
// `users` table. Lookups on username/email are case-normalized here so no
// caller can bypass the normalization rule.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Normalize lowercases and trims a handle or email the same way the
// store does before any comparison.
func Normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Create inserts an account and returns its ID. The password hash is
// computed by the caller; this layer never sees a plaintext secret.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, full_name, avatar_url, cover_image_url, password_hash) VALUES (?,?,?,?,?,?)",
		Normalize(u.Username), Normalize(u.Email), strings.TrimSpace(u.FullName),
		u.AvatarURL, nullable(u.CoverImageURL), u.PasswordHash)
	if err != nil {
		// MySQL 1062 = duplicate entry for a unique index
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrUserExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsernameOrEmail fetches an account matching either normalized
// handle. Empty arguments never match (the column values are NOT NULL).
func (r *UserRepo) GetByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? OR email=? LIMIT 1",
		Normalize(username), Normalize(email))
	return scanUser(row)
}

// GetByID fetches an account by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

// UpdateProfile replaces full name and email. Email keeps its uniqueness
// guarantee; a collision surfaces as ErrUserExists.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, fullName, email string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET full_name=?, email=?, updated_at=NOW() WHERE id=?",
		strings.TrimSpace(fullName), Normalize(email), id)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return ErrUserExists
	}
	return err
}

// UpdateAvatar replaces the avatar reference.
func (r *UserRepo) UpdateAvatar(ctx context.Context, id uint64, url string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET avatar_url=?, updated_at=NOW() WHERE id=?", url, id)
	return err
}

// UpdateCoverImage replaces the cover image reference.
func (r *UserRepo) UpdateCoverImage(ctx context.Context, id uint64, url string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET cover_image_url=?, updated_at=NOW() WHERE id=?", url, id)
	return err
}

// UpdatePassword replaces the stored digest. Only the digest column is
// touched, so existing sessions and the stored refresh token survive a
// password change.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, updated_at=NOW() WHERE id=?", passwordHash, id)
	return err
}

// SetRefreshTokenHash stores the digest of the newly issued refresh token,
// replacing whatever was there. Last write wins under concurrent refresh.
func (r *UserRepo) SetRefreshTokenHash(ctx context.Context, id uint64, hash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token_hash=?, updated_at=NOW() WHERE id=?", hash, id)
	return err
}

// ClearRefreshToken nulls the stored digest, revoking the standing refresh
// token. Clearing an already-cleared field is not an error.
func (r *UserRepo) ClearRefreshToken(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token_hash=NULL, updated_at=NOW() WHERE id=?", id)
	return err
}

// WatchHistory returns the account's watched-video references, most recent
// first.
func (r *UserRepo) WatchHistory(ctx context.Context, id uint64) ([]model.WatchHistoryEntry, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT video_ref, watched_at FROM watch_history WHERE user_id=? ORDER BY watched_at DESC", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.WatchHistoryEntry
	for rows.Next() {
		var e model.WatchHistoryEntry
		if err := rows.Scan(&e.VideoRef, &e.WatchedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		u       model.User
		cover   sql.NullString
		refresh sql.NullString
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.AvatarURL,
		&cover, &u.PasswordHash, &refresh, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.CoverImageURL = cover.String
	u.RefreshTokenHash = refresh.String
	return &u, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
