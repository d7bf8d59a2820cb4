package model

import "time"

// User represents an application account record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The json tags are omitted here because these structs
// are used internally by the repository and service layers;
// handlers define separate response types with appropriate JSON
// tags so that the password hash and refresh token hash can never
// leak into a response body.
//
// Fields:
//
//	ID               – primary key identifier of the account.
//	Username         – unique handle (stored lowercase, trimmed).
//	Email            – unique contact address (stored lowercase, trimmed).
//	FullName         – display name.
//	AvatarURL        – required avatar image reference.
//	CoverImageURL    – optional cover image reference (empty when unset).
//	PasswordHash     – bcrypt hashed password.
//	RefreshTokenHash – SHA-256 hex digest of the currently valid refresh
//	                   token, empty when the account is logged out. Only
//	                   one refresh token is active per account.
//	CreatedAt        – timestamp of creation.
//	UpdatedAt        – timestamp of last update.
type User struct {
	ID               uint64    // users.id
	Username         string    // users.username
	Email            string    // users.email
	FullName         string    // users.full_name
	AvatarURL        string    // users.avatar_url
	CoverImageURL    string    // users.cover_image_url (nullable)
	PasswordHash     string    // users.password_hash
	RefreshTokenHash string    // users.refresh_token_hash (nullable)
	CreatedAt        time.Time // users.created_at
	UpdatedAt        time.Time // users.updated_at
}

// WatchHistoryEntry models a row in the `watch_history` table. The
// video itself is owned by another service; only the opaque video
// reference is stored here, in watch order.
type WatchHistoryEntry struct {
	VideoRef  string    // watch_history.video_ref
	WatchedAt time.Time // watch_history.watched_at
}
