package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/iliyamo/streamhub-user-service/internal/media"
	"github.com/iliyamo/streamhub-user-service/internal/model"
	"github.com/iliyamo/streamhub-user-service/internal/queue"
	"github.com/iliyamo/streamhub-user-service/internal/repository"
	"github.com/iliyamo/streamhub-user-service/internal/utils"
)

// UserStore is the credential-store contract the service depends on.
// *repository.UserRepo satisfies it; tests substitute fakes.
type UserStore interface {
	Create(ctx context.Context, u *model.User) (uint64, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	UpdateProfile(ctx context.Context, id uint64, fullName, email string) error
	UpdateAvatar(ctx context.Context, id uint64, url string) error
	UpdateCoverImage(ctx context.Context, id uint64, url string) error
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error
	SetRefreshTokenHash(ctx context.Context, id uint64, hash string) error
	ClearRefreshToken(ctx context.Context, id uint64) error
	WatchHistory(ctx context.Context, id uint64) ([]model.WatchHistoryEntry, error)
}

// SubscriptionStore is the read-only view over the subscription relation.
type SubscriptionStore interface {
	ChannelProfile(ctx context.Context, username string, viewerID uint64) (*model.ChannelProfile, error)
}

// EventPublisher delivers account events to the broker. May be nil, in
// which case events are dropped; a publish failure never fails the
// request that triggered it.
type EventPublisher interface {
	PublishAccountEvent(ctx context.Context, ev queue.AccountEvent) error
}

// TokenConfig carries the per-kind signing secrets and lifetimes. Both
// secrets must differ per deployment and per kind; they are required
// configuration, never hardcoded.
type TokenConfig struct {
	AccessSecret   string
	RefreshSecret  string
	AccessTTLMin   int
	RefreshTTLDays int
}

// UserService orchestrates login, logout, refresh and password change
// against the credential store and token issuer. All collaborators are
// injected at construction; there is no package-level state.
type UserService struct {
	users      UserStore
	subs       SubscriptionStore
	uploader   media.Uploader
	events     EventPublisher
	tokens     TokenConfig
	bcryptCost int
}

func NewUserService(users UserStore, subs SubscriptionStore, uploader media.Uploader, events EventPublisher, tokens TokenConfig, bcryptCost int) *UserService {
	return &UserService{
		users:      users,
		subs:       subs,
		uploader:   uploader,
		events:     events,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Account is the sanitized view of a user returned by every operation.
// The password hash and refresh token hash are withheld by construction.
type Account struct {
	ID            uint64    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	AvatarURL     string    `json:"avatar_url"`
	CoverImageURL string    `json:"cover_image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func accountView(u *model.User) *Account {
	return &Account{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: u.CoverImageURL,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// TokenPair is what login and refresh hand back for transport-layer
// delivery (response body plus HttpOnly cookies).
type TokenPair struct {
	Access  utils.AccessToken
	Refresh utils.RefreshToken
}

// ImageUpload is a pending image file from a multipart request.
type ImageUpload struct {
	Body        io.Reader
	Size        int64
	ContentType string
}

// RegisterInput carries the registration fields. Avatar is required;
// Cover is optional and may be nil.
type RegisterInput struct {
	FullName string
	Email    string
	Username string
	Password string
	Avatar   *ImageUpload
	Cover    *ImageUpload
}

// Register validates input, uploads the avatar (and cover, when present),
// hashes the secret exactly once and creates the account. The returned
// view carries no secret material.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*Account, error) {
	if strings.TrimSpace(in.FullName) == "" ||
		strings.TrimSpace(in.Email) == "" ||
		strings.TrimSpace(in.Username) == "" ||
		strings.TrimSpace(in.Password) == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if in.Avatar == nil {
		return nil, fmt.Errorf("%w: avatar file is required", ErrValidation)
	}

	avatarURL, err := s.uploader.Upload(ctx, in.Avatar.Body, in.Avatar.Size, in.Avatar.ContentType)
	if err != nil || avatarURL == "" {
		return nil, fmt.Errorf("%w: avatar upload returned no reference", ErrUpload)
	}
	// A failed cover upload does not block registration; the field is optional.
	coverURL := ""
	if in.Cover != nil {
		if url, err := s.uploader.Upload(ctx, in.Cover.Body, in.Cover.Size, in.Cover.ContentType); err == nil {
			coverURL = url
		}
	}

	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	id, err := s.users.Create(ctx, &model.User{
		Username:      in.Username,
		Email:         in.Email,
		FullName:      in.FullName,
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
		PasswordHash:  hash,
	})
	if err != nil {
		return nil, storeErr(err)
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}

	s.publish(queue.AccountEvent{
		Type:       queue.EventAccountRegistered,
		UserID:     u.ID,
		Username:   u.Username,
		Email:      u.Email,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
	return accountView(u), nil
}

// Login locates the account by username OR email (at least one required),
// verifies the secret and issues a fresh token pair, persisting the new
// refresh token digest on the account.
func (s *UserService) Login(ctx context.Context, username, email, password string) (*Account, TokenPair, error) {
	if strings.TrimSpace(username) == "" && strings.TrimSpace(email) == "" {
		return nil, TokenPair{}, fmt.Errorf("%w: username or email is required", ErrValidation)
	}
	if strings.TrimSpace(password) == "" {
		return nil, TokenPair{}, fmt.Errorf("%w: password is required", ErrValidation)
	}

	u, err := s.users.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, TokenPair{}, fmt.Errorf("%w: user does not exist", ErrNotFound)
		}
		return nil, TokenPair{}, storeErr(err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, TokenPair{}, fmt.Errorf("%w: invalid credentials", ErrAuth)
	}

	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return accountView(u), pair, nil
}

// Logout revokes the standing refresh token by clearing its stored digest.
// Logging out twice is not an error.
func (s *UserService) Logout(ctx context.Context, userID uint64) error {
	if err := s.users.ClearRefreshToken(ctx, userID); err != nil {
		return storeErr(err)
	}
	return nil
}

// Refresh verifies the presented refresh token by signature, expiry and
// comparison against the account's stored digest, then rotates: a brand
// new pair is issued and the new digest replaces the old one. A token
// that was already rotated or revoked fails the comparison and is
// rejected. Under two concurrent refreshes the last stored digest wins;
// the loser's token fails on its next use.
func (s *UserService) Refresh(ctx context.Context, presented string) (*Account, TokenPair, error) {
	presented = strings.TrimSpace(presented)
	if presented == "" {
		return nil, TokenPair{}, fmt.Errorf("%w: refresh token is required", ErrAuth)
	}
	userID, err := utils.VerifyRefreshToken(s.tokens.RefreshSecret, presented)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, TokenPair{}, fmt.Errorf("%w: invalid refresh token", ErrAuth)
		}
		return nil, TokenPair{}, storeErr(err)
	}
	if u.RefreshTokenHash == "" || u.RefreshTokenHash != utils.HashToken(presented) {
		return nil, TokenPair{}, fmt.Errorf("%w: refresh token is expired or used", ErrAuth)
	}

	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return accountView(u), pair, nil
}

// ChangePassword verifies the old secret and stores a digest of the new
// one. The stored refresh token is untouched, so existing sessions
// continue uninterrupted.
func (s *UserService) ChangePassword(ctx context.Context, userID uint64, oldPassword, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return fmt.Errorf("%w: new password is required", ErrValidation)
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return storeErr(err)
	}
	if !utils.VerifyPassword(u.PasswordHash, oldPassword) {
		return fmt.Errorf("%w: invalid old password", ErrAuth)
	}
	hash, err := utils.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return storeErr(err)
	}
	s.publish(queue.AccountEvent{
		Type:       queue.EventPasswordChanged,
		UserID:     u.ID,
		Username:   u.Username,
		Email:      u.Email,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

// CurrentUser returns the sanitized account for an authenticated id.
func (s *UserService) CurrentUser(ctx context.Context, userID uint64) (*Account, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	return accountView(u), nil
}

// issueTokens mints an access and a refresh token for the account and
// persists the refresh token digest, replacing any previous one.
func (s *UserService) issueTokens(ctx context.Context, u *model.User) (TokenPair, error) {
	access, err := utils.NewAccessToken(s.tokens.AccessSecret, u.ID, u.Email, u.Username, u.FullName, s.tokens.AccessTTLMin)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	refresh, err := utils.NewRefreshToken(s.tokens.RefreshSecret, u.ID, s.tokens.RefreshTTLDays)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := s.users.SetRefreshTokenHash(ctx, u.ID, utils.HashToken(refresh.Token)); err != nil {
		return TokenPair{}, storeErr(err)
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// publish fires an account event without blocking or failing the caller.
func (s *UserService) publish(ev queue.AccountEvent) {
	if s.events == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.events.PublishAccountEvent(ctx, ev); err != nil {
			log.Printf("events: publish %s failed: %v", ev.Type, err)
		}
	}()
}

// storeErr maps repository sentinels onto the service taxonomy; anything
// unrecognized is an infrastructure failure.
func storeErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: user does not exist", ErrNotFound)
	case errors.Is(err, repository.ErrUserExists):
		return fmt.Errorf("%w: user with email or username already exists", ErrConflict)
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}
