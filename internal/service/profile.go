package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/iliyamo/streamhub-user-service/internal/model"
)

// UpdateAccount replaces the display name and contact address. Both are
// required; tokens already issued keep their old claims until renewal.
func (s *UserService) UpdateAccount(ctx context.Context, userID uint64, fullName, email string) (*Account, error) {
	if strings.TrimSpace(fullName) == "" || strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: full name and email are required", ErrValidation)
	}
	if err := s.users.UpdateProfile(ctx, userID, fullName, email); err != nil {
		return nil, storeErr(err)
	}
	return s.CurrentUser(ctx, userID)
}

// UpdateAvatar uploads the new image and replaces the avatar reference.
// The old object is left in place; the store is append-only from this
// service's point of view.
func (s *UserService) UpdateAvatar(ctx context.Context, userID uint64, img *ImageUpload) (*Account, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: avatar file is required", ErrValidation)
	}
	url, err := s.uploader.Upload(ctx, img.Body, img.Size, img.ContentType)
	if err != nil || url == "" {
		return nil, fmt.Errorf("%w: avatar upload returned no reference", ErrUpload)
	}
	if err := s.users.UpdateAvatar(ctx, userID, url); err != nil {
		return nil, storeErr(err)
	}
	return s.CurrentUser(ctx, userID)
}

// UpdateCoverImage uploads the new image and replaces the cover reference.
func (s *UserService) UpdateCoverImage(ctx context.Context, userID uint64, img *ImageUpload) (*Account, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: cover image file is required", ErrValidation)
	}
	url, err := s.uploader.Upload(ctx, img.Body, img.Size, img.ContentType)
	if err != nil || url == "" {
		return nil, fmt.Errorf("%w: cover image upload returned no reference", ErrUpload)
	}
	if err := s.users.UpdateCoverImage(ctx, userID, url); err != nil {
		return nil, storeErr(err)
	}
	return s.CurrentUser(ctx, userID)
}

// GetChannelProfile aggregates subscriber counts for the channel matching
// the handle, including whether the viewer subscribes to it.
func (s *UserService) GetChannelProfile(ctx context.Context, viewerID uint64, username string) (*model.ChannelProfile, error) {
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	p, err := s.subs.ChannelProfile(ctx, username, viewerID)
	if err != nil {
		return nil, storeErr(err)
	}
	return p, nil
}

// WatchHistory returns the account's watched-video references.
func (s *UserService) WatchHistory(ctx context.Context, userID uint64) ([]model.WatchHistoryEntry, error) {
	entries, err := s.users.WatchHistory(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	return entries, nil
}
