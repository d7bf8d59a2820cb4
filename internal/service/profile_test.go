package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/streamhub-user-service/internal/model"
	"github.com/iliyamo/streamhub-user-service/internal/repository"
)

func TestUpdateAccount(t *testing.T) {
	users := newFakeUserStore()
	svc := testService(users, nil, nil)
	acc := registerAlice(t, svc)

	updated, err := svc.UpdateAccount(context.Background(), acc.ID, "Alice B", "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice B", updated.FullName)
	assert.Equal(t, "b@x.com", updated.Email)

	_, err = svc.UpdateAccount(context.Background(), acc.ID, " ", "b@x.com")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateAvatar(t *testing.T) {
	users := newFakeUserStore()
	up := &uploaderStub{}
	svc := testService(users, nil, up)
	acc := registerAlice(t, svc)

	updated, err := svc.UpdateAvatar(context.Background(), acc.ID, &ImageUpload{
		Body: strings.NewReader("img"), Size: 3, ContentType: "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://cdn/img-2", updated.AvatarURL) // img-1 was the registration upload
	assert.Equal(t, "http://cdn/img-2", users.users[acc.ID].AvatarURL)

	_, err = svc.UpdateAvatar(context.Background(), acc.ID, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateCoverImageUploadFailure(t *testing.T) {
	users := newFakeUserStore()
	svc := testService(users, nil, nil)
	acc := registerAlice(t, svc)
	svcBroken := testService(users, nil, &uploaderStub{err: errors.New("bucket gone")})

	_, err := svcBroken.UpdateCoverImage(context.Background(), acc.ID, &ImageUpload{
		Body: strings.NewReader("img"), Size: 3,
	})
	assert.ErrorIs(t, err, ErrUpload)
	assert.Empty(t, users.users[acc.ID].CoverImageURL, "failed upload must not touch the stored reference")
}

func TestGetChannelProfile(t *testing.T) {
	subs := &fakeSubscriptionStore{profile: &model.ChannelProfile{
		ID: 3, Username: "chandler", SubscriberCount: 3, SubscribedTo: 5, IsSubscribed: true,
	}}
	svc := testService(newFakeUserStore(), subs, nil)

	p, err := svc.GetChannelProfile(context.Background(), 9, "chandler")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), p.SubscriberCount)
	assert.True(t, p.IsSubscribed)

	_, err = svc.GetChannelProfile(context.Background(), 9, "  ")
	assert.ErrorIs(t, err, ErrValidation)

	subs.err = repository.ErrNotFound
	_, err = svc.GetChannelProfile(context.Background(), 9, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWatchHistory(t *testing.T) {
	users := newFakeUserStore()
	svc := testService(users, nil, nil)
	acc := registerAlice(t, svc)

	entries, err := svc.WatchHistory(context.Background(), acc.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "vid-1", entries[0].VideoRef)
}
