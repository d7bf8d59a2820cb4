package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelProfileAggregation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewSubscriptionRepo(db)

	mock.ExpectQuery("SELECT u.id, u.username, u.email, u.full_name").
		WithArgs(9, "chandler").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "username", "email", "full_name", "avatar_url", "cover_image_url",
			"subscriber_count", "subscribed_to", "is_subscribed",
		}).AddRow(3, "chandler", "c@x.com", "Chandler B", "http://img/av", nil, 3, 5, true))

	p, err := repo.ChannelProfile(context.Background(), " Chandler ", 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), p.SubscriberCount)
	assert.Equal(t, uint64(5), p.SubscribedTo)
	assert.True(t, p.IsSubscribed)
	assert.Equal(t, "chandler", p.Username)
	assert.Empty(t, p.CoverImageURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChannelProfileUnknownHandle(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewSubscriptionRepo(db)

	mock.ExpectQuery("SELECT u.id, u.username").
		WithArgs(9, "nobody").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.ChannelProfile(context.Background(), "nobody", 9)
	assert.ErrorIs(t, err, ErrNotFound)
}
