package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/streamhub-user-service/internal/model"
)

// SubscriptionRepo aggregates over the `subscriptions` relation
// (subscriber_id -> channel_id edges). The relation is written by
// the video service; this repository only reads it.
type SubscriptionRepo struct{ DB *sql.DB }

func NewSubscriptionRepo(db *sql.DB) *SubscriptionRepo { return &SubscriptionRepo{DB: db} }

// ChannelProfile resolves the account matching the normalized username and
// computes, in a single query, how many accounts subscribe to it, how many
// channels it subscribes to, and whether viewerID is among its subscribers.
func (r *SubscriptionRepo) ChannelProfile(ctx context.Context, username string, viewerID uint64) (*model.ChannelProfile, error) {
	var (
		p     model.ChannelProfile
		cover sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, `
SELECT u.id, u.username, u.email, u.full_name, u.avatar_url, u.cover_image_url,
       (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id)    AS subscriber_count,
       (SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id) AS subscribed_to,
       EXISTS(SELECT 1 FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id = ?) AS is_subscribed
FROM users u WHERE u.username = ? LIMIT 1`,
		viewerID, Normalize(username)).
		Scan(&p.ID, &p.Username, &p.Email, &p.FullName, &p.AvatarURL, &cover,
			&p.SubscriberCount, &p.SubscribedTo, &p.IsSubscribed)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.CoverImageURL = cover.String
	return &p, nil
}
