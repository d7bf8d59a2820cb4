package model

// ChannelProfile is the read-side aggregation over the
// `subscriptions` relation returned for a channel page: the public
// account fields plus subscriber counts and whether the viewing
// account is among the subscribers. The relation itself is written
// by the video service; this service only aggregates over it.
type ChannelProfile struct {
	ID              uint64
	Username        string
	Email           string
	FullName        string
	AvatarURL       string
	CoverImageURL   string
	SubscriberCount uint64
	SubscribedTo    uint64
	IsSubscribed    bool
}
