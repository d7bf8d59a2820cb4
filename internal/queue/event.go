// Package queue defines message payloads exchanged over the message
// broker, the publisher that emits them and the background consumer
// that turns them into an audit log.
package queue

// Event types published to the account.events queue.
const (
	EventAccountRegistered = "account.registered"
	EventPasswordChanged   = "account.password_changed"
)

// AccountEvent is published when an account is created or its secret is
// changed. It carries enough information for downstream consumers to
// log, notify, or trigger analytics without querying the primary
// database. No secret material is ever included.
type AccountEvent struct {
	Type       string `json:"type"`
	UserID     uint64 `json:"user_id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	OccurredAt string `json:"occurred_at"`
}
