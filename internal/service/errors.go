// Package service implements the session lifecycle: registration,
// login, logout, refresh-token rotation, password change, profile
// updates and the channel-profile aggregation. Handlers stay thin;
// everything that must hold under the testable properties lives here.
package service

import "errors"

// The failure taxonomy surfaced to handlers. Every operation returns one
// of these sentinels (wrapped with context via %w) or nil; nothing is
// swallowed and nothing is retried. Handlers map them onto HTTP statuses:
//
//	ErrValidation       400  malformed or missing input
//	ErrConflict         409  username/email uniqueness violation
//	ErrNotFound         404  no matching account
//	ErrAuth             401  bad secret, token mismatch, missing/expired/invalid token
//	ErrUpload           502  the media store returned no usable reference
//	ErrStoreUnavailable 503  the database could not serve the request
var (
	ErrValidation       = errors.New("validation failed")
	ErrConflict         = errors.New("already exists")
	ErrNotFound         = errors.New("not found")
	ErrAuth             = errors.New("unauthorized")
	ErrUpload           = errors.New("upload failed")
	ErrStoreUnavailable = errors.New("store unavailable")
)
