// Package repository defines error types that are reused across
// repositories. These sentinel values let the service layer
// distinguish failure scenarios without inspecting driver error
// strings itself. For example, ErrUserExists signals a unique-index
// violation on username or email, while ErrNotFound signals that no
// row matched a lookup.
package repository

import "errors"

// ErrUserExists is returned by Create when the username or email
// collides with an existing account. The service layer translates
// this into its conflict error.
var ErrUserExists = errors.New("username or email already exists")

// ErrNotFound is returned when a lookup matches no row. It wraps
// the semantics of sql.ErrNoRows so callers outside this package
// never depend on database/sql directly.
var ErrNotFound = errors.New("not found")
