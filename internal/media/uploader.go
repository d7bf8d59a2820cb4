// Package media integrates with the external object store that hosts
// avatar and cover images. The service layer depends on the Uploader
// interface only, so tests can substitute a fake and the real backend
// can be swapped without touching session logic.
package media

import (
	"context"
	"io"
)

// Uploader stores an image and returns a publicly reachable URL for it.
// An empty URL without an error is treated as a failed upload by callers.
// The upload is never retried here; the collaborator is fallible and
// possibly slow, and the caller decides how to surface a failure.
type Uploader interface {
	Upload(ctx context.Context, body io.Reader, size int64, contentType string) (string, error)
}
