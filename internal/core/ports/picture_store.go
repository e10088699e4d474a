package ports

import "context"

// PictureStore persists profile pictures keyed by account token.
type PictureStore interface {
	// Save stores data as <token>.<ext>, removing any previous picture saved
	// under the same token, and returns the stored path.
	Save(ctx context.Context, token, ext string, data []byte) (string, error)
	// Find returns the stored path for token, or ok=false when none exists.
	Find(ctx context.Context, token string) (path string, ok bool, err error)
	// DefaultPath is the placeholder returned for identities without a picture.
	DefaultPath() string
}
