package services

import (
	"context"
	"io"
)

// AvatarStorageSvc is the object-storage collaborator used for avatar assets.
type AvatarStorageSvc interface {
	// Upload streams an object to remote storage under the given key and
	// returns its public URL.
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)

	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
}
