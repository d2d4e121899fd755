package domain

import (
	"context"

	"github.com/google/uuid"
)

// Blob is an immutable binary object, such as an uploaded image or a fetched
// avatar, stored independently of any post.
type Blob struct {
	ID          uuid.UUID
	ContentType string
	Content     []byte
}

type BlobStore interface {
	// PutBlob stores content under a newly generated time-ordered identifier.
	PutBlob(ctx context.Context, contentType string, content []byte) (uuid.UUID, error)

	// GetBlob returns ErrBlobNotFound when no blob has the given identifier.
	GetBlob(ctx context.Context, id uuid.UUID) (*Blob, error)
}
