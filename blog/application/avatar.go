package application

import (
	"context"
	"fmt"
	"io"

	"github.com/dfryer1193/postboard/blog/domain"
	"github.com/google/uuid"
	"golang.org/x/net/http/httpguts"
)

// DefaultAvatarMaxBytes caps the size of a downloaded avatar.
const DefaultAvatarMaxBytes int64 = 5 << 20

// AvatarResolver downloads a user's avatar and stores it as a blob.
type AvatarResolver struct {
	source   domain.RemoteSource
	blobs    domain.BlobStore
	maxBytes int64
}

func NewAvatarResolver(source domain.RemoteSource, blobs domain.BlobStore, maxBytes int64) *AvatarResolver {
	if maxBytes <= 0 {
		maxBytes = DefaultAvatarMaxBytes
	}
	return &AvatarResolver{
		source:   source,
		blobs:    blobs,
		maxBytes: maxBytes,
	}
}

// Resolve fetches rawURL once and stores the body. An empty URL or an empty
// body yields no avatar and no error. Download problems are reported as
// domain.ErrAvatarFetch; storage errors are returned unchanged.
func (r *AvatarResolver) Resolve(ctx context.Context, rawURL string) (*uuid.UUID, error) {
	if rawURL == "" {
		return nil, nil
	}

	resp, err := r.source.Get(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAvatarFetch, err)
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" || !httpguts.ValidHeaderFieldValue(contentType) {
		return nil, fmt.Errorf("%w: missing or invalid content type %q", domain.ErrAvatarFetch, contentType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %w", domain.ErrAvatarFetch, err)
	}
	if int64(len(body)) > r.maxBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", domain.ErrAvatarFetch, r.maxBytes)
	}

	if len(body) == 0 {
		return nil, nil
	}

	id, err := r.blobs.PutBlob(ctx, contentType, body)
	if err != nil {
		return nil, err
	}

	return &id, nil
}
