package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dfryer1193/postboard/blog/domain"
)

var _ domain.BlobStore = (*CachedBlobStore)(nil)

// CachedBlobStore is a read-through cache over another BlobStore.
// Blobs never change after creation, so cached entries are never invalidated.
// Cache failures are logged and otherwise ignored.
type CachedBlobStore struct {
	next  domain.BlobStore
	cache BlobCache
}

func NewCachedBlobStore(next domain.BlobStore, cache BlobCache) *CachedBlobStore {
	return &CachedBlobStore{next: next, cache: cache}
}

func (s *CachedBlobStore) PutBlob(ctx context.Context, contentType string, content []byte) (uuid.UUID, error) {
	id, err := s.next.PutBlob(ctx, contentType, content)
	if err != nil {
		return uuid.Nil, err
	}

	s.store(ctx, &domain.Blob{ID: id, ContentType: contentType, Content: content})
	return id, nil
}

func (s *CachedBlobStore) GetBlob(ctx context.Context, id uuid.UUID) (*domain.Blob, error) {
	blob, err := s.cache.Load(ctx, id)
	if err != nil {
		log.Warn().Err(err).Str("blobID", id.String()).Msg("Blob cache lookup failed")
	} else if blob != nil {
		return blob, nil
	}

	blob, err = s.next.GetBlob(ctx, id)
	if err != nil {
		return nil, err
	}

	s.store(ctx, blob)
	return blob, nil
}

func (s *CachedBlobStore) store(ctx context.Context, blob *domain.Blob) {
	if err := s.cache.Store(ctx, blob); err != nil {
		log.Warn().Err(err).Str("blobID", blob.ID.String()).Msg("Failed to cache blob")
	}
}
