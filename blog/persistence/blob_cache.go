package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/dfryer1193/postboard/blog/domain"
)

const (
	blobCacheKeyPrefix = "postboard:blob:"
	fieldContentType   = "content_type"
	fieldContent       = "content"
)

// BlobCache holds copies of immutable blobs in front of a BlobStore.
// Load reports a miss with a nil blob and a nil error.
type BlobCache interface {
	Load(ctx context.Context, id uuid.UUID) (*domain.Blob, error)
	Store(ctx context.Context, blob *domain.Blob) error
}

// RedisBlobCache keeps each blob as a redis hash with a fixed TTL.
type RedisBlobCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisBlobCache(client redis.Cmdable, ttl time.Duration) *RedisBlobCache {
	return &RedisBlobCache{client: client, ttl: ttl}
}

func blobCacheKey(id uuid.UUID) string {
	return blobCacheKeyPrefix + id.String()
}

func (c *RedisBlobCache) Load(ctx context.Context, id uuid.UUID) (*domain.Blob, error) {
	fields, err := c.client.HGetAll(ctx, blobCacheKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s from redis: %w", id, err)
	}

	content, ok := fields[fieldContent]
	if !ok || content == "" {
		return nil, nil
	}

	return &domain.Blob{
		ID:          id,
		ContentType: fields[fieldContentType],
		Content:     []byte(content),
	}, nil
}

func (c *RedisBlobCache) Store(ctx context.Context, blob *domain.Blob) error {
	key := blobCacheKey(blob.ID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldContentType, blob.ContentType, fieldContent, blob.Content)
		if c.ttl > 0 {
			pipe.Expire(ctx, key, c.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write blob %s to redis: %w", blob.ID, err)
	}
	return nil
}
