package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/dfryer1193/postboard/blog/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrInvalidBlobID = errors.New("invalid blob id")

// PostService serves the read side of the board.
type PostService struct {
	posts domain.PostRepository
	blobs domain.BlobStore
}

func NewPostService(posts domain.PostRepository, blobs domain.BlobStore) *PostService {
	return &PostService{
		posts: posts,
		blobs: blobs,
	}
}

// ListPosts returns every post in insertion order. A failed read is logged
// and shown as an empty board.
func (s *PostService) ListPosts(ctx context.Context) []*domain.Post {
	posts, err := s.posts.ListPosts(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list posts")
		return []*domain.Post{}
	}
	return posts
}

// GetBlob looks up a blob by its canonical string identifier
func (s *PostService) GetBlob(ctx context.Context, id string) (*domain.Blob, error) {
	blobID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBlobID, id)
	}

	return s.blobs.GetBlob(ctx, blobID)
}
