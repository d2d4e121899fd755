package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the persisted and rendered form of Post.Date.
const DateLayout = "2006-01-02T15:04:05Z"

// Post represents a submitted blog post.
// Avatar and image are weak references into the BlobStore; a nil ID means
// the post has none.
type Post struct {
	ID       int64
	Username string
	AvatarID *uuid.UUID
	Date     time.Time
	Content  string
	ImageID  *uuid.UUID
}

type PostRepository interface {
	// InsertPost appends a post stamped with the current UTC time.
	InsertPost(ctx context.Context, username string, avatarID *uuid.UUID, content string, imageID *uuid.UUID) error

	// ListPosts returns every post in ascending insertion order.
	ListPosts(ctx context.Context) ([]*Post, error)
}
