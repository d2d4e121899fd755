package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dfryer1193/postboard/blog/domain"
	"github.com/dfryer1193/postboard/shared/db"
	"github.com/google/uuid"
)

var _ domain.PostRepository = (*SQLPostRepository)(nil)

// SQLPostRepository implements domain.PostRepository on SQLite or Postgres
type SQLPostRepository struct {
	db      *sql.DB
	dialect db.Dialect
	now     func() time.Time
}

// NewPostRepository creates a new SQLPostRepository from a standard sql.DB
func NewPostRepository(sqlDB *sql.DB, dialect db.Dialect) *SQLPostRepository {
	return &SQLPostRepository{
		db:      sqlDB,
		dialect: dialect,
		now:     time.Now,
	}
}

const insertPostQuery = `
	INSERT INTO posts (username, avatar_id, date, content, image_id)
	VALUES (?, ?, ?, ?, ?)
`

// InsertPost appends a post. The date is taken at insert time, in UTC, with
// second precision.
func (r *SQLPostRepository) InsertPost(ctx context.Context, username string, avatarID *uuid.UUID, content string, imageID *uuid.UUID) error {
	if username == "" {
		return fmt.Errorf("%w: username cannot be empty", domain.ErrStorageFailure)
	}
	if content == "" {
		return fmt.Errorf("%w: content cannot be empty", domain.ErrStorageFailure)
	}

	err := db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		date := r.now().UTC().Truncate(time.Second).Format(domain.DateLayout)

		executor := db.GetExecutor(txCtx, r.db)
		_, err := executor.ExecContext(txCtx, db.Rebind(r.dialect, insertPostQuery),
			username,
			nullableID(avatarID),
			date,
			content,
			nullableID(imageID),
		)
		if err != nil {
			return fmt.Errorf("%w: failed to insert post: %w", domain.ErrStorageFailure, err)
		}

		return nil
	})
	return asStorageFailure(err)
}

const listPostsQuery = `
	SELECT id, username, avatar_id, date, content, image_id
	FROM posts
	ORDER BY id ASC
`

// ListPosts retrieves all posts in insertion order
func (r *SQLPostRepository) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, listPostsQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list posts: %w", domain.ErrStorageFailure, err)
	}
	defer rows.Close()

	posts := make([]*domain.Post, 0)
	for rows.Next() {
		var row postRow
		err := rows.Scan(
			&row.ID,
			&row.Username,
			&row.AvatarID,
			&row.Date,
			&row.Content,
			&row.ImageID,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan post row: %w", domain.ErrStorageFailure, err)
		}

		post, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: post %d: %w", domain.ErrStorageFailure, row.ID, err)
		}
		posts = append(posts, post)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating post rows: %w", domain.ErrStorageFailure, err)
	}

	return posts, nil
}

// postRow is a private struct used to scan database rows
type postRow struct {
	ID       int64          `db:"id"`
	Username string         `db:"username"`
	AvatarID sql.NullString `db:"avatar_id"`
	Date     string         `db:"date"`
	Content  string         `db:"content"`
	ImageID  sql.NullString `db:"image_id"`
}

// toDomain converts a postRow to a domain.Post, parsing the stored references
func (pr *postRow) toDomain() (*domain.Post, error) {
	date, err := time.Parse(domain.DateLayout, pr.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", pr.Date, err)
	}

	avatarID, err := parseNullableID(pr.AvatarID)
	if err != nil {
		return nil, fmt.Errorf("invalid avatar id: %w", err)
	}

	imageID, err := parseNullableID(pr.ImageID)
	if err != nil {
		return nil, fmt.Errorf("invalid image id: %w", err)
	}

	return &domain.Post{
		ID:       pr.ID,
		Username: pr.Username,
		AvatarID: avatarID,
		Date:     date,
		Content:  pr.Content,
		ImageID:  imageID,
	}, nil
}

func nullableID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

func parseNullableID(s sql.NullString) (*uuid.UUID, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s.String)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
