package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dfryer1193/postboard/blog/domain"
	"github.com/dfryer1193/postboard/shared/db"
	"github.com/google/uuid"
)

var _ domain.BlobStore = (*SQLBlobRepository)(nil)

// SQLBlobRepository implements domain.BlobStore with blob bytes kept in the
// blobs table.
type SQLBlobRepository struct {
	db      *sql.DB
	dialect db.Dialect
	newID   func() (uuid.UUID, error)
}

// NewBlobRepository creates a new SQLBlobRepository from a standard sql.DB
func NewBlobRepository(sqlDB *sql.DB, dialect db.Dialect) *SQLBlobRepository {
	return &SQLBlobRepository{
		db:      sqlDB,
		dialect: dialect,
		newID:   uuid.NewV7,
	}
}

const insertBlobQuery = `
	INSERT INTO blobs (id, content_type, content)
	VALUES (?, ?, ?)
`

// PutBlob stores content under a fresh UUIDv7. Identifier collisions surface
// as a primary key violation and are reported as storage failures.
func (r *SQLBlobRepository) PutBlob(ctx context.Context, contentType string, content []byte) (uuid.UUID, error) {
	if len(content) == 0 {
		return uuid.Nil, fmt.Errorf("%w: blob content cannot be empty", domain.ErrStorageFailure)
	}

	id, err := r.newID()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: failed to generate blob id: %w", domain.ErrStorageFailure, err)
	}

	err = db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)
		_, err := executor.ExecContext(txCtx, db.Rebind(r.dialect, insertBlobQuery),
			id.String(),
			contentType,
			content,
		)
		if err != nil {
			return fmt.Errorf("%w: failed to insert blob %s: %w", domain.ErrStorageFailure, id, err)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, asStorageFailure(err)
	}

	return id, nil
}

const getBlobQuery = `
	SELECT content_type, content
	FROM blobs
	WHERE id = ?
`

// GetBlob retrieves a single blob by identifier
func (r *SQLBlobRepository) GetBlob(ctx context.Context, id uuid.UUID) (*domain.Blob, error) {
	blob := &domain.Blob{ID: id}

	err := r.db.QueryRowContext(ctx, db.Rebind(r.dialect, getBlobQuery), id.String()).Scan(
		&blob.ContentType,
		&blob.Content,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrBlobNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: failed to get blob: %w", domain.ErrStorageFailure, err)
	}

	return blob, nil
}
