package application

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/dfryer1193/postboard/blog/domain"
	"github.com/google/uuid"
)

type memoryPosts struct {
	mu        sync.Mutex
	posts     []*domain.Post
	insertErr error
	listErr   error
}

func (m *memoryPosts) InsertPost(ctx context.Context, username string, avatarID *uuid.UUID, content string, imageID *uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.insertErr != nil {
		return m.insertErr
	}
	m.posts = append(m.posts, &domain.Post{
		ID:       int64(len(m.posts) + 1),
		Username: username,
		AvatarID: avatarID,
		Date:     time.Now().UTC().Truncate(time.Second),
		Content:  content,
		ImageID:  imageID,
	})
	return nil
}

func (m *memoryPosts) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]*domain.Post{}, m.posts...), nil
}

type memoryBlobs struct {
	mu    sync.Mutex
	blobs map[uuid.UUID]*domain.Blob
	// failContentType makes PutBlob fail for blobs of that type
	failContentType string
}

func newMemoryBlobs() *memoryBlobs {
	return &memoryBlobs{blobs: make(map[uuid.UUID]*domain.Blob)}
}

func (m *memoryBlobs) PutBlob(ctx context.Context, contentType string, content []byte) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failContentType != "" && contentType == m.failContentType {
		return uuid.Nil, fmt.Errorf("%w: disk full", domain.ErrStorageFailure)
	}

	id := uuid.Must(uuid.NewV7())
	m.blobs[id] = &domain.Blob{
		ID:          id,
		ContentType: contentType,
		Content:     append([]byte{}, content...),
	}
	return id, nil
}

func (m *memoryBlobs) GetBlob(ctx context.Context, id uuid.UUID) (*domain.Blob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	blob, ok := m.blobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrBlobNotFound, id)
	}
	return blob, nil
}

func (m *memoryBlobs) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}

// formField is one part of a test multipart form. A part with a filename is
// written as a file upload; an empty contentType omits the header.
type formField struct {
	name        string
	value       []byte
	filename    string
	contentType string
}

func textField(name, value string) formField {
	return formField{name: name, value: []byte(value)}
}

func fileField(filename, contentType string, data []byte) formField {
	return formField{name: FieldImage, value: data, filename: filename, contentType: contentType}
}

func buildForm(t *testing.T, fields ...formField) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range fields {
		header := make(textproto.MIMEHeader)
		disposition := fmt.Sprintf(`form-data; name=%q`, f.name)
		if f.filename != "" {
			disposition += fmt.Sprintf(`; filename=%q`, f.filename)
		}
		header.Set("Content-Disposition", disposition)
		if f.contentType != "" {
			header.Set("Content-Type", f.contentType)
		}

		part, err := w.CreatePart(header)
		if err != nil {
			t.Fatalf("CreatePart() error = %v", err)
		}
		if _, err := part.Write(f.value); err != nil {
			t.Fatalf("part.Write() error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("multipart writer Close() error = %v", err)
	}

	return &body, w.Boundary()
}

func formReader(t *testing.T, fields ...formField) *multipart.Reader {
	t.Helper()
	body, boundary := buildForm(t, fields...)
	return multipart.NewReader(body, boundary)
}
