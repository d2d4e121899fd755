package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"unicode/utf8"

	"github.com/dfryer1193/postboard/blog/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Reasons reported to the client when a submission is rejected.
const (
	ReasonBadUsername = "bad username"
	ReasonBadAvatar   = "bad user avatar"
	ReasonBadContent  = "bad content"
	ReasonBadImage    = "bad image"
	ReasonBadRequest  = "bad request"
)

// DefaultImageContentType is used for an image part that declares no type.
const DefaultImageContentType = "image/png"

// Form field names accepted by the pipeline.
const (
	FieldUsername = "username"
	FieldAvatar   = "useravatar"
	FieldContent  = "content"
	FieldImage    = "image"
)

var errInvalidText = errors.New("field is not valid UTF-8 text")

// SubmissionError rejects a submission. Reason is safe to show to clients;
// Err carries the underlying cause for logs.
type SubmissionError struct {
	Reason string
	Err    error
}

func (e *SubmissionError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return e.Reason + ": " + e.Err.Error()
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// SubmissionPipeline turns one multipart form into one stored post.
type SubmissionPipeline struct {
	posts   domain.PostRepository
	blobs   domain.BlobStore
	avatars *AvatarResolver
}

func NewSubmissionPipeline(posts domain.PostRepository, blobs domain.BlobStore, avatars *AvatarResolver) *SubmissionPipeline {
	return &SubmissionPipeline{
		posts:   posts,
		blobs:   blobs,
		avatars: avatars,
	}
}

// submission accumulates the fields seen so far
type submission struct {
	username string
	avatarID *uuid.UUID
	content  string
	imageID  *uuid.UUID
}

// Submit consumes the form parts in arrival order and stores the post once
// every part has been read. The first failing field aborts the submission.
// Blobs stored for earlier fields are kept even when a later step fails.
func (p *SubmissionPipeline) Submit(ctx context.Context, form *multipart.Reader) error {
	var s submission

	for {
		part, err := form.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Debug().Err(err).Msg("Multipart stream ended early")
			break
		}

		err = p.consumePart(ctx, part, &s)
		part.Close()
		if err != nil {
			return err
		}
	}

	if s.username == "" || s.content == "" {
		return reject(ReasonBadRequest, errors.New("username and content are required"))
	}

	err := p.posts.InsertPost(ctx, s.username, s.avatarID, EscapeContent(s.content), s.imageID)
	if err != nil {
		return reject(ReasonBadRequest, err)
	}

	log.Info().Str("username", s.username).Bool("avatar", s.avatarID != nil).Bool("image", s.imageID != nil).Msg("Post submitted")
	return nil
}

func (p *SubmissionPipeline) consumePart(ctx context.Context, part *multipart.Part, s *submission) error {
	switch part.FormName() {
	case FieldUsername:
		text, err := readText(part)
		if err != nil {
			return reject(ReasonBadUsername, err)
		}
		s.username = text

	case FieldAvatar:
		rawURL, err := readText(part)
		if err != nil {
			return reject(ReasonBadAvatar, err)
		}
		id, err := p.avatars.Resolve(ctx, rawURL)
		if err != nil {
			return reject(ReasonBadAvatar, err)
		}
		s.avatarID = id

	case FieldContent:
		text, err := readText(part)
		if err != nil {
			return reject(ReasonBadContent, err)
		}
		s.content = text

	case FieldImage:
		contentType := part.Header.Get("Content-Type")
		if contentType == "" {
			contentType = DefaultImageContentType
		}

		data, err := io.ReadAll(part)
		if err != nil {
			return reject(ReasonBadImage, fmt.Errorf("failed to read image: %w", err))
		}
		if len(data) == 0 {
			s.imageID = nil
			return nil
		}

		id, err := p.blobs.PutBlob(ctx, contentType, data)
		if err != nil {
			return reject(ReasonBadImage, err)
		}
		s.imageID = &id
	}

	return nil
}

func readText(part *multipart.Part) (string, error) {
	data, err := io.ReadAll(part)
	if err != nil {
		return "", fmt.Errorf("failed to read field %q: %w", part.FormName(), err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("field %q: %w", part.FormName(), errInvalidText)
	}
	return string(data), nil
}

func reject(reason string, err error) error {
	log.Warn().Err(err).Str("reason", reason).Msg("Submission rejected")
	return &SubmissionError{Reason: reason, Err: err}
}
