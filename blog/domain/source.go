package domain

import (
	"context"
	"net/http"
)

// RemoteSource fetches resources that live outside the service, such as
// avatar images linked by URL.
type RemoteSource interface {
	// Get issues a single GET. The caller owns and must close the response body.
	Get(ctx context.Context, rawURL string) (*http.Response, error)
}
