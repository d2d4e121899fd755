package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/motemen/go-loghttp"
	"github.com/rs/zerolog/log"

	"github.com/dfryer1193/postboard/blog/domain"
)

const defaultTimeout = 10 * time.Second

var _ domain.RemoteSource = (*Client)(nil)

// Client is a domain.RemoteSource backed by net/http. Every request and
// response is logged through zerolog.
type Client struct {
	http *http.Client
}

// NewClient creates a Client whose requests are bounded by timeout.
// A nil transport falls back to http.DefaultTransport.
func NewClient(timeout time.Duration, transport http.RoundTripper) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &Client{
		http: &http.Client{
			Timeout: timeout,
			Transport: &loghttp.Transport{
				Transport:   transport,
				LogRequest:  logRequest,
				LogResponse: logResponse,
			},
		},
	}
}

// Get fetches rawURL. Only absolute http and https URLs are accepted; a
// non-2xx status is reported as an error and the body is closed.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	op := fmt.Sprintf("fetching %s", rawURL)

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, handleRemoteError(op, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("remote: %s failed: unsupported scheme %q", op, u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, handleRemoteError(op, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, handleRemoteError(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("remote: %s failed with status %d", op, resp.StatusCode)
	}

	return resp, nil
}

func logRequest(req *http.Request) {
	log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Msg("Outbound request")
}

func logResponse(resp *http.Response) {
	log.Debug().
		Str("method", resp.Request.Method).
		Str("url", resp.Request.URL.String()).
		Int("status", resp.StatusCode).
		Int64("contentLength", resp.ContentLength).
		Msg("Outbound response")
}

// handleRemoteError adds the failed operation to transport errors and marks
// timeouts explicitly.
func handleRemoteError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("remote: %s timed out: %w", op, err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Errorf("remote: %s timed out: %w", op, err)
	}

	return fmt.Errorf("remote: %s failed: %w", op, err)
}
