package remote

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte("png"))
		case "/slow":
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte("late"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(50*time.Millisecond, nil)

	tests := []struct {
		name    string
		url     string
		wantErr string
		want    string
	}{
		{name: "success", url: srv.URL + "/ok", want: "png"},
		{name: "non-success status", url: srv.URL + "/missing", wantErr: "status 404"},
		{name: "timeout", url: srv.URL + "/slow", wantErr: "timed out"},
		{name: "unsupported scheme", url: "ftp://example.com/a.png", wantErr: "unsupported scheme"},
		{name: "relative url", url: "avatar.png", wantErr: "unsupported scheme"},
		{name: "malformed url", url: "http://[::1", wantErr: "failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.Get(context.Background(), tt.url)
			if tt.wantErr != "" {
				if err == nil {
					resp.Body.Close()
					t.Fatalf("Get(%q) error = nil, want error containing %q", tt.url, tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Get(%q) error = %v, want containing %q", tt.url, err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("Get(%q) error = %v", tt.url, err)
			}
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			if string(body) != tt.want {
				t.Errorf("body = %q, want %q", body, tt.want)
			}
		})
	}
}
