package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = previous })

	return &buf
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(LoggingMiddleware(), gin.CustomRecovery(HandlePanics()))
	router.GET("/ok/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.GET("/missing", func(c *gin.Context) { c.String(http.StatusNotFound, "nope") })
	router.GET("/panic-error", func(c *gin.Context) { panic(errors.New("secret detail")) })
	router.GET("/panic-value", func(c *gin.Context) { panic("boom") })

	return router
}

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantLevel  string
		wantRoute  string
	}{
		{name: "success", path: "/ok/42", wantStatus: http.StatusOK, wantLevel: `"level":"info"`, wantRoute: `"route":"/ok/:id"`},
		{name: "client error", path: "/missing", wantStatus: http.StatusNotFound, wantLevel: `"level":"warn"`, wantRoute: `"route":"/missing"`},
		{name: "panic", path: "/panic-value", wantStatus: http.StatusInternalServerError, wantLevel: `"level":"error"`, wantRoute: `"route":"/panic-value"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := captureLogs(t)
			router := newTestRouter()

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
			access := lines[len(lines)-1]
			for _, want := range []string{tt.wantLevel, tt.wantRoute, `"message":"Handled request"`, `"path":"` + tt.path + `"`} {
				if !strings.Contains(access, want) {
					t.Errorf("access log %s missing %s", access, want)
				}
			}
		})
	}
}

func TestHandlePanics(t *testing.T) {
	logs := captureLogs(t)
	router := newTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic-error", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if strings.Contains(w.Body.String(), "secret detail") {
		t.Errorf("response body leaks panic detail: %q", w.Body.String())
	}
	if !strings.Contains(logs.String(), "secret detail") {
		t.Errorf("panic detail not logged: %s", logs.String())
	}
}
