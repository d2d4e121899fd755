package rest

import (
	"errors"
	"net/http"

	"github.com/dfryer1193/postboard/blog/application"
	"github.com/dfryer1193/postboard/blog/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http/httpguts"
)

// GetFile serves a stored blob with its recorded content type. Every failure
// is a 404.
func (h *Handlers) GetFile(c *gin.Context) {
	fileID := c.Param("file_id")

	blob, err := h.posts.GetBlob(c.Request.Context(), fileID)
	if errors.Is(err, application.ErrInvalidBlobID) {
		c.String(http.StatusNotFound, "invalid id")
		return
	}
	if err != nil {
		if !errors.Is(err, domain.ErrBlobNotFound) {
			log.Error().Err(err).Str("fileID", fileID).Msg("Failed to read blob")
		}
		c.String(http.StatusNotFound, "data not found")
		return
	}

	if !httpguts.ValidHeaderFieldValue(blob.ContentType) {
		log.Warn().Str("fileID", fileID).Str("contentType", blob.ContentType).Msg("Stored content type is not a valid header value")
		c.String(http.StatusNotFound, "data not found")
		return
	}

	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Data(http.StatusOK, blob.ContentType, blob.Content)
}
