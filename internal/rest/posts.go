package rest

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/dfryer1193/postboard/api"
	"github.com/dfryer1193/postboard/blog/application"
	"github.com/dfryer1193/postboard/blog/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

//go:embed templates/home.html
var templateFS embed.FS

var homeTemplate = template.Must(template.ParseFS(templateFS, "templates/home.html"))

type homeView struct {
	Posts []postView
}

type postView struct {
	Order     int
	Username  string
	AvatarURL string
	Date      string
	// Content is stored escaped and is rendered verbatim.
	Content  template.HTML
	ImageURL string
}

func dataURL(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return DataLocation + "/" + id.String()
}

// GetHome renders every post followed by the submission form
func (h *Handlers) GetHome(c *gin.Context) {
	posts := h.posts.ListPosts(c.Request.Context())

	view := homeView{Posts: make([]postView, 0, len(posts))}
	for i, p := range posts {
		view.Posts = append(view.Posts, postView{
			Order:     i + 1,
			Username:  p.Username,
			AvatarURL: dataURL(p.AvatarID),
			Date:      p.Date.UTC().Format(domain.DateLayout),
			Content:   template.HTML(p.Content),
			ImageURL:  dataURL(p.ImageID),
		})
	}

	var buf bytes.Buffer
	if err := homeTemplate.Execute(&buf, view); err != nil {
		log.Error().Err(err).Msg("Failed to render home page")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// PostHome accepts a multipart submission and redirects back to the board
func (h *Handlers) PostHome(c *gin.Context) {
	if h.uploadMaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.uploadMaxBytes)
	}

	form, err := c.Request.MultipartReader()
	if err != nil {
		c.String(http.StatusBadRequest, application.ReasonBadRequest)
		return
	}

	err = h.submissions.Submit(c.Request.Context(), form)
	if err != nil {
		var subErr *application.SubmissionError
		if errors.As(err, &subErr) {
			c.String(http.StatusBadRequest, subErr.Reason)
			return
		}
		c.String(http.StatusBadRequest, application.ReasonBadRequest)
		return
	}

	c.Redirect(http.StatusSeeOther, FrontpageLocation)
}

// GetPosts lists every post as JSON
func (h *Handlers) GetPosts(c *gin.Context) {
	posts := h.posts.ListPosts(c.Request.Context())

	resp := make([]api.Post, 0, len(posts))
	for _, p := range posts {
		resp = append(resp, api.Post{
			ID:        p.ID,
			Username:  p.Username,
			AvatarURL: dataURL(p.AvatarID),
			Date:      p.Date.UTC().Format(domain.DateLayout),
			Content:   p.Content,
			ImageURL:  dataURL(p.ImageID),
		})
	}

	c.JSON(http.StatusOK, resp)
}
