package rest

import (
	"net/http"

	"github.com/dfryer1193/postboard/blog/application"
	"github.com/gin-gonic/gin"
)

const (
	FrontpageLocation = "/home"
	DataLocation      = "/data"
)

// Handlers serves the board over HTTP.
type Handlers struct {
	posts          *application.PostService
	submissions    *application.SubmissionPipeline
	uploadMaxBytes int64
}

func NewHandlers(posts *application.PostService, submissions *application.SubmissionPipeline, uploadMaxBytes int64) *Handlers {
	return &Handlers{
		posts:          posts,
		submissions:    submissions,
		uploadMaxBytes: uploadMaxBytes,
	}
}

func NewApi(router *gin.Engine, h *Handlers) {
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, FrontpageLocation)
	})

	router.GET(FrontpageLocation, h.GetHome)
	router.POST(FrontpageLocation, h.PostHome)
	router.GET(DataLocation+"/:file_id", h.GetFile)

	postsV1 := router.Group("posts/v1")
	{
		postsV1.GET("/", h.GetPosts)
	}
}
