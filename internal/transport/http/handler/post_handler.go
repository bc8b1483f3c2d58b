package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/asafto/kdog-server/internal/service"
	mdw "github.com/asafto/kdog-server/internal/transport/http/middleware"
	resp "github.com/asafto/kdog-server/internal/transport/http/response"
)

type PostHandler struct {
	posts *service.PostService
}

func NewPostHandler(posts *service.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

func (h *PostHandler) Mount(pub, auth *gin.RouterGroup) {
	pub.GET("/posts", h.list)
	pub.GET("/posts/:id", h.get)
	auth.GET("/posts/image/:key", h.image)
	auth.POST("/posts", h.create)
	auth.PATCH("/posts/:id", h.update)
	auth.DELETE("/posts/:id", h.delete)
	auth.POST("/posts/:id/like", h.toggleLike)
}

// create accepts multipart form data: text, repeated tags fields and an
// optional image file.
func (h *PostHandler) create(c *gin.Context) {
	caller, _ := mdw.Caller(c)
	up, closeUp, err := formUpload(c)
	if err != nil {
		resp.Err(c, err)
		return
	}
	defer closeUp()

	in := service.PostInput{
		Text: c.PostForm("text"),
		Tags: c.PostFormArray("tags"),
	}
	p, err := h.posts.Create(c.Request.Context(), caller, in, up)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.JSON(c, p)
}

func (h *PostHandler) get(c *gin.Context) {
	p, err := h.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.JSON(c, p)
}

func (h *PostHandler) list(c *gin.Context) {
	limit, offset := pageQuery(c)
	posts, total, err := h.posts.List(c.Request.Context(), limit, offset)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.JSON(c, newPage(posts, total))
}

func (h *PostHandler) update(c *gin.Context) {
	caller, _ := mdw.Caller(c)
	up, closeUp, err := formUpload(c)
	if err != nil {
		resp.Err(c, err)
		return
	}
	defer closeUp()

	in := service.PostInput{
		Text: c.PostForm("text"),
		Tags: c.PostFormArray("tags"),
	}
	p, err := h.posts.Update(c.Request.Context(), c.Param("id"), caller, in, up)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.JSON(c, p)
}

func (h *PostHandler) delete(c *gin.Context) {
	caller, _ := mdw.Caller(c)
	p, err := h.posts.Delete(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.JSON(c, p)
}

func (h *PostHandler) toggleLike(c *gin.Context) {
	caller, _ := mdw.Caller(c)
	p, err := h.posts.ToggleLike(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.JSON(c, p)
}

// image streams the stored blob back to the client.
func (h *PostHandler) image(c *gin.Context) {
	rc, contentType, err := h.posts.OpenImage(c.Request.Context(), c.Param("key"))
	if err != nil {
		resp.Err(c, err)
		return
	}
	defer rc.Close()
	c.Header("Content-Type", contentType)
	c.Status(200)
	_, _ = io.Copy(c.Writer, rc)
}
