package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/asafto/kdog-server/internal/service"
	mdw "github.com/asafto/kdog-server/internal/transport/http/middleware"
	resp "github.com/asafto/kdog-server/internal/transport/http/response"
)

type CommentHandler struct {
	comments *service.CommentService
}

func NewCommentHandler(comments *service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func (h *CommentHandler) Mount(pub, auth *gin.RouterGroup) {
	pub.GET("/comments/:postId/comments", h.list)
	auth.POST("/comments/:postId", h.create)
	auth.PATCH("/comments/:id", h.update)
	auth.DELETE("/comments/:id", h.delete)
}

func (h *CommentHandler) create(c *gin.Context) {
	caller, _ := mdw.Caller(c)
	up, closeUp, err := formUpload(c)
	if err != nil {
		resp.Err(c, err)
		return
	}
	defer closeUp()

	in := service.CommentInput{Text: c.PostForm("text")}
	cm, err := h.comments.Create(c.Request.Context(), c.Param("postId"), caller, in, up)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.JSON(c, cm)
}

func (h *CommentHandler) list(c *gin.Context) {
	limit, offset := pageQuery(c)
	comments, total, err := h.comments.ListByPost(c.Request.Context(), c.Param("postId"), limit, offset)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.JSON(c, newPage(comments, total))
}

func (h *CommentHandler) update(c *gin.Context) {
	caller, _ := mdw.Caller(c)
	up, closeUp, err := formUpload(c)
	if err != nil {
		resp.Err(c, err)
		return
	}
	defer closeUp()

	in := service.CommentInput{Text: c.PostForm("text")}
	cm, err := h.comments.Update(c.Request.Context(), c.Param("id"), caller, in, up)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.JSON(c, cm)
}

func (h *CommentHandler) delete(c *gin.Context) {
	caller, _ := mdw.Caller(c)
	cm, err := h.comments.Delete(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.JSON(c, cm)
}
