package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/asafto/kdog-server/internal/service"
	mdw "github.com/asafto/kdog-server/internal/transport/http/middleware"
	resp "github.com/asafto/kdog-server/internal/transport/http/response"
)

type UserHandler struct {
	users *service.UserService
	posts *service.PostService
}

func NewUserHandler(users *service.UserService, posts *service.PostService) *UserHandler {
	return &UserHandler{users: users, posts: posts}
}

// Mount wires the user routes: pub is the anonymous group, auth the
// token-guarded one. Admin-only access is enforced by the service policy,
// not by a separate engine.
func (h *UserHandler) Mount(pub, auth *gin.RouterGroup) {
	pub.POST("/users", h.register)
	pub.GET("/users/:id/posts", h.listPosts)
	auth.GET("/users/me", h.me)
	auth.GET("/users/:id", h.get)
	auth.GET("/users", h.list)
	auth.PATCH("/users/:id", h.update)
	auth.DELETE("/users/:id", h.delete)
}

func (h *UserHandler) register(c *gin.Context) {
	var in struct {
		Name      string     `json:"name" binding:"required"`
		Email     string     `json:"email" binding:"required,email"`
		Password  string     `json:"password" binding:"required"`
		Role      string     `json:"role"`
		BirthDate *time.Time `json:"birthDate"`
		Gender    string     `json:"gender"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Err(c, bindErr(err))
		return
	}
	u, err := h.users.Register(c.Request.Context(), service.RegisterInput{
		Name:      in.Name,
		Email:     in.Email,
		Password:  in.Password,
		Role:      in.Role,
		BirthDate: in.BirthDate,
		Gender:    in.Gender,
	})
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.JSON(c, u)
}

func (h *UserHandler) me(c *gin.Context) {
	caller, _ := mdw.Caller(c)
	u, err := h.users.Get(c.Request.Context(), caller.ID, caller)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.JSON(c, u)
}

func (h *UserHandler) get(c *gin.Context) {
	caller, _ := mdw.Caller(c)
	u, err := h.users.Get(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.JSON(c, u)
}

func (h *UserHandler) list(c *gin.Context) {
	caller, _ := mdw.Caller(c)
	limit, offset := pageQuery(c)
	users, total, err := h.users.List(c.Request.Context(), caller, limit, offset)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.JSON(c, newPage(users, total))
}

func (h *UserHandler) listPosts(c *gin.Context) {
	limit, offset := pageQuery(c)
	posts, total, err := h.posts.ListByAuthor(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.JSON(c, newPage(posts, total))
}

func (h *UserHandler) update(c *gin.Context) {
	caller, _ := mdw.Caller(c)
	var in struct {
		Name      *string    `json:"name"`
		Email     *string    `json:"email"`
		Password  *string    `json:"password"`
		Role      *string    `json:"role"`
		BirthDate *time.Time `json:"birthDate"`
		Gender    *string    `json:"gender"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Err(c, bindErr(err))
		return
	}
	u, err := h.users.Update(c.Request.Context(), c.Param("id"), service.UpdateUserInput{
		Name:      in.Name,
		Email:     in.Email,
		Password:  in.Password,
		Role:      in.Role,
		BirthDate: in.BirthDate,
		Gender:    in.Gender,
	}, caller)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.JSON(c, u)
}

func (h *UserHandler) delete(c *gin.Context) {
	caller, _ := mdw.Caller(c)
	u, err := h.users.Delete(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.JSON(c, u)
}
