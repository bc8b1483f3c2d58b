package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/asafto/kdog-server/internal/service"
	resp "github.com/asafto/kdog-server/internal/transport/http/response"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Mount(g *gin.RouterGroup) {
	g.POST("/auth", h.login)
}

func (h *AuthHandler) login(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Err(c, bindErr(err))
		return
	}
	token, u, err := h.auth.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.JSON(c, gin.H{"token": token, "user": u})
}
