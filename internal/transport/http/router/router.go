package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/asafto/kdog-server/internal/core/auth"
	"github.com/asafto/kdog-server/internal/transport/http/handler"
	mdw "github.com/asafto/kdog-server/internal/transport/http/middleware"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Posts    *handler.PostHandler
	Comments *handler.CommentHandler
}

// NewAPIEngine assembles the gin engine: hardening middleware, health and
// metrics endpoints, and the /api/v1 surface split into an anonymous group
// and a token-guarded group. publicDir, when non-empty, is served under
// /public so locally stored images resolve by their location URL.
func NewAPIEngine(l *zap.Logger, jwter *auth.JWTer, h Handlers, publicDir string) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if publicDir != "" {
		r.Static("/public", publicDir)
	}

	api := r.Group("/api/v1")

	// public routes run optional auth: anonymous requests pass, a
	// supplied-but-invalid token still fails
	pub := api.Group("")
	pub.Use(mdw.AuthJWT(jwter, false))
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(jwter, true))

	h.Auth.Mount(pub)
	h.Users.Mount(pub, authed)
	h.Posts.Mount(pub, authed)
	h.Comments.Mount(pub, authed)

	return r
}
