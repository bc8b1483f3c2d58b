package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/asafto/kdog-server/internal/core/auth"
	"github.com/asafto/kdog-server/internal/domain"
	resp "github.com/asafto/kdog-server/internal/transport/http/response"
)

const keyCaller = "caller"

// AuthJWT verifies the bearer token and attaches the decoded caller to the
// context. With required=false the request proceeds anonymously when no
// token is supplied; a supplied-but-invalid token always fails.
func AuthJWT(j *auth.JWTer, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					resp.Error(resp.CodeUnauthorized, "access denied, token was not provided"))
				return
			}
			c.Next()
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		c.Set(keyCaller, claims.Caller())
		c.Next()
	}
}

// Caller returns the authenticated identity set by AuthJWT.
func Caller(c *gin.Context) (domain.Caller, bool) {
	v, ok := c.Get(keyCaller)
	if !ok {
		return domain.Caller{}, false
	}
	caller, ok := v.(domain.Caller)
	return caller, ok
}
