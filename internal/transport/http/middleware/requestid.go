package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/asafto/kdog-server/pkg/utils"
)

// KeyRequestID is both the inbound/outbound header and the context key the
// access log reads the id from.
const KeyRequestID = "X-Request-ID"

// RequestID echoes the client's request id or mints one, so every response
// can be tied back to its access-log line.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(KeyRequestID)
		if rid == "" {
			rid = utils.NewID()
		}
		c.Set(KeyRequestID, rid)
		c.Header(KeyRequestID, rid)
		c.Next()
	}
}
