package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/asafto/kdog-server/internal/domain"
)

type Resp struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// New keeps data non-null in the serialized envelope.
func New(code int, msg string, data interface{}) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

func OK(data interface{}) Resp {
	return New(CodeOK, CodeMsgMap[CodeOK], data)
}

func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, struct{}{})
}

// JSON writes a success envelope.
func JSON(c *gin.Context, data any) {
	c.JSON(http.StatusOK, OK(data))
}

// Err maps domain sentinel errors onto one status each, everywhere. Unknown
// errors become an opaque 500; the original error stays on the gin context
// for the access log.
func Err(c *gin.Context, err error) {
	_ = c.Error(err)
	status := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "" // fall back to the generic message, do not leak internals
	}
	c.AbortWithStatusJSON(status, Error(status, msg))
}

func statusOf(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
