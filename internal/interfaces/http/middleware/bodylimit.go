package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/labcore/backend/internal/interfaces/http/dto"
)

// BodyLimit caps request bodies at maxBytes. A declared Content-Length over
// the cap is refused before the handler runs; chunked bodies are cut off
// while reading and surface through HandleBindError. maxBytes <= 0 turns
// the limit off.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		return passThrough
	}
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
