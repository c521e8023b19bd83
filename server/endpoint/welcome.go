package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Welcome answers the bare root with a plain-text greeting.
func Welcome(text string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, text)
	}
}

// Favicon answers browsers' favicon requests with an empty 204.
func Favicon() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	}
}
