package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NotFoundHandler returns a JSON 404 response for unknown routes.
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		writeError(c, http.StatusNotFound, codeNotFound, "not found")
	}
}

// MethodNotAllowedHandler returns a JSON 405 for known paths hit with the wrong method.
func MethodNotAllowedHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		writeError(c, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	}
}
