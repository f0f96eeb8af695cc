package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tukyboy007/hospital-back/internal/session"
	"github.com/Tukyboy007/hospital-back/pkg/response"
)

// CSRF enforces the double-submit check on state-mutating verbs. Reads pass
// through untouched. A valid access token alone is not enough for a mutation.
func CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			if err := session.CheckCSRF(c); err != nil {
				response.AbortError(c, http.StatusUnauthorized, "UNAUTHORIZED", "csrf validation failed")
				return
			}
		}
		c.Next()
	}
}
