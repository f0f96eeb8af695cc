package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tukyboy007/hospital-back/internal/domain"
	"github.com/Tukyboy007/hospital-back/internal/service"
	"github.com/Tukyboy007/hospital-back/internal/session"
	"github.com/Tukyboy007/hospital-back/pkg/response"
)

const identityKey = "identity"

// Authenticate verifies the access token from the Authorization header or
// the access cookie and stores the caller identity on the request context.
// Requests without a valid token are rejected with 401.
func Authenticate(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := session.ExtractAccessToken(c)
		if !ok {
			response.AbortError(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}

		identity, err := auth.Identify(raw)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireRole rejects authenticated callers whose role does not grant the
// required one. Admin passes every check.
func RequireRole(required domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			response.AbortError(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}
		if !identity.Role.Allows(required) {
			response.AbortError(c, http.StatusForbidden, "FORBIDDEN", "insufficient role")
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the identity stored by Authenticate.
func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	identity, ok := v.(domain.Identity)
	return identity, ok
}
