package http

import (
	"net/http"
	"strings"

	"github.com/KpG782/qr-registration/internal/auth"
	"github.com/gin-gonic/gin"
)

const organizerKey = "organizer"

// TokenVerifier checks an organizer bearer token.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// RequireOrganizer rejects requests without a valid organizer bearer token.
// The verified subject is stored on the context under "organizer".
func RequireOrganizer(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeError(c, http.StatusUnauthorized, codeUnauthorized, "missing bearer token")
			return
		}
		claims, err := verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			writeError(c, http.StatusUnauthorized, codeUnauthorized, "invalid token")
			return
		}
		if claims.Role != auth.RoleOrganizer {
			writeError(c, http.StatusForbidden, codeForbidden, "forbidden")
			return
		}
		c.Set(organizerKey, claims.Subject)
		c.Next()
	}
}
