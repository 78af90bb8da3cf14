// README: Staff auth middleware; checks a shared token on every request.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// StaffAuth accepts the token either as "Authorization: Bearer <token>" or in
// the X-Staff-Token header. An empty configured token rejects everything.
func StaffAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		presented := c.GetHeader("X-Staff-Token")
		if presented == "" {
			auth := c.GetHeader("Authorization")
			presented = strings.TrimPrefix(auth, "Bearer ")
			if presented == auth {
				presented = ""
			}
		}
		if token == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
