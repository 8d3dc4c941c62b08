package middleware

import (
	"strings"

	"keyscal/models"

	"github.com/gin-gonic/gin"
)

// SessionHeader names the roster member a request acts for.
const SessionHeader = "X-User"

// SessionMiddleware stores a models.Session under "session" when the
// X-User header names a roster member. Requests without one pass through;
// handlers that need a user reject them.
func SessionMiddleware(roster []string) gin.HandlerFunc {
	members := make(map[string]struct{}, len(roster))
	for _, name := range roster {
		members[name] = struct{}{}
	}
	return func(c *gin.Context) {
		user := strings.TrimSpace(c.GetHeader(SessionHeader))
		if _, ok := members[user]; ok && user != "" {
			c.Set("session", models.Session{UserID: user})
		}
		c.Next()
	}
}
