package middleware

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"

	"analysis-backend/internal/shared/server/respond"
)

const (
	userIDKey  = "userId"
	isGuestKey = "isGuest"

	userHeader  = "X-User-Id"
	guestHeader = "X-Guest-Id"
	guestPrefix = "guest:"

	maxIdentityLength = 128
)

// Auth identifies the caller. The host platform sends X-User-Id for signed-in
// users; anonymous callers send X-Guest-Id and become "guest:<id>". Paths in
// public skip the check.
func Auth(public ...string) gin.HandlerFunc {
	open := make(map[string]struct{}, len(public))
	for _, p := range public {
		open[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		if _, ok := open[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		userID, guest := identityFrom(c)
		switch {
		case userID == "":
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
			return
		case !validIdentity(userID):
			respond.Error(c, http.StatusBadRequest, "invalid_identity", "Malformed identity header", nil)
			return
		}

		if guest {
			userID = guestPrefix + userID
		}
		c.Set(userIDKey, userID)
		c.Set(isGuestKey, guest)
		c.Next()
	}
}

func identityFrom(c *gin.Context) (string, bool) {
	if id := strings.TrimSpace(c.GetHeader(userHeader)); id != "" {
		return id, false
	}
	return strings.TrimSpace(c.GetHeader(guestHeader)), true
}

func validIdentity(id string) bool {
	if len(id) > maxIdentityLength {
		return false
	}
	return strings.IndexFunc(id, func(r rune) bool {
		return unicode.IsControl(r) || unicode.IsSpace(r)
	}) < 0
}

// UserIDFromContext returns the caller set by Auth.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userIDKey)
}

// IsGuest reports whether the caller identified with a guest id.
func IsGuest(c *gin.Context) bool {
	if c == nil {
		return false
	}
	return c.GetBool(isGuestKey)
}
