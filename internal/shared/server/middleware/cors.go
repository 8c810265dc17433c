package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	corsMethods = "GET,POST,OPTIONS"
	corsHeaders = "Content-Type, X-Guest-Id, X-User-Id, X-Request-Id"
	corsExpose  = "X-Request-Id, Retry-After"
)

// originMatcher accepts exact origins and "scheme://*.domain" patterns, so a
// panel embedded on any subdomain of the host can call the API.
type originMatcher struct {
	exact    map[string]struct{}
	suffixes []string
}

func newOriginMatcher(origins []string) originMatcher {
	m := originMatcher{exact: make(map[string]struct{})}
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		if scheme, rest, ok := strings.Cut(o, "://*."); ok {
			m.suffixes = append(m.suffixes, scheme+"://|."+rest)
			continue
		}
		m.exact[o] = struct{}{}
	}
	return m
}

func (m originMatcher) allows(origin string) bool {
	if _, ok := m.exact[origin]; ok {
		return true
	}
	for _, s := range m.suffixes {
		scheme, domain, _ := strings.Cut(s, "|")
		host, ok := strings.CutPrefix(origin, scheme)
		if ok && strings.HasSuffix(host, domain) && len(host) > len(domain) {
			return true
		}
	}
	return false
}

// CORS answers preflights and echoes allowed origins.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	matcher := newOriginMatcher(allowedOrigins)

	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" && matcher.allows(origin) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", corsMethods)
			h.Set("Access-Control-Allow-Headers", corsHeaders)
			h.Set("Access-Control-Expose-Headers", corsExpose)
			h.Set("Access-Control-Max-Age", "600")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
