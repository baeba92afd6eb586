package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// CtxRealIPKey is the context key the resolved client address is stored under.
// Rate limiting keys on it, so RealIP must run before any limiter.
const CtxRealIPKey = "real_ip"

// RealIP resolves the client address once per request and stashes it in the
// context. Cloudflare's header wins over X-Forwarded-For (left-most hop);
// gin's ClientIP is the fallback when neither parses.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxRealIPKey, resolveClientIP(c))
		c.Next()
	}
}

func resolveClientIP(c *gin.Context) string {
	for _, candidate := range []string{
		c.GetHeader("CF-Connecting-IP"),
		firstForwarded(c.GetHeader("X-Forwarded-For")),
	} {
		if ip := net.ParseIP(strings.TrimSpace(candidate)); ip != nil {
			return ip.String()
		}
	}
	return c.ClientIP()
}

func firstForwarded(xff string) string {
	if xff == "" {
		return ""
	}
	first, _, _ := strings.Cut(xff, ",")
	return first
}
