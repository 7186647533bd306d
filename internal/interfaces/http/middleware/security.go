package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	domainerrors "payportal.backend/internal/domain/errors"
	"payportal.backend/internal/interfaces/http/response"
)

// AllowedMethods is the method allow-list applied to every route
var AllowedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

// SecurityHeaders sets the browser hardening headers
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Next()
	}
}

// CORS allows one configured origin. Preflight requests end here.
func CORS(allowedOrigin string) gin.HandlerFunc {
	allowMethods := strings.Join(AllowedMethods, ", ")
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowedOrigin == "*" || origin == allowedOrigin) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", allowMethods)
			h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Idempotency-Key, X-Request-ID")
			h.Set("Access-Control-Max-Age", "600")
			h.Add("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// MethodAllowList rejects methods outside AllowedMethods with 405
func MethodAllowList() gin.HandlerFunc {
	allowed := make(map[string]bool, len(AllowedMethods))
	for _, m := range AllowedMethods {
		allowed[m] = true
	}
	return func(c *gin.Context) {
		if !allowed[c.Request.Method] {
			c.Header("Allow", strings.Join(AllowedMethods, ", "))
			response.Abort(c, domainerrors.NewAppError(http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed", nil))
			return
		}
		c.Next()
	}
}
