package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	domainerrors "payportal.backend/internal/domain/errors"
	"payportal.backend/internal/interfaces/http/response"
)

// TimeoutMiddleware puts a deadline on the request context. Store calls
// observe it; a handler that ran out of time without answering gets 504.
func TimeoutMiddleware(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			response.Abort(c, domainerrors.Timeout(ctx.Err()))
		}
	}
}
