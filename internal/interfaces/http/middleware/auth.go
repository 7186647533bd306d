package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"payportal.backend/internal/domain/entities"
	domainerrors "payportal.backend/internal/domain/errors"
	"payportal.backend/internal/interfaces/http/response"
	"payportal.backend/pkg/jwt"
	"payportal.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// ActorKey is the gin context key holding the authenticated entities.Actor
	ActorKey = "actor"

	msgAuthFailed         = "Authentication failed"
	msgInsufficientAccess = "Insufficient permissions"
)

// AuthMiddleware verifies the bearer token. Every failure gets the same
// answer so callers cannot tell an expired token from a forged one.
func AuthMiddleware(jwtService *jwt.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			logger.Debug(c.Request.Context(), "Missing bearer token", zap.String("path", c.Request.URL.Path))
			response.Abort(c, domainerrors.Unauthorized(msgAuthFailed))
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			logger.Debug(c.Request.Context(), "Token rejected",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			response.Abort(c, domainerrors.Unauthorized(msgAuthFailed))
			return
		}

		actor := entities.Actor{
			Username:      claims.Username,
			AccountNumber: claims.AccountNumber,
			Role:          claims.Role,
		}
		c.Set(ActorKey, actor)

		ctx := context.WithValue(c.Request.Context(), logger.UsernameKey, actor.Username)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetActor returns the authenticated caller
func GetActor(c *gin.Context) (entities.Actor, bool) {
	v, exists := c.Get(ActorKey)
	if !exists {
		return entities.Actor{}, false
	}
	actor, ok := v.(entities.Actor)
	return actor, ok
}

// RequireRole creates a middleware that requires one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, exists := GetActor(c)
		if !exists {
			response.Abort(c, domainerrors.Unauthorized(msgAuthFailed))
			return
		}

		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}

		response.Abort(c, domainerrors.Forbidden(msgInsufficientAccess))
	}
}
