// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"errors"
	"strings"

	"taskboard/internal/authz"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/logger"
	"taskboard/internal/service"
	"taskboard/pkg/auth"
	"taskboard/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Context keys for storing user data
const (
	ActorKey = "actor"
)

// Auth returns a middleware that validates the bearer token and resolves it
// to the acting user. The role is read from the stored user, never from the
// token itself.
func Auth(tokens auth.TokenManager, authn service.Authenticator, log logrus.FieldLogger) gin.HandlerFunc {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		actor, err := authn.Authenticate(c.Request.Context(), claims)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrSessionRevoked):
				response.Unauthorized(c, err.Error())
			case apperrors.KindOf(err) == apperrors.KindUnauthenticated:
				response.Unauthorized(c, "invalid or expired token")
			default:
				logger.CaptureError(log, "authenticate", err, map[string]interface{}{
					"user_id": claims.UserID,
				})
				response.InternalError(c)
			}
			c.Abort()
			return
		}

		SetActor(c, actor)
		c.Next()
	}
}

// SetActor stores the acting user in the context.
func SetActor(c *gin.Context, actor authz.Actor) {
	c.Set(ActorKey, actor)
}

// GetActor retrieves the acting user from the context.
func GetActor(c *gin.Context) (authz.Actor, bool) {
	v, exists := c.Get(ActorKey)
	if !exists {
		return authz.Actor{}, false
	}
	actor, ok := v.(authz.Actor)
	return actor, ok
}
