package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/festy23/realty_ops/internal/response"
)

const actorIDKey = "actor_id"

// TokenParser resolves a bearer token to the authenticated user id.
type TokenParser interface {
	ParseToken(token string) (string, error)
}

// Auth rejects requests without a valid bearer token and stores the actor id on the context.
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.Unauthorized(c, "missing bearer token")
			return
		}

		actorID, err := parser.ParseToken(strings.TrimSpace(token))
		if err != nil || actorID == "" {
			response.Unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(actorIDKey, actorID)
		c.Next()
	}
}

// ActorID returns the authenticated user id set by Auth.
func ActorID(c *gin.Context) (string, bool) {
	id := c.GetString(actorIDKey)
	return id, id != ""
}

// SetActorID stores id as the authenticated user. Used by Auth and by handler tests.
func SetActorID(c *gin.Context, id string) {
	c.Set(actorIDKey, id)
}
