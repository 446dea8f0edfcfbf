package api

import (
	"context"
	"log"

	"worklog/internal/errors"
	"worklog/models"
	"worklog/ports"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// UserEnsurer creates the user row for a newly seen identity
type UserEnsurer interface {
	Ensure(ctx context.Context, identity models.Identity) (*models.User, error)
}

// RequireIdentity resolves the caller and aborts with 401 when there is none
func RequireIdentity(resolver ports.IdentityResolver, users UserEnsurer) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := resolver.Resolve(c.Request)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}

		if users != nil {
			if _, err := users.Ensure(c.Request.Context(), *identity); err != nil {
				log.Printf("[API] failed to ensure user %s: %v", identity.UserID, err)
				respondError(c, err)
				c.Abort()
				return
			}
		}

		c.Set(identityKey, *identity)
		c.Set("userID", identity.UserID)
		c.Next()
	}
}

// caller returns the identity stored by RequireIdentity
func caller(c *gin.Context) models.Identity {
	if v, ok := c.Get(identityKey); ok {
		if identity, ok := v.(models.Identity); ok {
			return identity
		}
	}
	return models.Identity{}
}

// respondError renders {"message": ...} with the status mapped from the
// error code. Causes are logged, never returned.
func respondError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= 500 {
		log.Printf("[API] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"message": errors.PublicMessage(err)})
}
