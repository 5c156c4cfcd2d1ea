package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-publisher/internal/application"
	"github.com/oksasatya/go-blog-publisher/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxUserNameKey  = "userName"
	CtxUserEmailKey = "userEmail"
	CtxIdentityKey  = "identity"
)

// Authenticator resolves an Authorization header to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (application.Identity, error)
}

// Auth requires a valid bearer token whose user still exists.
// It sets userID, userName, userEmail and identity in the Gin context on success.
func Auth(auth Authenticator, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := auth.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		switch {
		case err == nil:
		case errors.Is(err, application.ErrUnauthenticated):
			response.Abort(c, http.StatusUnauthorized, "No token, authorization denied")
			return
		case errors.Is(err, application.ErrInvalidToken):
			response.Abort(c, http.StatusUnauthorized, "Token is not valid")
			return
		default:
			if logger != nil {
				logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("auth user lookup failed")
			}
			response.Abort(c, http.StatusInternalServerError, "Server error")
			return
		}

		c.Set(CtxUserIDKey, id.ID)
		c.Set(CtxUserNameKey, id.Name)
		c.Set(CtxUserEmailKey, id.Email)
		c.Set(CtxIdentityKey, id)
		c.Next()
	}
}

// UserID returns the authenticated user's id set by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}
