package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-publisher/internal/application"
	"github.com/oksasatya/go-blog-publisher/pkg/response"
	"github.com/oksasatya/go-blog-publisher/pkg/validation"
)

// writeError maps service errors onto the HTTP taxonomy. Anything not
// recognised is logged and reported as a bare 500.
func writeError(c *gin.Context, logger *logrus.Logger, op string, err error) {
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error[any](c, http.StatusBadRequest, verr.Message(), verr.Fields)
	case errors.Is(err, application.ErrBlogNotFound):
		response.Error[any](c, http.StatusNotFound, "Blog not found", nil)
	case errors.Is(err, application.ErrEmailTaken):
		response.Error[any](c, http.StatusBadRequest, "User already exists", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusBadRequest, "Invalid credentials", nil)
	case errors.Is(err, application.ErrUnauthenticated):
		response.Error[any](c, http.StatusUnauthorized, "No token, authorization denied", nil)
	case errors.Is(err, application.ErrInvalidToken):
		response.Error[any](c, http.StatusUnauthorized, "Token is not valid", nil)
	case errors.Is(err, application.ErrUploadsDisabled):
		response.Error[any](c, http.StatusServiceUnavailable, "Image uploads are not available", nil)
	case errors.Is(err, application.ErrUnsupportedImage):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, application.ErrImageTooLarge):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	default:
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"op":         op,
				"path":       c.FullPath(),
			}).Error("request failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "Server error", nil)
	}
}

func badPayload(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "Invalid payload", validation.ToDetails(err))
}
