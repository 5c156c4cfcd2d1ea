package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-publisher/internal/application"
	"github.com/oksasatya/go-blog-publisher/internal/interface/middleware"
	"github.com/oksasatya/go-blog-publisher/pkg/response"
)

type UploadHandler struct {
	Svc    *application.MediaService
	Logger *logrus.Logger
}

func NewUploadHandler(svc *application.MediaService, logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{Svc: svc, Logger: logger}
}

// UploadImage takes a multipart "image" field and returns its public URL.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	if h.Svc.Uploader == nil {
		writeError(c, h.Logger, "upload image", application.ErrUploadsDisabled)
		return
	}
	if h.Svc.MaxBytes > 0 {
		// multipart overhead on top of the file itself
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Svc.MaxBytes+1<<20)
	}
	fh, err := c.FormFile("image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "image file is required", map[string]string{"image": "is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, h.Logger, "open upload", err)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadImage(c.Request.Context(), middleware.UserID(c), fh.Size, f)
	if err != nil {
		writeError(c, h.Logger, "upload image", err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"url": url}, "image uploaded", nil)
}
