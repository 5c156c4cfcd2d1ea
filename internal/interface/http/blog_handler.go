package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-publisher/internal/application"
	"github.com/oksasatya/go-blog-publisher/internal/interface/middleware"
	"github.com/oksasatya/go-blog-publisher/pkg/response"
)

type BlogHandler struct {
	Svc    *application.BlogService
	Logger *logrus.Logger
}

func NewBlogHandler(svc *application.BlogService, logger *logrus.Logger) *BlogHandler {
	return &BlogHandler{Svc: svc, Logger: logger}
}

// List returns the caller's blogs, newest first. ?status=draft|drafts|published
func (h *BlogHandler) List(c *gin.Context) {
	blogs, err := h.Svc.List(c.Request.Context(), middleware.UserID(c), c.Query("status"))
	if err != nil {
		writeError(c, h.Logger, "list blogs", err)
		return
	}
	response.List(c, toBlogResponses(blogs), "ok")
}

func (h *BlogHandler) Get(c *gin.Context) {
	b, err := h.Svc.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, "get blog", err)
		return
	}
	response.Success(c, http.StatusOK, toBlogResponse(b), "ok", nil)
}

func (h *BlogHandler) SaveDraft(c *gin.Context) {
	var req saveBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	b, err := h.Svc.SaveDraft(c.Request.Context(), middleware.UserID(c), req.input())
	if err != nil {
		writeError(c, h.Logger, "save draft", err)
		return
	}
	response.Success(c, http.StatusOK, toBlogResponse(b), "Draft saved", nil)
}

func (h *BlogHandler) Publish(c *gin.Context) {
	var req saveBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	b, err := h.Svc.Publish(c.Request.Context(), middleware.UserID(c), req.input())
	if err != nil {
		writeError(c, h.Logger, "publish blog", err)
		return
	}
	response.Success(c, http.StatusOK, toBlogResponse(b), "Blog published", nil)
}

func (h *BlogHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, h.Logger, "delete blog", err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Blog deleted successfully", nil)
}

// Search runs ?q= over the caller's blogs; ?size= caps the hits (default 10).
func (h *BlogHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	blogs, err := h.Svc.Search(c.Request.Context(), middleware.UserID(c), c.Query("q"), size)
	if err != nil {
		writeError(c, h.Logger, "search blogs", err)
		return
	}
	response.List(c, toBlogResponses(blogs), "ok")
}
