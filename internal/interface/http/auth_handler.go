package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-publisher/internal/application"
	"github.com/oksasatya/go-blog-publisher/internal/interface/middleware"
	"github.com/oksasatya/go-blog-publisher/pkg/response"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,displayname"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthPayload is the data of register and login responses.
type AuthPayload struct {
	Token     string               `json:"token"`
	ExpiresAt time.Time            `json:"expires_at"`
	User      application.Identity `json:"user"`
}

func toAuthPayload(r *application.AuthResult) AuthPayload {
	return AuthPayload{Token: r.Token, ExpiresAt: r.ExpiresAt, User: r.User}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(c, h.Logger, "register", err)
		return
	}
	response.Success(c, http.StatusOK, toAuthPayload(res), "registered", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.Logger, "login", err)
		return
	}
	response.Success(c, http.StatusOK, toAuthPayload(res), "login successful", nil)
}

// Me echoes the identity resolved by the auth middleware.
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := c.Get(middleware.CtxIdentityKey)
	if !ok {
		var err error
		if id, err = h.Svc.Me(c.Request.Context(), middleware.UserID(c)); err != nil {
			writeError(c, h.Logger, "me", err)
			return
		}
	}
	response.Success(c, http.StatusOK, id, "ok", nil)
}
