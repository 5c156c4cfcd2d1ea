package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-blog-publisher/internal/interface/http"
)

// AuthModule serves /api/auth/*.
// Public, IP rate limited: POST /register, POST /login
// Protected: GET /me
type AuthModule struct {
	Handler *handlers.AuthHandler
	Gate    gin.HandlerFunc
	Limit   gin.HandlerFunc
}

func NewAuthModule(h *handlers.AuthHandler, gate, limit gin.HandlerFunc) *AuthModule {
	return &AuthModule{Handler: h, Gate: gate, Limit: limit}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/auth")
	g.POST("/register", m.Limit, m.Handler.Register)
	g.POST("/login", m.Limit, m.Handler.Login)
	g.GET("/me", m.Gate, m.Handler.Me)
}
