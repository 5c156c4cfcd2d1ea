package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-blog-publisher/internal/interface/http"
)

type UploadModule struct {
	Handler *handlers.UploadHandler
	Gate    gin.HandlerFunc
	Limit   gin.HandlerFunc
}

func NewUploadModule(h *handlers.UploadHandler, gate, limit gin.HandlerFunc) *UploadModule {
	return &UploadModule{Handler: h, Gate: gate, Limit: limit}
}

func (m *UploadModule) Register(rg *gin.RouterGroup) {
	rg.POST("/uploads/images", m.Gate, m.Limit, m.Handler.UploadImage)
}
