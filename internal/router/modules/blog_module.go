package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-blog-publisher/internal/interface/http"
)

// BlogModule serves /api/blogs/*; every route requires a bearer token and is
// rate limited per user.
type BlogModule struct {
	Handler *handlers.BlogHandler
	Gate    gin.HandlerFunc
	Limit   gin.HandlerFunc
}

func NewBlogModule(h *handlers.BlogHandler, gate, limit gin.HandlerFunc) *BlogModule {
	return &BlogModule{Handler: h, Gate: gate, Limit: limit}
}

func (m *BlogModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/blogs")
	g.Use(m.Gate, m.Limit)
	{
		g.GET("", m.Handler.List)
		// static segments win over :id in gin's tree
		g.GET("/search", m.Handler.Search)
		g.GET("/:id", m.Handler.Get)
		g.POST("/save-draft", m.Handler.SaveDraft)
		g.POST("/publish", m.Handler.Publish)
		g.DELETE("/:id", m.Handler.Delete)
	}
}
