package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-blog-publisher/internal/infrastructure/metrics"
)

// DebugModule exposes expvar and, when available, Prometheus metrics.
type DebugModule struct {
	Metrics *metrics.Metrics
	Limit   gin.HandlerFunc
}

func NewDebugModule(m *metrics.Metrics, limit gin.HandlerFunc) *DebugModule {
	return &DebugModule{Metrics: m, Limit: limit}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/debug/vars", m.Limit, gin.WrapH(expvar.Handler()))
	if m.Metrics != nil {
		rg.GET("/debug/metrics", m.Limit, gin.WrapH(m.Metrics.Handler()))
	}
}
