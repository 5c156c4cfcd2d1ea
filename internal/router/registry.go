package router

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Module is a feature area that mounts its routes under /api.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry collects modules during startup and mounts them in order.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
	mounted     bool
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/api")}
}

// Use adds middleware that runs for every /api route.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

// RegisterAll mounts every module once; gin panics on duplicate routes so a
// second call is a no-op.
func (r *Registry) RegisterAll() {
	if r.mounted {
		return
	}
	r.mounted = true
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}

// Routes lists "METHOD path" for every mounted /api route.
func (r *Registry) Routes() []string {
	var out []string
	for _, ri := range r.Engine.Routes() {
		if strings.HasPrefix(ri.Path, r.API.BasePath()) {
			out = append(out, ri.Method+" "+ri.Path)
		}
	}
	return out
}
