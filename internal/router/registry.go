package router

import "github.com/gin-gonic/gin"

const apiBasePath = "/api"

// Registry collects feature modules and mounts them under the shared API
// group. Middleware queued with Use applies to the whole group, so it must
// be queued before RegisterAll runs.
type Registry struct {
	Engine *gin.Engine
	API    *gin.RouterGroup

	shared  []gin.HandlerFunc
	modules []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group(apiBasePath)}
}

// Use queues middleware for every registered module.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.shared = append(r.shared, mw...)
}

// Add queues a module; its routes are mounted by RegisterAll.
func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

// RegisterAll applies the queued middleware and mounts every module.
func (r *Registry) RegisterAll() {
	if len(r.shared) > 0 {
		r.API.Use(r.shared...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
