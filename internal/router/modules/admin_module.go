package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-accounts-service/internal/container"
	"github.com/oksasatya/go-accounts-service/internal/domain/valueobject"
	handlers "github.com/oksasatya/go-accounts-service/internal/interface/http"
	"github.com/oksasatya/go-accounts-service/internal/interface/middleware"
	"github.com/oksasatya/go-accounts-service/pkg/helpers"
)

// AdminModule registers user-management routes under /api/admin, all behind
// the auth middleware plus an admin role check.
type AdminModule struct {
	Handler *handlers.AdminHandler
	JWT     *helpers.JWTManager
}

func NewAdminModule(h *handlers.AdminHandler, jwt *helpers.JWTManager) *AdminModule {
	return &AdminModule{Handler: h, JWT: jwt}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(
		middleware.Auth(container.GetRedis(), m.JWT),
		middleware.RequireRole(valueobject.RoleAdmin.String()),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()),
	)
	{
		admin.GET("/users", m.Handler.ListUsers)
		admin.POST("/users", m.Handler.CreateUser)
		admin.GET("/users/statistics", m.Handler.Statistics)
		admin.GET("/users/:id", m.Handler.GetUser)
		admin.DELETE("/users/:id", m.Handler.DeleteUser)
		admin.PUT("/users/:id/active", m.Handler.SetActive)
	}
}
