package router

import "github.com/gin-gonic/gin"

// Module is a self-contained route bundle. Each feature area implements it
// and gets handed the shared API group to mount its routes on.
type Module interface {
	Register(rg *gin.RouterGroup)
}
