package router

import (
	"github.com/MedjedStudio/mav/internal/handler"

	"github.com/gin-gonic/gin"
)

func registerSystemRoutes(api *gin.RouterGroup, authLimiter gin.HandlerFunc) {
	api.GET("/setup/status", handler.GetSetupStatus)
	api.POST("/setup", authLimiter, handler.InitialSetup)
}
