package router

import (
	"github.com/MedjedStudio/mav/internal/handler"

	"github.com/gin-gonic/gin"
)

func registerAuthRoutes(api *gin.RouterGroup, authLimiter gin.HandlerFunc) {
	api.POST("/auth/login", authLimiter, handler.Login)
}
