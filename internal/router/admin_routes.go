package router

import (
	"github.com/MedjedStudio/mav/internal/handler"
	"github.com/MedjedStudio/mav/internal/middleware"

	"github.com/gin-gonic/gin"
)

func registerAdminRoutes(api *gin.RouterGroup) {
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.JWTAuth())
	adminGroup.Use(middleware.UserExistenceCheck())
	adminGroup.Use(middleware.AdminCheck())

	adminGroup.GET("/users", handler.ListUsersAdmin)
	adminGroup.GET("/users/:id", handler.GetUserAdmin)
	adminGroup.POST("/users", handler.CreateUserAdmin)
	adminGroup.PUT("/users/:id", handler.UpdateUserAdmin)
	adminGroup.DELETE("/users/:id", handler.DeleteUserAdmin)

	adminGroup.POST("/categories", handler.CreateCategory)
	adminGroup.PUT("/categories/sort-orders", handler.UpdateCategorySortOrders)
	adminGroup.PUT("/categories/:id", handler.UpdateCategory)
	adminGroup.DELETE("/categories/:id", handler.DeleteCategory)

	uploadBodyLimit := middleware.UploadBodyLimitMiddleware()
	adminGroup.GET("/backup/export", handler.DownloadBackup)
	adminGroup.POST("/backup/restore", uploadBodyLimit, handler.RestoreBackup)
	adminGroup.GET("/backup/info", handler.GetBackupInfo)
}
