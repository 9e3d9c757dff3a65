package router

import (
	"github.com/MedjedStudio/mav/internal/handler"
	"github.com/MedjedStudio/mav/internal/middleware"

	"github.com/gin-gonic/gin"
)

// registerUserRoutes 登录用户可用的路由（个人资料、内容管理、文件上传）
func registerUserRoutes(api *gin.RouterGroup) {
	authed := api.Group("")
	authed.Use(middleware.JWTAuth())
	authed.Use(middleware.UserExistenceCheck())

	uploadBodyLimit := middleware.UploadBodyLimitMiddleware()

	authed.GET("/me", handler.GetMe)
	authed.PUT("/me/profile", handler.UpdateSelfProfile)
	authed.PUT("/me/password", handler.UpdateSelfPassword)
	authed.POST("/me/avatar", uploadBodyLimit, handler.UploadAvatar)
	authed.DELETE("/me/avatar", handler.DeleteAvatar)

	// 内容管理：管理员可见全部，成员只见自己的
	authed.GET("/manage/contents", handler.ListContents)
	authed.GET("/manage/contents/:id", handler.GetContent)
	authed.POST("/contents", handler.CreateContent)
	authed.PUT("/contents/:id", handler.UpdateContent)
	authed.DELETE("/contents/:id", handler.DeleteContent)

	// 文件管理
	authed.GET("/uploads", handler.ListFiles)
	authed.POST("/uploads", uploadBodyLimit, handler.UploadFile)
	authed.DELETE("/uploads/:id", handler.DeleteFile)
	authed.DELETE("/uploads/name/:filename", handler.DeleteFileByName)

	authed.GET("/user/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong with auth"})
	})
}
