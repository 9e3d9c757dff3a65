package router

import (
	"github.com/MedjedStudio/mav/internal/handler"
	"github.com/MedjedStudio/mav/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Init 注册全部路由与中间件
func Init(r *gin.Engine) {
	// 全局安全标头
	r.Use(middleware.SecurityHeaders())

	// 上传文件的公开访问入口（含缩略图），带缓存标头
	r.GET("/uploads/:filename", middleware.StaticCacheMiddleware(), handler.ServeUploadFile)

	api := r.Group("/api")
	// 普通 JSON 请求体大小限制（上传与恢复接口除外）
	api.Use(middleware.BodyLimitMiddleware())

	// 认证限流：在登录与初始设置间复用同一个实例
	authLimiter := middleware.AuthRateLimit()

	registerPublicRoutes(api)
	registerSystemRoutes(api, authLimiter)
	registerAuthRoutes(api, authLimiter)
	registerUserRoutes(api)
	registerAdminRoutes(api)
}
