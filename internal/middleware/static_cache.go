package middleware

import (
	"github.com/MedjedStudio/mav/internal/config"

	"github.com/gin-gonic/gin"
)

// StaticCacheMiddleware 为上传文件等静态资源添加 Cache-Control 头。
// 缓存策略由 upload.cache_control 配置决定，为空时不设置。
func StaticCacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cc := config.Get().Upload.CacheControl
		if cc != "" {
			c.Header("Cache-Control", cc)
		}
		c.Next()
	}
}
