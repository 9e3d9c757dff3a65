package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/MedjedStudio/mav/internal/config"

	"github.com/gin-gonic/gin"
)

// BodyLimitMiddleware 限制普通请求体大小
func BodyLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 上传相关路由交给 UploadBodyLimitMiddleware 处理
		path := c.Request.URL.Path
		if strings.Contains(path, "/upload") || strings.HasSuffix(path, "/avatar") || strings.HasSuffix(path, "/restore") {
			c.Next()
			return
		}

		// 普通 JSON 请求 2MB 足够
		maxBytes := int64(2) * 1024 * 1024
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)

		c.Next()
	}
}

// UploadBodyLimitMiddleware 限制上传/头像接口的请求体大小
func UploadBodyLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		maxSizeMB := config.Get().Upload.MaxSizeMB
		if maxSizeMB <= 0 {
			maxSizeMB = 10
		}
		maxBytes := int64(maxSizeMB) * 1024 * 1024

		if c.Request.ContentLength > maxBytes && c.Request.ContentLength != -1 {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("文件大小不能超过 %dMB", maxSizeMB)})
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
