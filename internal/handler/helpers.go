package handler

import (
	"net/http"

	"github.com/MedjedStudio/mav/internal/common/httpx"
	"github.com/MedjedStudio/mav/internal/config"
	"github.com/MedjedStudio/mav/internal/model"
	"github.com/MedjedStudio/mav/internal/service"

	"github.com/gin-gonic/gin"
)

// WriteServiceError 将 service 层错误映射为 HTTP 响应
func WriteServiceError(c *gin.Context, err error, fallbackMessage string) {
	httpx.WriteServiceError(c, err, fallbackMessage)
}

// currentUserID 从上下文取出认证中间件写入的用户 ID
func currentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "获取用户ID失败"})
		return 0, false
	}
	uid, ok := value.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "获取用户ID失败"})
		return 0, false
	}
	return uid, true
}

// currentUser 加载当前认证用户的完整记录
func currentUser(c *gin.Context) (*model.User, bool) {
	uid, ok := currentUserID(c)
	if !ok {
		return nil, false
	}
	user, err := service.GetUserByID(uid)
	if err != nil {
		WriteServiceError(c, err, "获取用户信息失败")
		return nil, false
	}
	return user, true
}

func avatarURL(filename string) string {
	return config.Get().Upload.URLPrefix + "avatars/" + filename
}

func fileURL(filename string) string {
	return config.Get().Upload.URLPrefix + "files/" + filename
}

// userResponse 构造用户信息的响应体
func userResponse(user *model.User) gin.H {
	resp := gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"role":       user.Role.Name(),
		"profile":    user.Profile,
		"timezone":   int(user.Timezone),
		"created_at": user.CreatedAt,
		"updated_at": user.UpdatedAt,
	}
	if user.Avatar != nil {
		resp["avatar_url"] = avatarURL(user.Avatar.Filename)
	}
	return resp
}

// contentResponse 构造内容的响应体，分类以名称数组呈现
func contentResponse(content *model.Content) gin.H {
	return gin.H{
		"id":           content.ID,
		"title":        content.Title,
		"content":      content.Body,
		"categories":   service.CategoryNames(content),
		"is_published": content.IsPublished,
		"author_id":    content.AuthorID,
		"author":       content.Author.Username,
		"created_at":   content.CreatedAt,
		"updated_at":   content.UpdatedAt,
	}
}

func categoryResponse(category *model.Category) gin.H {
	return gin.H{
		"id":          category.ID,
		"name":        category.Name,
		"description": category.Description,
		"sort_order":  category.SortOrder,
		"created_at":  category.CreatedAt,
		"updated_at":  category.UpdatedAt,
	}
}

func fileResponse(file *model.File) gin.H {
	resp := gin.H{
		"id":                file.ID,
		"filename":          file.Filename,
		"original_filename": file.OriginalFilename,
		"file_size":         file.FileSize,
		"mime_type":         file.MimeType,
		"url":               fileURL(file.Filename),
		"created_at":        file.CreatedAt,
	}
	if file.Uploader.ID != 0 {
		resp["uploader"] = file.Uploader.Username
	} else {
		resp["uploader"] = "Unknown"
	}
	return resp
}
