package handler

import (
	"io"
	"net/http"

	"github.com/MedjedStudio/mav/internal/config"
	"github.com/MedjedStudio/mav/internal/service"
	"github.com/MedjedStudio/mav/internal/utils"

	"github.com/gin-gonic/gin"
)

// readUploadedFile 读取 multipart 表单中的 file 字段
func readUploadedFile(c *gin.Context) ([]byte, string, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未提供文件"})
		return nil, "", false
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取文件失败"})
		return nil, "", false
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取文件失败"})
		return nil, "", false
	}
	return data, fileHeader.Filename, true
}

// ListFiles 文件列表：管理员看全部，成员只看自己的
func ListFiles(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	files, err := service.ListFilesForUser(user)
	if err != nil {
		WriteServiceError(c, err, "查询文件列表失败")
		return
	}

	resp := make([]gin.H, 0, len(files))
	for i := range files {
		resp = append(resp, fileResponse(&files[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// UploadFile 上传文件，图片自动生成缩略图
func UploadFile(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	data, filename, ok := readUploadedFile(c)
	if !ok {
		return
	}

	file, err := service.SaveUploadedFile(data, filename, uid)
	if err != nil {
		WriteServiceError(c, err, "上传文件失败")
		return
	}
	c.JSON(http.StatusOK, fileResponse(file))
}

// DeleteFile 按 ID 删除文件（管理员或上传者本人）
func DeleteFile(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := service.DeleteFileByID(id, user); err != nil {
		WriteServiceError(c, err, "删除文件失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "文件已删除"})
}

// DeleteFileByName 按物理文件名删除文件（管理员或上传者本人）
func DeleteFileByName(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "文件名不能为空"})
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := service.DeleteFileByFilename(filename, user); err != nil {
		WriteServiceError(c, err, "删除文件失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "文件已删除"})
}

// ServeUploadFile 公开的文件访问入口，按文件名查找（含缩略图）
func ServeUploadFile(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "文件名不能为空"})
		return
	}

	uploadDir := config.Get().Upload.Path
	path, ok := utils.FindFileByName(uploadDir, filename)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "文件不存在"})
		return
	}

	c.Header("Content-Type", utils.MimeTypeByExt(path))
	c.File(path)
}

// UploadAvatar 上传或替换当前用户头像
func UploadAvatar(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	data, filename, ok := readUploadedFile(c)
	if !ok {
		return
	}

	avatar, err := service.SaveAvatar(data, filename, uid)
	if err != nil {
		WriteServiceError(c, err, "上传头像失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"filename":   avatar.Filename,
		"avatar_url": avatarURL(avatar.Filename),
	})
}

// GetUserAvatarInfo 公开获取某用户头像信息，无头像返回 404
func GetUserAvatarInfo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	avatar, err := service.GetUserAvatar(id)
	if err != nil {
		WriteServiceError(c, err, "查询头像失败")
		return
	}
	if avatar == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "头像不存在"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"filename":   avatar.Filename,
		"avatar_url": avatarURL(avatar.Filename),
	})
}

// DeleteAvatar 删除当前用户头像
func DeleteAvatar(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := service.DeleteAvatar(uid); err != nil {
		WriteServiceError(c, err, "删除头像失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "头像已删除"})
}
