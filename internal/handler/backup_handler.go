package handler

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/MedjedStudio/mav/internal/config"
	"github.com/MedjedStudio/mav/internal/service"

	"github.com/gin-gonic/gin"
)

// DownloadBackup 导出完整备份并以附件下载（管理员）
func DownloadBackup(c *gin.Context) {
	uploadDir := config.Get().Upload.Path

	zipPath, err := service.CreateBackup(uploadDir)
	if err != nil {
		WriteServiceError(c, err, "创建备份失败")
		return
	}
	defer func() {
		if err := os.RemoveAll(filepath.Dir(zipPath)); err != nil {
			log.Printf("⚠️ 清理备份临时目录失败: %v", err)
		}
	}()

	c.FileAttachment(zipPath, filepath.Base(zipPath))
}

// RestoreBackup 从上传的备份压缩包恢复全部数据（管理员）
func RestoreBackup(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未提供备份文件"})
		return
	}

	tmpDir, err := os.MkdirTemp("", "mav_restore_*")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建临时目录失败"})
		return
	}
	defer os.RemoveAll(tmpDir)

	zipPath := filepath.Join(tmpDir, "backup.zip")
	if err := c.SaveUploadedFile(fileHeader, zipPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存备份文件失败"})
		return
	}

	uploadDir := config.Get().Upload.Path
	if err := service.RestoreFromZip(zipPath, uploadDir); err != nil {
		WriteServiceError(c, err, "恢复备份失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "备份恢复成功"})
}

// GetBackupInfo 备份概览：数据库各表数量与上传文件统计（管理员）
func GetBackupInfo(c *gin.Context) {
	info, err := service.GetBackupInfo(config.Get().Upload.Path)
	if err != nil {
		WriteServiceError(c, err, "查询备份信息失败")
		return
	}
	c.JSON(http.StatusOK, info)
}
