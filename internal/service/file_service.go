package service

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/MedjedStudio/mav/internal/common"
	"github.com/MedjedStudio/mav/internal/config"
	"github.com/MedjedStudio/mav/internal/consts"
	"github.com/MedjedStudio/mav/internal/db"
	"github.com/MedjedStudio/mav/internal/model"
	"github.com/MedjedStudio/mav/internal/utils"

	"gorm.io/gorm"
)

// ListFilesForUser 按权限获取文件列表。
// 管理员看到全部，普通成员只看到自己上传的，按创建时间倒序。
func ListFilesForUser(currentUser *model.User) ([]model.File, error) {
	query := db.DB.Preload("Uploader")
	if !currentUser.IsAdmin() {
		query = query.Where("uploaded_by = ?", currentUser.ID)
	}

	var files []model.File
	if err := query.Order("created_at DESC, id DESC").Find(&files).Error; err != nil {
		return nil, common.NewInternalError("查询文件列表失败")
	}
	return files, nil
}

// SaveUploadedFile 保存上传文件：写入磁盘、生成缩略图（图片）、落库。
// 缩略图生成失败只记录日志，不影响上传本身。
func SaveUploadedFile(data []byte, originalFilename string, uploadedBy uint) (*model.File, error) {
	if originalFilename == "" {
		return nil, common.NewValidationError("文件名不能为空")
	}
	if !utils.IsAllowedFile(originalFilename) {
		return nil, common.NewValidationError("不支持的文件类型: " + filepath.Ext(originalFilename))
	}

	cfg := config.Get()
	maxSize := int64(cfg.Upload.MaxSizeMB) * 1024 * 1024
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, common.NewValidationError(fmt.Sprintf("文件大小超出限制（最大 %dMB）", cfg.Upload.MaxSizeMB))
	}

	if err := utils.EnsureUploadDirs(cfg.Upload.Path); err != nil {
		return nil, common.NewInternalError("创建上传目录失败")
	}

	filesDir := filepath.Join(cfg.Upload.Path, consts.UploadSubdirFiles)
	uniqueName := utils.GenerateUniqueFilename(originalFilename)
	dst := filepath.Join(filesDir, uniqueName)

	if err := os.WriteFile(dst, data, 0644); err != nil {
		return nil, common.NewInternalError("写入文件失败")
	}

	if utils.IsImageFile(uniqueName) {
		if _, err := utils.CreateThumbnails(filesDir, uniqueName); err != nil {
			log.Printf("⚠️ 生成缩略图失败 %s: %v", uniqueName, err)
		}
	}

	record := model.File{
		Filename:         uniqueName,
		OriginalFilename: originalFilename,
		FileSize:         int64(len(data)),
		MimeType:         utils.MimeTypeByExt(uniqueName),
		UploadedBy:       uploadedBy,
	}
	if err := db.DB.Create(&record).Error; err != nil {
		// 落库失败时回收已写入的物理文件
		_ = os.Remove(dst)
		if utils.IsImageFile(uniqueName) {
			utils.CleanupThumbnails(filesDir, uniqueName)
		}
		return nil, common.NewInternalError("保存文件记录失败")
	}
	log.Printf("✅ 文件已上传: %s (%s, %d bytes)", uniqueName, originalFilename, len(data))
	return &record, nil
}

// GetFileByID 按 ID 获取未删除的文件记录
func GetFileByID(id uint) (*model.File, error) {
	var file model.File
	if err := db.DB.Preload("Uploader").First(&file, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFoundError("文件不存在")
		}
		return nil, common.NewInternalError("查询文件失败")
	}
	return &file, nil
}

// GetFileByFilename 按物理文件名获取未删除的文件记录
func GetFileByFilename(filename string) (*model.File, error) {
	var file model.File
	if err := db.DB.Where("filename = ?", filename).First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFoundError("文件不存在")
		}
		return nil, common.NewInternalError("查询文件失败")
	}
	return &file, nil
}

// DeleteFileByID 删除文件：权限校验、清理物理文件与缩略图、逻辑删除记录。
// 物理文件缺失不视为错误，数据库记录才是事实来源。
func DeleteFileByID(id uint, currentUser *model.User) error {
	file, err := GetFileByID(id)
	if err != nil {
		return err
	}
	return deleteFileRecord(file, currentUser)
}

// DeleteFileByFilename 按物理文件名删除文件
func DeleteFileByFilename(filename string, currentUser *model.User) error {
	file, err := GetFileByFilename(filename)
	if err != nil {
		return err
	}
	return deleteFileRecord(file, currentUser)
}

func deleteFileRecord(file *model.File, currentUser *model.User) error {
	if !currentUser.IsAdmin() && file.UploadedBy != currentUser.ID {
		return common.NewForbiddenError("没有权限删除该文件")
	}

	removePhysicalFile(file.Filename)

	if err := db.DB.Delete(file).Error; err != nil {
		return common.NewInternalError("删除文件记录失败")
	}
	log.Printf("✅ 文件已删除: %s (id=%d)", file.Filename, file.ID)
	return nil
}

// removePhysicalFile 删除物理文件与缩略图，文件缺失时静默跳过
func removePhysicalFile(filename string) {
	uploadDir := config.Get().Upload.Path
	path, ok := utils.FindFileByName(uploadDir, filename)
	if !ok {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️ 删除物理文件失败 %s: %v", path, err)
	}
	if utils.IsImageFile(filename) {
		utils.CleanupThumbnails(filepath.Dir(path), filename)
	}
}

// GetUserAvatar 获取用户当前头像，无头像时返回 (nil, nil)
func GetUserAvatar(userID uint) (*model.Avatar, error) {
	var avatar model.Avatar
	err := db.DB.Where("user_id = ?", userID).First(&avatar).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, common.NewInternalError("查询头像失败")
	}
	return &avatar, nil
}

// SaveAvatar 上传头像：写入新文件、生成缩略图、清理旧文件，
// 然后原地更新头像记录（保持每用户至多一条活跃记录）。
func SaveAvatar(data []byte, originalFilename string, userID uint) (*model.Avatar, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	if !utils.IsImageFile(originalFilename) {
		return nil, common.NewValidationError("头像必须是图片文件")
	}
	if ok, msg := utils.ValidateImageContent(bytes.NewReader(data), ext); !ok {
		return nil, common.NewValidationError(msg)
	}

	cfg := config.Get()
	maxSize := int64(cfg.Upload.MaxSizeMB) * 1024 * 1024
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, common.NewValidationError(fmt.Sprintf("文件大小超出限制（最大 %dMB）", cfg.Upload.MaxSizeMB))
	}

	if err := utils.EnsureUploadDirs(cfg.Upload.Path); err != nil {
		return nil, common.NewInternalError("创建上传目录失败")
	}

	avatarsDir := filepath.Join(cfg.Upload.Path, consts.UploadSubdirAvatars)
	uniqueName := utils.GenerateUniqueFilename(originalFilename)
	dst := filepath.Join(avatarsDir, uniqueName)

	if err := os.WriteFile(dst, data, 0644); err != nil {
		return nil, common.NewInternalError("写入头像文件失败")
	}
	if _, err := utils.CreateThumbnails(avatarsDir, uniqueName); err != nil {
		log.Printf("⚠️ 生成头像缩略图失败 %s: %v", uniqueName, err)
	}

	existing, err := GetUserAvatar(userID)
	if err != nil {
		return nil, err
	}

	// 先清理旧头像的物理文件
	if existing != nil {
		oldPath := filepath.Join(avatarsDir, existing.Filename)
		if err := os.Remove(oldPath); err != nil && !os.IsNotExist(err) {
			log.Printf("⚠️ 删除旧头像失败 %s: %v", oldPath, err)
		}
		utils.CleanupThumbnails(avatarsDir, existing.Filename)
	}

	if existing != nil {
		existing.Filename = uniqueName
		existing.OriginalFilename = originalFilename
		existing.FileSize = int64(len(data))
		existing.MimeType = utils.MimeTypeByExt(uniqueName)
		if err := db.DB.Save(existing).Error; err != nil {
			return nil, common.NewInternalError("更新头像记录失败")
		}
		return existing, nil
	}

	avatar := model.Avatar{
		UserID:           userID,
		Filename:         uniqueName,
		OriginalFilename: originalFilename,
		FileSize:         int64(len(data)),
		MimeType:         utils.MimeTypeByExt(uniqueName),
	}
	if err := db.DB.Create(&avatar).Error; err != nil {
		return nil, common.NewInternalError("保存头像记录失败")
	}
	return &avatar, nil
}

// DeleteAvatar 删除用户头像：清理物理文件与缩略图后逻辑删除记录
func DeleteAvatar(userID uint) error {
	avatar, err := GetUserAvatar(userID)
	if err != nil {
		return err
	}
	if avatar == nil {
		return common.NewNotFoundError("头像不存在")
	}

	avatarsDir := filepath.Join(config.Get().Upload.Path, consts.UploadSubdirAvatars)
	path := filepath.Join(avatarsDir, avatar.Filename)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️ 删除头像文件失败 %s: %v", path, err)
	}
	utils.CleanupThumbnails(avatarsDir, avatar.Filename)

	if err := db.DB.Delete(avatar).Error; err != nil {
		return common.NewInternalError("删除头像记录失败")
	}
	return nil
}
