package service

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MedjedStudio/mav/internal/common"
	"github.com/MedjedStudio/mav/internal/consts"
	"github.com/MedjedStudio/mav/internal/db"
	"github.com/MedjedStudio/mav/internal/model"
	"github.com/MedjedStudio/mav/internal/utils"

	"gorm.io/gorm"
)

// 备份文档中的扁平记录。时间戳使用 ISO-8601 字符串，
// 枚举字段（角色、时区）降为底层整数编码。

type BackupUserRecord struct {
	ID           uint    `json:"id"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"password_hash"`
	Role         int     `json:"role"`
	Profile      *string `json:"profile"`
	Timezone     int     `json:"timezone"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
	DeletedAt    *string `json:"deleted_at"`
}

type BackupCategoryRecord struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	SortOrder   int     `json:"sort_order"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	DeletedAt   *string `json:"deleted_at"`
}

// 内容记录携带分类「名称」而非 ID：
// 导入时以名称为跨表引用键，比自增 ID 稳定。
type BackupContentRecord struct {
	ID          uint     `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Categories  []string `json:"categories"`
	IsPublished bool     `json:"is_published"`
	AuthorID    uint     `json:"author_id"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	DeletedAt   *string  `json:"deleted_at"`
}

type BackupFileRecord struct {
	ID               uint    `json:"id"`
	Filename         string  `json:"filename"`
	OriginalFilename string  `json:"original_filename"`
	FileSize         int64   `json:"file_size"`
	MimeType         string  `json:"mime_type"`
	UploadedBy       uint    `json:"uploaded_by"`
	CreatedAt        string  `json:"created_at"`
	DeletedAt        *string `json:"deleted_at"`
}

type BackupAvatarRecord struct {
	ID               uint    `json:"id"`
	UserID           uint    `json:"user_id"`
	Filename         string  `json:"filename"`
	OriginalFilename string  `json:"original_filename"`
	FileSize         int64   `json:"file_size"`
	MimeType         string  `json:"mime_type"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
	DeletedAt        *string `json:"deleted_at"`
}

// BackupData 是 database.json 的顶层结构
type BackupData struct {
	Users      []BackupUserRecord     `json:"users"`
	Categories []BackupCategoryRecord `json:"categories"`
	Contents   []BackupContentRecord  `json:"contents"`
	Files      []BackupFileRecord     `json:"files"`
	Avatars    []BackupAvatarRecord   `json:"avatars"`
	ExportedAt string                 `json:"exported_at"`
}

// BackupInfo 描述当前可备份的数据规模
type BackupInfo struct {
	Database BackupDatabaseInfo `json:"database"`
	Files    BackupFilesInfo    `json:"files"`
}

type BackupDatabaseInfo struct {
	Users      int64 `json:"users"`
	Categories int64 `json:"categories"`
	Contents   int64 `json:"contents"`
}

type BackupFilesInfo struct {
	Count       int     `json:"count"`
	TotalSize   int64   `json:"total_size"`
	TotalSizeMB float64 `json:"total_size_mb"`
}

func formatBackupTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatDeletedAt(d gorm.DeletedAt) *string {
	if !d.Valid {
		return nil
	}
	s := formatBackupTime(d.Time)
	return &s
}

// parseBackupTime 解析备份中的时间戳。
// 兼容带时区偏移与不带时区（旧版归档）的 ISO-8601 形式。
func parseBackupTime(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("无法解析时间戳: %q", s)
}

func parseDeletedAt(s *string) (gorm.DeletedAt, error) {
	var d gorm.DeletedAt
	if s == nil || *s == "" {
		return d, nil
	}
	t, err := parseBackupTime(*s)
	if err != nil {
		return d, err
	}
	d.Time = t
	d.Valid = true
	return d, nil
}

// ExportDatabaseData 导出所有表的全部行（包含已逻辑删除的行）
func ExportDatabaseData() (*BackupData, error) {
	data := &BackupData{
		Users:      []BackupUserRecord{},
		Categories: []BackupCategoryRecord{},
		Contents:   []BackupContentRecord{},
		Files:      []BackupFileRecord{},
		Avatars:    []BackupAvatarRecord{},
		ExportedAt: formatBackupTime(time.Now()),
	}

	var users []model.User
	if err := db.DB.Unscoped().Find(&users).Error; err != nil {
		return nil, common.NewInternalError("导出用户数据失败")
	}
	for _, user := range users {
		data.Users = append(data.Users, BackupUserRecord{
			ID:           user.ID,
			Username:     user.Username,
			Email:        user.Email,
			PasswordHash: user.PasswordHash,
			Role:         int(user.Role),
			Profile:      user.Profile,
			Timezone:     int(user.Timezone),
			CreatedAt:    formatBackupTime(user.CreatedAt),
			UpdatedAt:    formatBackupTime(user.UpdatedAt),
			DeletedAt:    formatDeletedAt(user.DeletedAt),
		})
	}

	var categories []model.Category
	if err := db.DB.Unscoped().Find(&categories).Error; err != nil {
		return nil, common.NewInternalError("导出分类数据失败")
	}
	for _, category := range categories {
		data.Categories = append(data.Categories, BackupCategoryRecord{
			ID:          category.ID,
			Name:        category.Name,
			Description: category.Description,
			SortOrder:   category.SortOrder,
			CreatedAt:   formatBackupTime(category.CreatedAt),
			UpdatedAt:   formatBackupTime(category.UpdatedAt),
			DeletedAt:   formatDeletedAt(category.DeletedAt),
		})
	}

	var contents []model.Content
	err := db.DB.Unscoped().
		Preload("Categories", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() }).
		Find(&contents).Error
	if err != nil {
		return nil, common.NewInternalError("导出内容数据失败")
	}
	for _, content := range contents {
		names := make([]string, 0, len(content.Categories))
		for _, cat := range content.Categories {
			names = append(names, cat.Name)
		}
		data.Contents = append(data.Contents, BackupContentRecord{
			ID:          content.ID,
			Title:       content.Title,
			Content:     content.Body,
			Categories:  names,
			IsPublished: content.IsPublished,
			AuthorID:    content.AuthorID,
			CreatedAt:   formatBackupTime(content.CreatedAt),
			UpdatedAt:   formatBackupTime(content.UpdatedAt),
			DeletedAt:   formatDeletedAt(content.DeletedAt),
		})
	}

	var files []model.File
	if err := db.DB.Unscoped().Find(&files).Error; err != nil {
		return nil, common.NewInternalError("导出文件数据失败")
	}
	for _, file := range files {
		data.Files = append(data.Files, BackupFileRecord{
			ID:               file.ID,
			Filename:         file.Filename,
			OriginalFilename: file.OriginalFilename,
			FileSize:         file.FileSize,
			MimeType:         file.MimeType,
			UploadedBy:       file.UploadedBy,
			CreatedAt:        formatBackupTime(file.CreatedAt),
			DeletedAt:        formatDeletedAt(file.DeletedAt),
		})
	}

	var avatars []model.Avatar
	if err := db.DB.Unscoped().Find(&avatars).Error; err != nil {
		return nil, common.NewInternalError("导出头像数据失败")
	}
	for _, avatar := range avatars {
		data.Avatars = append(data.Avatars, BackupAvatarRecord{
			ID:               avatar.ID,
			UserID:           avatar.UserID,
			Filename:         avatar.Filename,
			OriginalFilename: avatar.OriginalFilename,
			FileSize:         avatar.FileSize,
			MimeType:         avatar.MimeType,
			CreatedAt:        formatBackupTime(avatar.CreatedAt),
			UpdatedAt:        formatBackupTime(avatar.UpdatedAt),
			DeletedAt:        formatDeletedAt(avatar.DeletedAt),
		})
	}

	return data, nil
}

// CreateBackup 创建完整备份压缩包。
// 工作目录内放入 database.json 与上传文件树（排除点文件），
// 再压缩为带时间戳的 zip。返回 zip 路径，调用方负责清理其所在临时目录。
func CreateBackup(uploadDir string) (string, error) {
	tempDir, err := os.MkdirTemp("", "mav_backup_*")
	if err != nil {
		return "", common.NewInternalError("创建临时目录失败")
	}
	cleanup := func() { _ = os.RemoveAll(tempDir) }

	backupDir := filepath.Join(tempDir, "backup")
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		cleanup()
		return "", common.NewInternalError("创建备份目录失败")
	}

	data, err := ExportDatabaseData()
	if err != nil {
		cleanup()
		return "", err
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		cleanup()
		return "", common.NewInternalError("序列化备份数据失败")
	}
	dbFile := filepath.Join(backupDir, consts.BackupDatabaseFile)
	if err := os.WriteFile(dbFile, raw, 0644); err != nil {
		cleanup()
		return "", common.NewInternalError("写入备份数据失败")
	}

	// 上传目录存在时整棵树复制进 uploads/ 子目录
	if _, err := os.Stat(uploadDir); err == nil {
		uploadsBackupDir := filepath.Join(backupDir, consts.BackupUploadsDir)
		if err := copyTreeSkipDotfiles(uploadDir, uploadsBackupDir); err != nil {
			cleanup()
			return "", common.NewInternalError("复制上传文件失败")
		}
	}

	timestamp := time.Now().Format("20060102_150405")
	zipPath := filepath.Join(tempDir, fmt.Sprintf("%s_%s.zip", consts.BackupFilePrefix, timestamp))
	if err := zipDirectory(backupDir, zipPath); err != nil {
		cleanup()
		return "", common.NewInternalError("创建备份压缩包失败")
	}

	log.Printf("✅ 备份已创建: %s", zipPath)
	return zipPath, nil
}

// ImportDatabaseData 将备份数据导入数据库。
//
// 先按外键依赖顺序清空现有数据（子表在前），每张表单独提交，
// 避免在 MySQL 上长事务批量删除触发锁超时。
// 随后分两个检查点写入：用户+分类一批，内容+文件+头像一批。
// 内容的分类关联按「分类名称」回查，未知名称静默跳过。
func ImportDatabaseData(data *BackupData) error {
	// 1. 中间表直接清空
	if err := db.DB.Exec("DELETE FROM content_categories").Error; err != nil {
		return common.NewInternalError("清空内容分类关联失败")
	}
	// 2. 持有外键的子表
	for _, target := range []interface{}{
		&model.Avatar{},
		&model.File{},
		&model.Content{},
		&model.Category{},
		&model.User{},
	} {
		if err := db.DB.Unscoped().Where("1 = 1").Delete(target).Error; err != nil {
			return common.NewInternalError("清空数据表失败")
		}
	}

	// 第一检查点：用户与分类
	categoryIDByName := make(map[string]uint, len(data.Categories))
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		for _, record := range data.Users {
			role, err := model.ParseUserRole(record.Role)
			if err != nil {
				return common.NewValidationError(err.Error())
			}
			tzCode := record.Timezone
			if tzCode == 0 {
				tzCode = int(model.TimezoneUTC)
			}
			tz, err := model.ParseUserTimezone(tzCode)
			if err != nil {
				return common.NewValidationError(err.Error())
			}
			createdAt, err := parseBackupTime(record.CreatedAt)
			if err != nil {
				return common.NewValidationError(err.Error())
			}
			updatedAt, err := parseBackupTime(record.UpdatedAt)
			if err != nil {
				return common.NewValidationError(err.Error())
			}
			deletedAt, err := parseDeletedAt(record.DeletedAt)
			if err != nil {
				return common.NewValidationError(err.Error())
			}
			user := model.User{
				ID:           record.ID,
				Username:     record.Username,
				Email:        record.Email,
				PasswordHash: record.PasswordHash,
				Role:         role,
				Profile:      record.Profile,
				Timezone:     tz,
				CreatedAt:    createdAt,
				UpdatedAt:    updatedAt,
				DeletedAt:    deletedAt,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
		}

		for _, record := range data.Categories {
			createdAt, err := parseBackupTime(record.CreatedAt)
			if err != nil {
				return common.NewValidationError(err.Error())
			}
			updatedAt, err := parseBackupTime(record.UpdatedAt)
			if err != nil {
				return common.NewValidationError(err.Error())
			}
			deletedAt, err := parseDeletedAt(record.DeletedAt)
			if err != nil {
				return common.NewValidationError(err.Error())
			}
			category := model.Category{
				ID:          record.ID,
				Name:        record.Name,
				Description: record.Description,
				SortOrder:   record.SortOrder,
				CreatedAt:   createdAt,
				UpdatedAt:   updatedAt,
				DeletedAt:   deletedAt,
			}
			if err := tx.Create(&category).Error; err != nil {
				return err
			}
			categoryIDByName[record.Name] = record.ID
		}
		return nil
	})
	if err != nil {
		if _, ok := common.AsServiceError(err); ok {
			return err
		}
		return common.NewInternalError("导入用户与分类失败")
	}

	// 第二检查点：内容、文件与头像
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		for _, record := range data.Contents {
			createdAt, err := parseBackupTime(record.CreatedAt)
			if err != nil {
				return common.NewValidationError(err.Error())
			}
			updatedAt, err := parseBackupTime(record.UpdatedAt)
			if err != nil {
				return common.NewValidationError(err.Error())
			}
			deletedAt, err := parseDeletedAt(record.DeletedAt)
			if err != nil {
				return common.NewValidationError(err.Error())
			}
			content := model.Content{
				ID:          record.ID,
				Title:       record.Title,
				Body:        record.Content,
				IsPublished: record.IsPublished,
				AuthorID:    record.AuthorID,
				CreatedAt:   createdAt,
				UpdatedAt:   updatedAt,
				DeletedAt:   deletedAt,
			}
			if err := tx.Omit("Categories").Create(&content).Error; err != nil {
				return err
			}
			for _, name := range record.Categories {
				categoryID, ok := categoryIDByName[name]
				if !ok {
					// 归档中的未知分类名直接跳过
					continue
				}
				err := tx.Exec(
					"INSERT INTO content_categories (content_id, category_id) VALUES (?, ?)",
					content.ID, categoryID,
				).Error
				if err != nil {
					return err
				}
			}
		}

		for _, record := range data.Files {
			createdAt, err := parseBackupTime(record.CreatedAt)
			if err != nil {
				return common.NewValidationError(err.Error())
			}
			deletedAt, err := parseDeletedAt(record.DeletedAt)
			if err != nil {
				return common.NewValidationError(err.Error())
			}
			file := model.File{
				ID:               record.ID,
				Filename:         record.Filename,
				OriginalFilename: record.OriginalFilename,
				FileSize:         record.FileSize,
				MimeType:         record.MimeType,
				UploadedBy:       record.UploadedBy,
				CreatedAt:        createdAt,
				DeletedAt:        deletedAt,
			}
			if err := tx.Create(&file).Error; err != nil {
				return err
			}
		}

		for _, record := range data.Avatars {
			createdAt, err := parseBackupTime(record.CreatedAt)
			if err != nil {
				return common.NewValidationError(err.Error())
			}
			updatedAt, err := parseBackupTime(record.UpdatedAt)
			if err != nil {
				return common.NewValidationError(err.Error())
			}
			deletedAt, err := parseDeletedAt(record.DeletedAt)
			if err != nil {
				return common.NewValidationError(err.Error())
			}
			avatar := model.Avatar{
				ID:               record.ID,
				UserID:           record.UserID,
				Filename:         record.Filename,
				OriginalFilename: record.OriginalFilename,
				FileSize:         record.FileSize,
				MimeType:         record.MimeType,
				CreatedAt:        createdAt,
				UpdatedAt:        updatedAt,
				DeletedAt:        deletedAt,
			}
			if err := tx.Create(&avatar).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if _, ok := common.AsServiceError(err); ok {
			return err
		}
		return common.NewInternalError("导入内容数据失败")
	}

	log.Printf("✅ 数据库数据已导入: users=%d categories=%d contents=%d files=%d avatars=%d",
		len(data.Users), len(data.Categories), len(data.Contents), len(data.Files), len(data.Avatars))
	return nil
}

// RestoreFiles 从备份压缩包恢复上传文件。
// 独立于数据库导入步骤，可单独重试。
// 镜像归档内 uploads/ 的目录结构，跳过点文件，
// 且绝不覆盖目标目录中已存在的同名文件。
func RestoreFiles(zipPath, uploadDir string) error {
	tempDir, err := os.MkdirTemp("", "mav_restore_*")
	if err != nil {
		return common.NewInternalError("创建临时目录失败")
	}
	defer os.RemoveAll(tempDir)

	extractDir := filepath.Join(tempDir, "extracted")
	if err := extractZip(zipPath, extractDir); err != nil {
		return err
	}

	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return common.NewInternalError("创建上传目录失败")
	}

	uploadsBackupDir := filepath.Join(extractDir, consts.BackupUploadsDir)
	if _, err := os.Stat(uploadsBackupDir); err != nil {
		// 归档不含上传文件时无事可做
		return nil
	}

	if err := utils.EnsureUploadDirs(uploadDir); err != nil {
		return common.NewInternalError("创建上传目录失败")
	}

	err = filepath.WalkDir(uploadsBackupDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(uploadsBackupDir, path)
		if err != nil {
			return err
		}
		target := filepath.Join(uploadDir, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		// 先写入者优先：已存在的文件保持不动
		if _, err := os.Stat(target); err == nil {
			return nil
		}
		return copyFile(path, target)
	})
	if err != nil {
		return common.NewInternalError("恢复上传文件失败")
	}
	return nil
}

// RestoreFromZip 从备份压缩包完整恢复数据库与上传文件
func RestoreFromZip(zipPath, uploadDir string) error {
	tempDir, err := os.MkdirTemp("", "mav_restore_*")
	if err != nil {
		return common.NewInternalError("创建临时目录失败")
	}
	defer os.RemoveAll(tempDir)

	extractDir := filepath.Join(tempDir, "extracted")
	if err := extractZip(zipPath, extractDir); err != nil {
		return err
	}

	dbFile := filepath.Join(extractDir, consts.BackupDatabaseFile)
	raw, err := os.ReadFile(dbFile)
	if err != nil {
		return common.NewValidationError("备份文件不正确（缺少 " + consts.BackupDatabaseFile + "）")
	}

	var data BackupData
	if err := json.Unmarshal(raw, &data); err != nil {
		return common.NewValidationError("备份数据解析失败: " + err.Error())
	}

	if err := ImportDatabaseData(&data); err != nil {
		return err
	}
	if err := RestoreFiles(zipPath, uploadDir); err != nil {
		return err
	}

	log.Printf("🚀 备份恢复完成: %s", filepath.Base(zipPath))
	return nil
}

// GetBackupInfo 统计数据库行数（含已删除）与上传目录文件规模，只读
func GetBackupInfo(uploadDir string) (*BackupInfo, error) {
	info := &BackupInfo{}

	counts := []struct {
		target interface{}
		dest   *int64
	}{
		{&model.User{}, &info.Database.Users},
		{&model.Category{}, &info.Database.Categories},
		{&model.Content{}, &info.Database.Contents},
	}
	for _, c := range counts {
		if err := db.DB.Unscoped().Model(c.target).Count(c.dest).Error; err != nil {
			return nil, common.NewInternalError("统计数据库行数失败")
		}
	}

	if _, err := os.Stat(uploadDir); err == nil {
		err := filepath.WalkDir(uploadDir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
				return nil
			}
			fi, err := d.Info()
			if err != nil {
				return err
			}
			info.Files.Count++
			info.Files.TotalSize += fi.Size()
			return nil
		})
		if err != nil {
			return nil, common.NewInternalError("统计上传文件失败")
		}
	}

	info.Files.TotalSizeMB = math.Round(float64(info.Files.TotalSize)/(1024*1024)*100) / 100
	return info, nil
}

// copyTreeSkipDotfiles 递归复制目录树，排除点文件与点目录
func copyTreeSkipDotfiles(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && path != src {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return copyFile(path, target)
	})
}

// zipDirectory 将目录压缩为 zip（deflate），条目路径相对于目录根
func zipDirectory(srcDir, zipPath string) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	defer zw.Close()

	return filepath.WalkDir(srcDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		// zip 条目统一使用正斜杠
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})
}

// extractZip 解压 zip 到目标目录，条目路径经 SecureJoin 校验防止越界
func extractZip(zipPath, destDir string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return common.NewValidationError("备份压缩包无法打开: " + err.Error())
	}
	defer reader.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return common.NewInternalError("创建解压目录失败")
	}

	for _, entry := range reader.File {
		target, err := utils.SecureJoin(destDir, entry.Name)
		if err != nil {
			return common.NewValidationError("备份压缩包包含非法路径: " + entry.Name)
		}
		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return common.NewInternalError("创建解压目录失败")
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return common.NewInternalError("创建解压目录失败")
		}
		rc, err := entry.Open()
		if err != nil {
			return common.NewInternalError("读取压缩包条目失败")
		}
		out, err := os.Create(target)
		if err != nil {
			rc.Close()
			return common.NewInternalError("写入解压文件失败")
		}
		_, err = io.Copy(out, rc)
		out.Close()
		rc.Close()
		if err != nil {
			return common.NewInternalError("写入解压文件失败")
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
