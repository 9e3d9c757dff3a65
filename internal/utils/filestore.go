package utils

import (
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/MedjedStudio/mav/internal/config"
	"github.com/MedjedStudio/mav/internal/consts"

	"github.com/google/uuid"
)

// GenerateUniqueFilename 生成全局唯一的物理文件名（uuid + 原扩展名）。
// 不保留原始文件名，避免碰撞与信息泄露。
func GenerateUniqueFilename(originalFilename string) string {
	return uuid.New().String() + filepath.Ext(originalFilename)
}

// EnsureUploadDirs 确保上传目录下的 files/ 与 avatars/ 子目录存在
func EnsureUploadDirs(baseDir string) error {
	for _, sub := range []string{consts.UploadSubdirFiles, consts.UploadSubdirAvatars} {
		if err := os.MkdirAll(filepath.Join(baseDir, sub), 0755); err != nil {
			return fmt.Errorf("创建上传目录失败 %s: %w", sub, err)
		}
	}
	return nil
}

// IsAllowedFile 根据配置的扩展名白名单判断文件是否允许上传
func IsAllowedFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return false
	}
	for _, allowed := range strings.Split(config.Get().Upload.AllowExtensions, ",") {
		if ext == strings.ToLower(strings.TrimSpace(allowed)) {
			return true
		}
	}
	return false
}

// MimeTypeByExt 根据扩展名推断 MIME 类型，未知时回退为二进制流
func MimeTypeByExt(filename string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); t != "" {
		// TypeByExtension 可能带 charset 参数，保留主类型即可
		if idx := strings.IndexByte(t, ';'); idx >= 0 {
			return strings.TrimSpace(t[:idx])
		}
		return t
	}
	return "application/octet-stream"
}

// FindFileByName 在上传目录中按文件名查找物理文件。
//
// 查找顺序：
//  1. 文件名带路径时直接在 baseDir 下拼接查找
//  2. 依次尝试 baseDir 根目录、files/、avatars/ 子目录
//  3. 以 URL 解码后的文件名重复上述查找
//  4. 递归遍历整个目录树按文件名匹配（含 URL 编解码变体）
//
// 所有拼接均经 SecureJoin 校验，".." 越界直接视为未找到。
func FindFileByName(baseDir, filename string) (string, bool) {
	if _, err := os.Stat(baseDir); err != nil {
		return "", false
	}

	if path, ok := lookupCandidate(baseDir, filename); ok {
		return path, true
	}

	if decoded, err := url.PathUnescape(filename); err == nil && decoded != filename {
		if path, ok := lookupCandidate(baseDir, decoded); ok {
			return path, true
		}
	}

	// 兜底：递归遍历
	var found string
	_ = filepath.WalkDir(baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || found != "" || d.IsDir() {
			return nil
		}
		name := d.Name()
		if name == filename {
			found = path
			return filepath.SkipAll
		}
		if decoded, derr := url.PathUnescape(name); derr == nil && decoded == filename {
			found = path
			return filepath.SkipAll
		}
		if url.PathEscape(name) == filename {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if found != "" {
		return found, true
	}
	return "", false
}

// lookupCandidate 在根目录及固定子目录中尝试定位文件名
func lookupCandidate(baseDir, filename string) (string, bool) {
	if strings.Contains(filename, "/") {
		return statSecure(baseDir, filename)
	}
	if path, ok := statSecure(baseDir, filename); ok {
		return path, true
	}
	for _, sub := range []string{consts.UploadSubdirFiles, consts.UploadSubdirAvatars} {
		if path, ok := statSecure(baseDir, filepath.Join(sub, filename)); ok {
			return path, true
		}
	}
	return "", false
}

// statSecure 安全拼接后检查目标是否为常规文件
func statSecure(baseDir, rel string) (string, bool) {
	path, err := SecureJoin(baseDir, rel)
	if err != nil {
		return "", false
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}
