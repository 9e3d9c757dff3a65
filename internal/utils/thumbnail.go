package utils

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"

	// webp 只支持解码，注册给 image.Decode 使用
	_ "golang.org/x/image/webp"
)

// 缩略图尺寸（像素，最长边）
var thumbnailSizes = map[string]int{
	"s": 150,
	"m": 400,
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// IsImageFile 根据扩展名判断是否为支持的图片文件
func IsImageFile(filename string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(filename))]
}

// GenerateThumbnailFilename 生成缩略图文件名。
//
// 命名规则: <原文件名去扩展>_<s|m|l>.<输出扩展>
// s/m 档对 png/gif 源保留 png（保透明度），其余统一输出 jpg；
// l 档始终输出 jpg。
func GenerateThumbnailFilename(filename, size string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	if size == "l" {
		return stem + "_l.jpg"
	}
	outExt := ".jpg"
	if ext == ".png" || ext == ".gif" {
		outExt = ".png"
	}
	return stem + "_" + size + outExt
}

// CreateThumbnails 为 dir 下的 filename 生成 s/m/l 三档缩略图，输出到同目录。
//
// s=150 m=400 等比缩小（不放大），l 为原尺寸 JPEG 质量90。
// JPEG 输出前将透明背景压平为白色。
// 返回 档位 -> 生成的文件名 映射。
func CreateThumbnails(dir, filename string) (map[string]string, error) {
	if !IsImageFile(filename) {
		return nil, fmt.Errorf("不支持的图片格式: %s", filepath.Ext(filename))
	}
	srcPath := filepath.Join(dir, filename)

	f, err := os.Open(srcPath)
	if err != nil {
		return nil, fmt.Errorf("打开图片失败: %w", err)
	}
	img, format, err := image.Decode(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("解码图片失败: %w", err)
	}

	img = applyExifOrientation(srcPath, img)

	keepPNG := format == "png" || format == "gif"
	generated := make(map[string]string, 3)

	for size, px := range thumbnailSizes {
		thumb := imaging.Fit(img, px, px, imaging.Lanczos)
		name := GenerateThumbnailFilename(filename, size)
		dst := filepath.Join(dir, name)
		if keepPNG {
			err = imaging.Save(thumb, dst)
		} else {
			err = imaging.Save(flattenWhite(thumb), dst, imaging.JPEGQuality(85))
		}
		if err != nil {
			return nil, fmt.Errorf("保存缩略图失败 (%s): %w", size, err)
		}
		generated[size] = name
	}

	// l 档：原始尺寸，统一 JPEG
	largeName := GenerateThumbnailFilename(filename, "l")
	largeDst := filepath.Join(dir, largeName)
	if err := imaging.Save(flattenWhite(img), largeDst, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("保存缩略图失败 (l): %w", err)
	}
	generated["l"] = largeName

	return generated, nil
}

// CleanupThumbnails 删除 filename 对应的全部缩略图，忽略不存在的文件
func CleanupThumbnails(dir, filename string) {
	for _, size := range []string{"s", "m", "l"} {
		path := filepath.Join(dir, GenerateThumbnailFilename(filename, size))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("⚠️ 删除缩略图失败 %s: %v", path, err)
		}
	}
}

// GetThumbnailPath 返回指定档位缩略图的路径，不存在时返回 false
func GetThumbnailPath(dir, filename, size string) (string, bool) {
	if size != "s" && size != "m" && size != "l" {
		return "", false
	}
	path := filepath.Join(dir, GenerateThumbnailFilename(filename, size))
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// applyExifOrientation 按 EXIF Orientation 旋转图片。
// 只处理 3/6/8 三种常见取值，读取失败时原样返回。
func applyExifOrientation(srcPath string, img image.Image) image.Image {
	f, err := os.Open(srcPath)
	if err != nil {
		return img
	}
	defer f.Close()

	meta, err := exif.Decode(f)
	if err != nil {
		return img
	}
	tag, err := meta.Get(exif.Orientation)
	if err != nil {
		return img
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return img
	}

	switch orientation {
	case 3:
		return imaging.Rotate180(img)
	case 6:
		// 顺时针90度
		return imaging.Rotate270(img)
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}

// flattenWhite 将带透明通道的图片压平到白色背景上
func flattenWhite(img image.Image) image.Image {
	bounds := img.Bounds()
	bg := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
