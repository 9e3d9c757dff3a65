package utils

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func writeTestJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("创建测试图片失败: %v", err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("编码测试图片失败: %v", err)
	}
}

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// 带透明通道
			img.Set(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: uint8((x + y) % 256)})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("创建测试图片失败: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("编码测试图片失败: %v", err)
	}
}

func TestGenerateThumbnailFilename(t *testing.T) {
	cases := []struct {
		filename string
		size     string
		want     string
	}{
		{"photo.jpg", "s", "photo_s.jpg"},
		{"photo.jpeg", "m", "photo_m.jpg"},
		{"photo.png", "s", "photo_s.png"},
		{"anim.gif", "m", "anim_m.png"},
		{"photo.png", "l", "photo_l.jpg"},
		{"photo.webp", "l", "photo_l.jpg"},
	}
	for _, c := range cases {
		if got := GenerateThumbnailFilename(c.filename, c.size); got != c.want {
			t.Fatalf("GenerateThumbnailFilename(%q, %q) = %q, 期望 %q", c.filename, c.size, got, c.want)
		}
	}
}

func TestIsImageFile(t *testing.T) {
	if !IsImageFile("a.JPG") || !IsImageFile("b.webp") || !IsImageFile("c.png") {
		t.Fatalf("期望常见图片扩展名被识别")
	}
	if IsImageFile("doc.pdf") || IsImageFile("noext") {
		t.Fatalf("期望非图片扩展名被拒绝")
	}
}

func TestCreateThumbnails_JPEG(t *testing.T) {
	dir := t.TempDir()
	writeTestJPEG(t, filepath.Join(dir, "photo.jpg"), 800, 600)

	generated, err := CreateThumbnails(dir, "photo.jpg")
	if err != nil {
		t.Fatalf("CreateThumbnails 失败: %v", err)
	}
	if len(generated) != 3 {
		t.Fatalf("期望生成3个缩略图, 实际 %d", len(generated))
	}

	small, err := imaging.Open(filepath.Join(dir, generated["s"]))
	if err != nil {
		t.Fatalf("打开 s 档缩略图失败: %v", err)
	}
	if w := small.Bounds().Dx(); w != 150 {
		t.Fatalf("期望 s 档宽度 150, 实际 %d", w)
	}

	medium, err := imaging.Open(filepath.Join(dir, generated["m"]))
	if err != nil {
		t.Fatalf("打开 m 档缩略图失败: %v", err)
	}
	if w := medium.Bounds().Dx(); w != 400 {
		t.Fatalf("期望 m 档宽度 400, 实际 %d", w)
	}

	large, err := imaging.Open(filepath.Join(dir, generated["l"]))
	if err != nil {
		t.Fatalf("打开 l 档缩略图失败: %v", err)
	}
	if large.Bounds().Dx() != 800 || large.Bounds().Dy() != 600 {
		t.Fatalf("期望 l 档保持原尺寸, 实际 %v", large.Bounds())
	}
}

func TestCreateThumbnails_PNGKeepsFormat(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "pic.png"), 300, 200)

	generated, err := CreateThumbnails(dir, "pic.png")
	if err != nil {
		t.Fatalf("CreateThumbnails 失败: %v", err)
	}
	if generated["s"] != "pic_s.png" || generated["m"] != "pic_m.png" {
		t.Fatalf("期望 png 源保留 png 输出, 实际 %v", generated)
	}
	if generated["l"] != "pic_l.jpg" {
		t.Fatalf("期望 l 档始终为 jpg, 实际 %q", generated["l"])
	}
	for _, name := range generated {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("期望缩略图 %s 存在: %v", name, err)
		}
	}
}

func TestCreateThumbnails_NoUpscale(t *testing.T) {
	dir := t.TempDir()
	writeTestJPEG(t, filepath.Join(dir, "tiny.jpg"), 100, 80)

	generated, err := CreateThumbnails(dir, "tiny.jpg")
	if err != nil {
		t.Fatalf("CreateThumbnails 失败: %v", err)
	}
	small, err := imaging.Open(filepath.Join(dir, generated["s"]))
	if err != nil {
		t.Fatalf("打开 s 档缩略图失败: %v", err)
	}
	if small.Bounds().Dx() > 100 || small.Bounds().Dy() > 80 {
		t.Fatalf("期望小图不被放大, 实际 %v", small.Bounds())
	}
}

func TestCreateThumbnails_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "doc.pdf"), []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatalf("写入测试文件失败: %v", err)
	}
	if _, err := CreateThumbnails(dir, "doc.pdf"); err == nil {
		t.Fatalf("期望不支持的格式返回错误")
	}
}

func TestCleanupThumbnails(t *testing.T) {
	dir := t.TempDir()
	writeTestJPEG(t, filepath.Join(dir, "photo.jpg"), 400, 300)
	if _, err := CreateThumbnails(dir, "photo.jpg"); err != nil {
		t.Fatalf("CreateThumbnails 失败: %v", err)
	}

	CleanupThumbnails(dir, "photo.jpg")
	for _, size := range []string{"s", "m", "l"} {
		path := filepath.Join(dir, GenerateThumbnailFilename("photo.jpg", size))
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("期望缩略图 %s 已被删除", path)
		}
	}

	// 原图不受影响
	if _, err := os.Stat(filepath.Join(dir, "photo.jpg")); err != nil {
		t.Fatalf("期望原图保留: %v", err)
	}

	// 再次清理不报错（文件已不存在）
	CleanupThumbnails(dir, "photo.jpg")
}

func TestGetThumbnailPath(t *testing.T) {
	dir := t.TempDir()
	writeTestJPEG(t, filepath.Join(dir, "photo.jpg"), 400, 300)
	if _, err := CreateThumbnails(dir, "photo.jpg"); err != nil {
		t.Fatalf("CreateThumbnails 失败: %v", err)
	}

	if path, ok := GetThumbnailPath(dir, "photo.jpg", "m"); !ok || path == "" {
		t.Fatalf("期望 m 档缩略图可定位")
	}
	if _, ok := GetThumbnailPath(dir, "photo.jpg", "x"); ok {
		t.Fatalf("期望未知档位返回 false")
	}
	if _, ok := GetThumbnailPath(dir, "missing.jpg", "s"); ok {
		t.Fatalf("期望不存在的缩略图返回 false")
	}
}
