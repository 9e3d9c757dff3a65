package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MedjedStudio/mav/internal/config"
)

func TestGenerateUniqueFilename(t *testing.T) {
	name := GenerateUniqueFilename("my photo.JPG")
	if !strings.HasSuffix(name, ".JPG") {
		t.Fatalf("期望保留原扩展名, 实际 %q", name)
	}
	if strings.Contains(name, "my photo") {
		t.Fatalf("期望不泄露原始文件名, 实际 %q", name)
	}
	if name == GenerateUniqueFilename("my photo.JPG") {
		t.Fatalf("期望两次生成的文件名不同")
	}
}

func TestEnsureUploadDirs(t *testing.T) {
	base := filepath.Join(t.TempDir(), "uploads")
	if err := EnsureUploadDirs(base); err != nil {
		t.Fatalf("EnsureUploadDirs 失败: %v", err)
	}
	for _, sub := range []string{"files", "avatars"} {
		info, err := os.Stat(filepath.Join(base, sub))
		if err != nil || !info.IsDir() {
			t.Fatalf("期望子目录 %s 存在", sub)
		}
	}
	// 幂等
	if err := EnsureUploadDirs(base); err != nil {
		t.Fatalf("期望重复调用不报错: %v", err)
	}
}

func TestIsAllowedFile(t *testing.T) {
	config.SetForTesting(config.Config{
		Upload: config.UploadConfig{AllowExtensions: ".jpg,.png, .webp"},
	})

	if !IsAllowedFile("a.jpg") || !IsAllowedFile("b.PNG") || !IsAllowedFile("c.webp") {
		t.Fatalf("期望白名单扩展名被允许")
	}
	if IsAllowedFile("evil.exe") || IsAllowedFile("noext") {
		t.Fatalf("期望白名单外扩展名被拒绝")
	}
}

func TestMimeTypeByExt(t *testing.T) {
	if got := MimeTypeByExt("a.png"); got != "image/png" {
		t.Fatalf("期望 image/png, 实际 %q", got)
	}
	if got := MimeTypeByExt("a.unknownext"); got != "application/octet-stream" {
		t.Fatalf("期望未知扩展名回退为 octet-stream, 实际 %q", got)
	}
}

func TestFindFileByName(t *testing.T) {
	base := t.TempDir()
	if err := EnsureUploadDirs(base); err != nil {
		t.Fatalf("EnsureUploadDirs 失败: %v", err)
	}

	write := func(rel string) {
		t.Helper()
		path := filepath.Join(base, rel)
		if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
			t.Fatalf("写入测试文件失败: %v", err)
		}
	}
	write("root.txt")
	write(filepath.Join("files", "doc.pdf"))
	write(filepath.Join("avatars", "face.png"))
	write(filepath.Join("files", "空 白.txt"))

	// 根目录直接命中
	if path, ok := FindFileByName(base, "root.txt"); !ok || path != filepath.Join(base, "root.txt") {
		t.Fatalf("期望在根目录找到 root.txt, 实际 %q %v", path, ok)
	}
	// 子目录查找
	if path, ok := FindFileByName(base, "doc.pdf"); !ok || path != filepath.Join(base, "files", "doc.pdf") {
		t.Fatalf("期望在 files 子目录找到 doc.pdf, 实际 %q %v", path, ok)
	}
	if _, ok := FindFileByName(base, "face.png"); !ok {
		t.Fatalf("期望在 avatars 子目录找到 face.png")
	}
	// 带路径的文件名
	if _, ok := FindFileByName(base, "avatars/face.png"); !ok {
		t.Fatalf("期望带路径查找命中")
	}
	// URL 编码变体
	if _, ok := FindFileByName(base, "%E7%A9%BA%20%E7%99%BD.txt"); !ok {
		t.Fatalf("期望 URL 编码的文件名可被解码命中")
	}
	// 未命中
	if _, ok := FindFileByName(base, "missing.bin"); ok {
		t.Fatalf("期望不存在的文件返回 false")
	}
	// 越界拒绝
	if _, ok := FindFileByName(base, "../etc/passwd"); ok {
		t.Fatalf("期望越界路径被拒绝")
	}
}
