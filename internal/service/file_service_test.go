package service

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/MedjedStudio/mav/internal/common"
	"github.com/MedjedStudio/mav/internal/consts"
	"github.com/MedjedStudio/mav/internal/model"
	"github.com/MedjedStudio/mav/internal/testutils"
	"github.com/MedjedStudio/mav/internal/utils"
)

// pngBytes 生成一张小 PNG 图片的字节流
func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 200, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("编码 PNG 失败: %v", err)
	}
	return buf.Bytes()
}

func TestSaveUploadedFile(t *testing.T) {
	testutils.SetupDB(t)
	uploadDir := useTempUploadDir(t)

	user := mustCreateUser(t, "alice", "alice@example.com", model.RoleMember)

	record, err := SaveUploadedFile([]byte("hello"), "notes.txt", user.ID)
	if err != nil {
		t.Fatalf("SaveUploadedFile: %v", err)
	}
	if record.OriginalFilename != "notes.txt" || record.FileSize != 5 {
		t.Fatalf("期望记录保存原始文件名与大小, 实际 %+v", record)
	}
	if record.Filename == "notes.txt" {
		t.Fatalf("期望物理文件名为生成的唯一名")
	}
	if record.MimeType != "text/plain" {
		t.Fatalf("期望 MIME 为 text/plain, 实际 %q", record.MimeType)
	}

	physical := filepath.Join(uploadDir, consts.UploadSubdirFiles, record.Filename)
	if _, err := os.Stat(physical); err != nil {
		t.Fatalf("期望物理文件存在: %v", err)
	}
}

func TestSaveUploadedFile_ImageGeneratesThumbnails(t *testing.T) {
	testutils.SetupDB(t)
	uploadDir := useTempUploadDir(t)
	user := mustCreateUser(t, "alice", "alice@example.com", model.RoleMember)

	record, err := SaveUploadedFile(pngBytes(t), "pic.png", user.ID)
	if err != nil {
		t.Fatalf("SaveUploadedFile: %v", err)
	}

	filesDir := filepath.Join(uploadDir, consts.UploadSubdirFiles)
	for _, size := range []string{"s", "m", "l"} {
		if _, ok := utils.GetThumbnailPath(filesDir, record.Filename, size); !ok {
			t.Fatalf("期望 %s 档缩略图已生成", size)
		}
	}
}

func TestSaveUploadedFile_DisallowedExtension(t *testing.T) {
	testutils.SetupDB(t)
	useTempUploadDir(t)
	user := mustCreateUser(t, "alice", "alice@example.com", model.RoleMember)

	_, err := SaveUploadedFile([]byte("MZ"), "evil.exe", user.ID)
	serviceErr, ok := common.AsServiceError(err)
	if !ok || serviceErr.Code != common.ErrorCodeValidation {
		t.Fatalf("期望不允许的扩展名返回 validation, 实际 %v", err)
	}
}

func TestDeleteFile_Permissions(t *testing.T) {
	testutils.SetupDB(t)
	uploadDir := useTempUploadDir(t)

	admin := mustCreateUser(t, "admin1", "admin@example.com", model.RoleAdmin)
	owner := mustCreateUser(t, "alice", "alice@example.com", model.RoleMember)
	other := mustCreateUser(t, "bob", "bob@example.com", model.RoleMember)

	record, err := SaveUploadedFile([]byte("hello"), "notes.txt", owner.ID)
	if err != nil {
		t.Fatalf("SaveUploadedFile: %v", err)
	}

	err = DeleteFileByID(record.ID, other)
	serviceErr, ok := common.AsServiceError(err)
	if !ok || serviceErr.Code != common.ErrorCodeForbidden {
		t.Fatalf("期望非上传者删除被拒绝, 实际 %v", err)
	}

	if err := DeleteFileByID(record.ID, admin); err != nil {
		t.Fatalf("DeleteFileByID (admin): %v", err)
	}
	if _, err := GetFileByID(record.ID); err == nil {
		t.Fatalf("期望已删除文件记录不可见")
	}
	physical := filepath.Join(uploadDir, consts.UploadSubdirFiles, record.Filename)
	if _, err := os.Stat(physical); !os.IsNotExist(err) {
		t.Fatalf("期望物理文件已删除")
	}
}

func TestDeleteFile_MissingPhysicalFileIsSwallowed(t *testing.T) {
	testutils.SetupDB(t)
	uploadDir := useTempUploadDir(t)
	owner := mustCreateUser(t, "alice", "alice@example.com", model.RoleMember)

	record, err := SaveUploadedFile([]byte("hello"), "notes.txt", owner.ID)
	if err != nil {
		t.Fatalf("SaveUploadedFile: %v", err)
	}
	// 数据库记录是事实来源，物理文件缺失不阻断删除
	if err := os.Remove(filepath.Join(uploadDir, consts.UploadSubdirFiles, record.Filename)); err != nil {
		t.Fatalf("移除物理文件失败: %v", err)
	}
	if err := DeleteFileByFilename(record.Filename, owner); err != nil {
		t.Fatalf("期望物理文件缺失时删除仍成功: %v", err)
	}
}

func TestListFilesForUser(t *testing.T) {
	testutils.SetupDB(t)
	useTempUploadDir(t)

	admin := mustCreateUser(t, "admin1", "admin@example.com", model.RoleAdmin)
	alice := mustCreateUser(t, "alice", "alice@example.com", model.RoleMember)
	bob := mustCreateUser(t, "bob", "bob@example.com", model.RoleMember)

	if _, err := SaveUploadedFile([]byte("a"), "a.txt", alice.ID); err != nil {
		t.Fatalf("SaveUploadedFile: %v", err)
	}
	if _, err := SaveUploadedFile([]byte("b"), "b.txt", bob.ID); err != nil {
		t.Fatalf("SaveUploadedFile: %v", err)
	}

	all, err := ListFilesForUser(admin)
	if err != nil {
		t.Fatalf("ListFilesForUser (admin): %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("期望管理员看到全部文件, 实际 %d", len(all))
	}

	own, err := ListFilesForUser(alice)
	if err != nil {
		t.Fatalf("ListFilesForUser (member): %v", err)
	}
	if len(own) != 1 || own[0].OriginalFilename != "a.txt" {
		t.Fatalf("期望成员只看到自己的文件, 实际 %+v", own)
	}
}

func TestSaveAvatar_ReplacesInPlace(t *testing.T) {
	testutils.SetupDB(t)
	uploadDir := useTempUploadDir(t)
	user := mustCreateUser(t, "alice", "alice@example.com", model.RoleMember)

	first, err := SaveAvatar(pngBytes(t), "face1.png", user.ID)
	if err != nil {
		t.Fatalf("SaveAvatar: %v", err)
	}

	second, err := SaveAvatar(pngBytes(t), "face2.png", user.ID)
	if err != nil {
		t.Fatalf("SaveAvatar (replace): %v", err)
	}
	// 原地更新同一条记录，保持每用户一条活跃头像
	if second.ID != first.ID {
		t.Fatalf("期望头像记录原地更新, 实际 first=%d second=%d", first.ID, second.ID)
	}
	if second.OriginalFilename != "face2.png" {
		t.Fatalf("期望新文件信息已写入, 实际 %+v", second)
	}

	avatarsDir := filepath.Join(uploadDir, consts.UploadSubdirAvatars)
	if _, err := os.Stat(filepath.Join(avatarsDir, first.Filename)); !os.IsNotExist(err) {
		t.Fatalf("期望旧头像物理文件已删除")
	}
	if _, err := os.Stat(filepath.Join(avatarsDir, second.Filename)); err != nil {
		t.Fatalf("期望新头像物理文件存在: %v", err)
	}
}

func TestSaveAvatar_RejectsNonImage(t *testing.T) {
	testutils.SetupDB(t)
	useTempUploadDir(t)
	user := mustCreateUser(t, "alice", "alice@example.com", model.RoleMember)

	if _, err := SaveAvatar([]byte("plain text"), "notes.txt", user.ID); err == nil {
		t.Fatalf("期望非图片头像被拒绝")
	}
	// 扩展名是图片但内容不是
	if _, err := SaveAvatar([]byte("not really a png"), "fake.png", user.ID); err == nil {
		t.Fatalf("期望内容与扩展名不符被拒绝")
	}
}

func TestDeleteAvatar(t *testing.T) {
	testutils.SetupDB(t)
	uploadDir := useTempUploadDir(t)
	user := mustCreateUser(t, "alice", "alice@example.com", model.RoleMember)

	if err := DeleteAvatar(user.ID); err == nil {
		t.Fatalf("期望无头像时删除返回 not_found")
	}

	avatar, err := SaveAvatar(pngBytes(t), "face.png", user.ID)
	if err != nil {
		t.Fatalf("SaveAvatar: %v", err)
	}
	if err := DeleteAvatar(user.ID); err != nil {
		t.Fatalf("DeleteAvatar: %v", err)
	}

	got, err := GetUserAvatar(user.ID)
	if err != nil {
		t.Fatalf("GetUserAvatar: %v", err)
	}
	if got != nil {
		t.Fatalf("期望头像记录已删除, 实际 %+v", got)
	}
	physical := filepath.Join(uploadDir, consts.UploadSubdirAvatars, avatar.Filename)
	if _, err := os.Stat(physical); !os.IsNotExist(err) {
		t.Fatalf("期望头像物理文件已删除")
	}
}
