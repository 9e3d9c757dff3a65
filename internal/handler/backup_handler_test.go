package handler

import (
	"archive/zip"
	"bytes"
	"net/http"
	"testing"

	"github.com/MedjedStudio/mav/internal/consts"
	"github.com/MedjedStudio/mav/internal/middleware"
	"github.com/MedjedStudio/mav/internal/model"
	"github.com/MedjedStudio/mav/internal/service"
	"github.com/MedjedStudio/mav/internal/testutils"

	"github.com/gin-gonic/gin"
)

func newBackupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	adminGroup := r.Group("/api/admin")
	adminGroup.Use(middleware.JWTAuth())
	adminGroup.Use(middleware.UserExistenceCheck())
	adminGroup.Use(middleware.AdminCheck())
	adminGroup.GET("/backup/export", DownloadBackup)
	adminGroup.POST("/backup/restore", RestoreBackup)
	adminGroup.GET("/backup/info", GetBackupInfo)
	return r
}

// 测试内容：导出备份返回合法的 zip 附件，根目录含 database.json。
func TestDownloadBackup(t *testing.T) {
	testutils.SetupDB(t)
	useTempUploadDir(t)
	admin := mustCreateUser(t, "admin", "admin@example.com", model.RoleAdmin)
	if _, err := service.CreateCategory("新闻", nil); err != nil {
		t.Fatalf("创建分类失败: %v", err)
	}

	r := newBackupRouter()
	w := performJSON(r, http.MethodGet, "/api/admin/backup/export", "", authToken(t, admin))
	if w.Code != http.StatusOK {
		t.Fatalf("导出失败: %d %s", w.Code, w.Body.String())
	}

	disposition := w.Header().Get("Content-Disposition")
	if disposition == "" {
		t.Fatalf("期望附件下载标头")
	}

	reader, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len()))
	if err != nil {
		t.Fatalf("响应不是合法 zip: %v", err)
	}
	found := false
	for _, f := range reader.File {
		if f.Name == consts.BackupDatabaseFile {
			found = true
		}
	}
	if !found {
		t.Fatalf("期望 zip 根目录包含 %s", consts.BackupDatabaseFile)
	}
}

// 测试内容：导出后恢复，数据库状态回到备份时刻。
func TestRestoreBackup_RoundTrip(t *testing.T) {
	testutils.SetupDB(t)
	useTempUploadDir(t)
	admin := mustCreateUser(t, "admin", "admin@example.com", model.RoleAdmin)
	category, _ := service.CreateCategory("归档", nil)
	if _, err := service.CreateContent("备份前的文章", "正文", admin.ID, []uint{category.ID}, true); err != nil {
		t.Fatalf("创建内容失败: %v", err)
	}

	r := newBackupRouter()
	token := authToken(t, admin)

	w := performJSON(r, http.MethodGet, "/api/admin/backup/export", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("导出失败: %d", w.Code)
	}
	archive := make([]byte, w.Body.Len())
	copy(archive, w.Body.Bytes())

	// 备份后混入的数据应在恢复时被清除
	intruder := mustCreateUser(t, "intruder", "intruder@example.com", model.RoleMember)

	w = performMultipart(r, http.MethodPost, "/api/admin/backup/restore", "file", "backup.zip", archive, token)
	if w.Code != http.StatusOK {
		t.Fatalf("恢复失败: %d %s", w.Code, w.Body.String())
	}

	if _, err := service.GetUserByID(intruder.ID); err == nil {
		t.Fatalf("期望恢复后混入用户被清除")
	}
	contents, err := service.ListPublishedContents()
	if err != nil {
		t.Fatalf("查询内容失败: %v", err)
	}
	if len(contents) != 1 || contents[0].Title != "备份前的文章" {
		t.Fatalf("期望恢复出备份时的内容, 实际 %v", contents)
	}
	names := service.CategoryNames(&contents[0])
	if len(names) != 1 || names[0] != "归档" {
		t.Fatalf("期望分类按名称恢复, 实际 %v", names)
	}
}

// 测试内容：缺少文件字段或非法压缩包返回 400。
func TestRestoreBackup_InvalidInput(t *testing.T) {
	testutils.SetupDB(t)
	useTempUploadDir(t)
	admin := mustCreateUser(t, "admin", "admin@example.com", model.RoleAdmin)

	r := newBackupRouter()
	token := authToken(t, admin)

	w := performJSON(r, http.MethodPost, "/api/admin/backup/restore", "", token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("缺少文件期望 400, 实际 %d", w.Code)
	}

	w = performMultipart(r, http.MethodPost, "/api/admin/backup/restore", "file", "bogus.zip", []byte("not a zip"), token)
	if w.Code == http.StatusOK {
		t.Fatalf("非法压缩包不应恢复成功")
	}
}

// 测试内容：备份概览返回数据库行数与上传文件统计。
func TestGetBackupInfo(t *testing.T) {
	testutils.SetupDB(t)
	useTempUploadDir(t)
	admin := mustCreateUser(t, "admin", "admin@example.com", model.RoleAdmin)
	mustCreateUser(t, "rosa", "rosa@example.com", model.RoleMember)

	r := newBackupRouter()
	w := performJSON(r, http.MethodGet, "/api/admin/backup/info", "", authToken(t, admin))
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d %s", w.Code, w.Body.String())
	}
	resp := decodeJSON(t, w)
	database, _ := resp["database"].(map[string]any)
	if database == nil {
		t.Fatalf("期望 database 统计, 实际 %v", resp)
	}
	if got := database["users"]; got != float64(2) {
		t.Fatalf("期望 users=2, 实际 %v", got)
	}
}
