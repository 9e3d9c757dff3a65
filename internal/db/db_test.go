package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MedjedStudio/mav/internal/config"
	"github.com/MedjedStudio/mav/internal/model"
)

// 测试内容：验证使用 sqlite 临时文件初始化数据库并创建核心表。
func TestInitDB_SQLiteTempFile(t *testing.T) {
	tmp := t.TempDir()
	cfgDir := filepath.Join(tmp, "cfg")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		t.Fatalf("创建配置目录失败: %v", err)
	}

	dbFile := filepath.Join(tmp, "db", "test.db")
	t.Setenv("MAV_SERVER_MODE", "debug")
	t.Setenv("MAV_DATABASE_TYPE", "sqlite")
	t.Setenv("MAV_DATABASE_FILENAME", dbFile)

	config.InitConfig(cfgDir)
	InitDB()

	if DB == nil {
		t.Fatalf("期望 DB to be initialized")
	}
	if !DB.Migrator().HasTable(&model.User{}) {
		t.Fatalf("期望 users table to exist")
	}
	if !DB.Migrator().HasTable(&model.Category{}) {
		t.Fatalf("期望 categories table to exist")
	}
	if !DB.Migrator().HasTable(&model.Content{}) {
		t.Fatalf("期望 contents table to exist")
	}
	if !DB.Migrator().HasTable(&model.File{}) {
		t.Fatalf("期望 files table to exist")
	}
	if !DB.Migrator().HasTable(&model.Avatar{}) {
		t.Fatalf("期望 avatars table to exist")
	}

	sqlDB, err := DB.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}
