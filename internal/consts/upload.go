package consts

// 上传目录下的两个子树，文件查找与备份恢复共用
const (
	UploadSubdirFiles   = "files"
	UploadSubdirAvatars = "avatars"
)

// BackupDatabaseFile 备份压缩包根目录下的数据库导出文件名
const BackupDatabaseFile = "database.json"

// BackupUploadsDir 备份压缩包内上传文件快照所在目录
const BackupUploadsDir = "uploads"

// BackupFilePrefix 备份压缩包文件名前缀
const BackupFilePrefix = "mav_backup"
