package model

import (
	"time"

	"gorm.io/gorm"
)

type File struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
	// Filename 服务端生成的唯一文件名，磁盘上的真实名称
	Filename string `json:"filename" gorm:"size:255;not null;index"`
	// OriginalFilename 用户上传时的原始文件名，仅用于展示
	OriginalFilename string `json:"original_filename" gorm:"size:255;not null"`
	FileSize         int64  `json:"file_size" gorm:"not null"`
	MimeType         string `json:"mime_type" gorm:"size:100;not null"`
	UploadedBy       uint   `json:"uploaded_by" gorm:"not null;index"`

	Uploader User `json:"-" gorm:"foreignKey:UploadedBy;references:ID"`
}
