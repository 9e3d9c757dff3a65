package model

import (
	"time"

	"gorm.io/gorm"
)

// Avatar 用户头像，每个用户至多存在一条未删除记录
type Avatar struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"deleted_at" gorm:"uniqueIndex:uq_user_avatar_active;index"`
	UserID           uint           `json:"user_id" gorm:"uniqueIndex:uq_user_avatar_active;not null"`
	Filename         string         `json:"filename" gorm:"size:255;not null"`
	OriginalFilename string         `json:"original_filename" gorm:"size:255;not null"`
	FileSize         int64          `json:"file_size" gorm:"not null"`
	MimeType         string         `json:"mime_type" gorm:"size:100;not null"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID"`
}
