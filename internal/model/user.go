package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at" gorm:"uniqueIndex:uq_email_deleted_at;index"`
	Username     string         `json:"username" gorm:"size:100;index;not null"`
	Email        string         `json:"email" gorm:"size:255;uniqueIndex:uq_email_deleted_at;not null"`
	PasswordHash string         `json:"-" gorm:"size:255;not null"`
	Role         UserRole       `json:"role" gorm:"not null;default:2"`
	Profile      *string        `json:"profile"`
	Timezone     UserTimezone   `json:"timezone" gorm:"not null;default:1"`

	Avatar *Avatar `json:"-" gorm:"foreignKey:UserID"`
}

// IsAdmin 判断用户是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
