package model

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at" gorm:"index"`
	Name        string         `json:"name" gorm:"size:100;not null;unique"`
	Description *string        `json:"description"`
	// SortOrder 显示顺序，创建时取当前最大值+1
	SortOrder int `json:"sort_order" gorm:"not null;default:0"`

	Contents []Content `json:"-" gorm:"many2many:content_categories;"`
}
