package model

import (
	"time"

	"gorm.io/gorm"
)

type Content struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at" gorm:"index"`
	Title       string         `json:"title" gorm:"size:255;not null"`
	Body        string         `json:"content" gorm:"column:content;type:text;not null"`
	IsPublished bool           `json:"is_published" gorm:"not null;default:false"`
	AuthorID    uint           `json:"author_id" gorm:"not null;index"`

	Author     User       `json:"-" gorm:"foreignKey:AuthorID;references:ID"`
	Categories []Category `json:"-" gorm:"many2many:content_categories;"`
}
