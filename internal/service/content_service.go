package service

import (
	"errors"

	"github.com/MedjedStudio/mav/internal/common"
	"github.com/MedjedStudio/mav/internal/db"
	"github.com/MedjedStudio/mav/internal/model"

	"gorm.io/gorm"
)

// CreateContent 创建内容并关联分类。
// category_ids 中已删除或不存在的分类被静默忽略。
func CreateContent(title, body string, authorID uint, categoryIDs []uint, isPublished bool) (*model.Content, error) {
	if title == "" {
		return nil, common.NewValidationError("标题不能为空")
	}

	content := model.Content{
		Title:       title,
		Body:        body,
		IsPublished: isPublished,
		AuthorID:    authorID,
	}
	if err := db.DB.Create(&content).Error; err != nil {
		return nil, common.NewInternalError("创建内容失败")
	}

	if len(categoryIDs) > 0 {
		if err := replaceContentCategories(&content, categoryIDs); err != nil {
			return nil, err
		}
	}
	return reloadContent(content.ID)
}

// GetContentByID 按 ID 获取未删除的内容（含分类与作者）
func GetContentByID(id uint) (*model.Content, error) {
	var content model.Content
	err := db.DB.Preload("Categories").Preload("Author").First(&content, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFoundError("内容不存在")
		}
		return nil, common.NewInternalError("查询内容失败")
	}
	return &content, nil
}

// GetPublishedContentByID 按 ID 获取已发布的内容（公开访问）
func GetPublishedContentByID(id uint) (*model.Content, error) {
	var content model.Content
	err := db.DB.Preload("Categories").Preload("Author").
		Where("is_published = ?", true).
		First(&content, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFoundError("内容不存在")
		}
		return nil, common.NewInternalError("查询内容失败")
	}
	return &content, nil
}

// ContentUpdate 描述可更新的内容字段，nil 表示不修改。
// CategoryIDs 非 nil 时整体替换关联（空切片表示清空）。
type ContentUpdate struct {
	Title       *string
	Body        *string
	IsPublished *bool
	CategoryIDs []uint
	ReplaceCats bool
}

// UpdateContent 更新内容。仅管理员或作者本人可操作。
func UpdateContent(id uint, upd ContentUpdate, currentUser *model.User) (*model.Content, error) {
	content, err := GetContentByID(id)
	if err != nil {
		return nil, err
	}
	if !currentUser.IsAdmin() && content.AuthorID != currentUser.ID {
		return nil, common.NewForbiddenError("没有权限编辑该内容")
	}

	if upd.Title != nil {
		if *upd.Title == "" {
			return nil, common.NewValidationError("标题不能为空")
		}
		content.Title = *upd.Title
	}
	if upd.Body != nil {
		content.Body = *upd.Body
	}
	if upd.IsPublished != nil {
		content.IsPublished = *upd.IsPublished
	}

	if err := db.DB.Save(content).Error; err != nil {
		return nil, common.NewInternalError("更新内容失败")
	}

	if upd.ReplaceCats {
		if err := replaceContentCategories(content, upd.CategoryIDs); err != nil {
			return nil, err
		}
	}
	return reloadContent(content.ID)
}

// DeleteContent 逻辑删除内容。仅管理员或作者本人可操作。
func DeleteContent(id uint, currentUser *model.User) error {
	content, err := GetContentByID(id)
	if err != nil {
		return err
	}
	if !currentUser.IsAdmin() && content.AuthorID != currentUser.ID {
		return common.NewForbiddenError("没有权限删除该内容")
	}
	if err := db.DB.Delete(content).Error; err != nil {
		return common.NewInternalError("删除内容失败")
	}
	return nil
}

// ListContentsForUser 管理界面内容列表。
// 管理员看到全部，普通成员只看到自己的，按创建时间倒序。
func ListContentsForUser(currentUser *model.User) ([]model.Content, error) {
	query := db.DB.Preload("Categories").Preload("Author")
	if !currentUser.IsAdmin() {
		query = query.Where("author_id = ?", currentUser.ID)
	}

	var contents []model.Content
	if err := query.Order("created_at DESC").Find(&contents).Error; err != nil {
		return nil, common.NewInternalError("查询内容列表失败")
	}
	return contents, nil
}

// ListPublishedContents 公开内容列表，按创建时间倒序
func ListPublishedContents() ([]model.Content, error) {
	var contents []model.Content
	err := db.DB.Preload("Categories").Preload("Author").
		Where("is_published = ?", true).
		Order("created_at DESC").
		Find(&contents).Error
	if err != nil {
		return nil, common.NewInternalError("查询内容列表失败")
	}
	return contents, nil
}

// CategoryNames 返回内容关联的分类名，空时返回「未分类」
func CategoryNames(content *model.Content) []string {
	names := make([]string, 0, len(content.Categories))
	for _, cat := range content.Categories {
		names = append(names, cat.Name)
	}
	if len(names) == 0 {
		names = []string{"未分类"}
	}
	return names
}

// replaceContentCategories 整体替换内容的分类关联。
// 只保留实际存在且未删除的分类。
func replaceContentCategories(content *model.Content, categoryIDs []uint) error {
	var categories []model.Category
	if len(categoryIDs) > 0 {
		if err := db.DB.Where("id IN ?", categoryIDs).Find(&categories).Error; err != nil {
			return common.NewInternalError("查询分类失败")
		}
	}
	if err := db.DB.Model(content).Association("Categories").Replace(&categories); err != nil {
		return common.NewInternalError("更新内容分类失败")
	}
	return nil
}

func reloadContent(id uint) (*model.Content, error) {
	return GetContentByID(id)
}
