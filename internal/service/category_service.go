package service

import (
	"errors"
	"log"

	"github.com/MedjedStudio/mav/internal/common"
	"github.com/MedjedStudio/mav/internal/db"
	"github.com/MedjedStudio/mav/internal/model"

	"gorm.io/gorm"
)

// CreateCategory 创建分类。sort_order 自动取当前最大值+1。
func CreateCategory(name string, description *string) (*model.Category, error) {
	if name == "" {
		return nil, common.NewValidationError("分类名不能为空")
	}

	var count int64
	if err := db.DB.Model(&model.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, common.NewInternalError("查询分类失败")
	}
	if count > 0 {
		return nil, common.NewConflictError("该分类名已存在")
	}

	var maxSortOrder int
	row := db.DB.Model(&model.Category{}).Select("COALESCE(MAX(sort_order), 0)").Row()
	if err := row.Scan(&maxSortOrder); err != nil {
		return nil, common.NewInternalError("查询分类排序失败")
	}

	category := model.Category{
		Name:        name,
		Description: description,
		SortOrder:   maxSortOrder + 1,
	}
	if err := db.DB.Create(&category).Error; err != nil {
		return nil, common.NewInternalError("创建分类失败")
	}
	return &category, nil
}

// GetCategoryByID 按 ID 获取未删除的分类
func GetCategoryByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := db.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFoundError("分类不存在")
		}
		return nil, common.NewInternalError("查询分类失败")
	}
	return &category, nil
}

// ListCategories 获取全部分类，按 sort_order 再按名称排序
func ListCategories() ([]model.Category, error) {
	var categories []model.Category
	if err := db.DB.Order("sort_order, name").Find(&categories).Error; err != nil {
		return nil, common.NewInternalError("查询分类列表失败")
	}
	return categories, nil
}

// UpdateCategory 更新分类名称与描述，nil 表示不修改
func UpdateCategory(id uint, name *string, description *string) (*model.Category, error) {
	category, err := GetCategoryByID(id)
	if err != nil {
		return nil, err
	}

	if name != nil && *name != category.Name {
		if *name == "" {
			return nil, common.NewValidationError("分类名不能为空")
		}
		var count int64
		if err := db.DB.Model(&model.Category{}).Where("name = ? AND id <> ?", *name, id).Count(&count).Error; err != nil {
			return nil, common.NewInternalError("查询分类失败")
		}
		if count > 0 {
			return nil, common.NewConflictError("该分类名已存在")
		}
		category.Name = *name
	}
	if description != nil {
		category.Description = description
	}

	if err := db.DB.Save(category).Error; err != nil {
		return nil, common.NewInternalError("更新分类失败")
	}
	return category, nil
}

// DeleteCategory 逻辑删除分类，并解除与内容的关联（内容变为未分类）
func DeleteCategory(id uint) error {
	category, err := GetCategoryByID(id)
	if err != nil {
		return err
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM content_categories WHERE category_id = ?", category.ID).Error; err != nil {
			return err
		}
		return tx.Delete(category).Error
	})
	if err != nil {
		return common.NewInternalError("删除分类失败")
	}
	log.Printf("✅ 分类已删除: %s (id=%d)", category.Name, category.ID)
	return nil
}

// GetCategoryContents 获取某分类下已发布的内容，按创建时间倒序
func GetCategoryContents(id uint) ([]model.Content, error) {
	if _, err := GetCategoryByID(id); err != nil {
		return nil, err
	}

	var contents []model.Content
	err := db.DB.
		Preload("Author").
		Preload("Categories").
		Joins("JOIN content_categories ON content_categories.content_id = contents.id").
		Where("content_categories.category_id = ? AND contents.is_published = ?", id, true).
		Order("contents.created_at DESC").
		Find(&contents).Error
	if err != nil {
		return nil, common.NewInternalError("查询分类内容失败")
	}
	return contents, nil
}

// CategorySortOrder 描述单个分类的目标排序值
type CategorySortOrder struct {
	ID        uint `json:"id"`
	SortOrder int  `json:"sort_order"`
}

// UpdateCategorySortOrders 批量更新分类排序，单个事务内完成。
// 不存在的分类 ID 静默跳过。
func UpdateCategorySortOrders(orders []CategorySortOrder) error {
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		for _, order := range orders {
			err := tx.Model(&model.Category{}).
				Where("id = ?", order.ID).
				Update("sort_order", order.SortOrder).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return common.NewInternalError("更新分类排序失败")
	}
	return nil
}
