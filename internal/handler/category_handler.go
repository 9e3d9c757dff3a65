package handler

import (
	"net/http"

	"github.com/MedjedStudio/mav/internal/service"

	"github.com/gin-gonic/gin"
)

// ListCategories 公开的分类列表
func ListCategories(c *gin.Context) {
	categories, err := service.ListCategories()
	if err != nil {
		WriteServiceError(c, err, "查询分类列表失败")
		return
	}

	resp := make([]gin.H, 0, len(categories))
	for i := range categories {
		resp = append(resp, categoryResponse(&categories[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetCategoryContents 公开获取某分类下已发布的内容
func GetCategoryContents(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	contents, err := service.GetCategoryContents(id)
	if err != nil {
		WriteServiceError(c, err, "查询分类内容失败")
		return
	}

	resp := make([]gin.H, 0, len(contents))
	for i := range contents {
		resp = append(resp, contentResponse(&contents[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateCategory 创建分类（管理员）
func CreateCategory(c *gin.Context) {
	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	category, err := service.CreateCategory(req.Name, req.Description)
	if err != nil {
		WriteServiceError(c, err, "创建分类失败")
		return
	}
	c.JSON(http.StatusOK, categoryResponse(category))
}

// UpdateCategory 更新分类（管理员）
func UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	category, err := service.UpdateCategory(id, req.Name, req.Description)
	if err != nil {
		WriteServiceError(c, err, "更新分类失败")
		return
	}
	c.JSON(http.StatusOK, categoryResponse(category))
}

// DeleteCategory 删除分类（管理员），关联内容变为未分类
func DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := service.DeleteCategory(id); err != nil {
		WriteServiceError(c, err, "删除分类失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "分类已删除"})
}

// UpdateCategorySortOrders 批量调整分类排序（管理员）
func UpdateCategorySortOrders(c *gin.Context) {
	var req struct {
		Orders []service.CategorySortOrder `json:"orders" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	if err := service.UpdateCategorySortOrders(req.Orders); err != nil {
		WriteServiceError(c, err, "更新分类排序失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "分类排序已更新"})
}
