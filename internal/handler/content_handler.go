package handler

import (
	"net/http"

	"github.com/MedjedStudio/mav/internal/service"

	"github.com/gin-gonic/gin"
)

// ListPublishedContents 公开的内容列表，仅含已发布内容
func ListPublishedContents(c *gin.Context) {
	contents, err := service.ListPublishedContents()
	if err != nil {
		WriteServiceError(c, err, "查询内容列表失败")
		return
	}

	resp := make([]gin.H, 0, len(contents))
	for i := range contents {
		resp = append(resp, contentResponse(&contents[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetPublishedContent 公开获取单篇已发布内容
func GetPublishedContent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	content, err := service.GetPublishedContentByID(id)
	if err != nil {
		WriteServiceError(c, err, "查询内容失败")
		return
	}
	c.JSON(http.StatusOK, contentResponse(content))
}

// ListContents 管理界面内容列表：管理员看全部，成员只看自己的
func ListContents(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	contents, err := service.ListContentsForUser(user)
	if err != nil {
		WriteServiceError(c, err, "查询内容列表失败")
		return
	}

	resp := make([]gin.H, 0, len(contents))
	for i := range contents {
		resp = append(resp, contentResponse(&contents[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetContent 获取单篇内容（登录用户，可见未发布）
func GetContent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	content, err := service.GetContentByID(id)
	if err != nil {
		WriteServiceError(c, err, "查询内容失败")
		return
	}
	c.JSON(http.StatusOK, contentResponse(content))
}

// CreateContent 创建内容，作者为当前登录用户
func CreateContent(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Title       string `json:"title" binding:"required"`
		Content     string `json:"content"`
		CategoryIDs []uint `json:"category_ids"`
		IsPublished bool   `json:"is_published"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	content, err := service.CreateContent(req.Title, req.Content, uid, req.CategoryIDs, req.IsPublished)
	if err != nil {
		WriteServiceError(c, err, "创建内容失败")
		return
	}
	c.JSON(http.StatusOK, contentResponse(content))
}

// UpdateContent 更新内容（管理员或作者本人）
func UpdateContent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Title       *string `json:"title"`
		Content     *string `json:"content"`
		CategoryIDs *[]uint `json:"category_ids"`
		IsPublished *bool   `json:"is_published"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	upd := service.ContentUpdate{
		Title:       req.Title,
		Body:        req.Content,
		IsPublished: req.IsPublished,
	}
	if req.CategoryIDs != nil {
		upd.CategoryIDs = *req.CategoryIDs
		upd.ReplaceCats = true
	}

	content, err := service.UpdateContent(id, upd, user)
	if err != nil {
		WriteServiceError(c, err, "更新内容失败")
		return
	}
	c.JSON(http.StatusOK, contentResponse(content))
}

// DeleteContent 删除内容（管理员或作者本人）
func DeleteContent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := service.DeleteContent(id, user); err != nil {
		WriteServiceError(c, err, "删除内容失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "内容已删除"})
}
