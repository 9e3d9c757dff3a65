package handler

import (
	"net/http"
	"strconv"

	"github.com/MedjedStudio/mav/internal/middleware"
	"github.com/MedjedStudio/mav/internal/model"
	"github.com/MedjedStudio/mav/internal/service"

	"github.com/gin-gonic/gin"
)

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的ID"})
		return 0, false
	}
	return uint(id), true
}

// ListUsersAdmin 用户列表（管理员）
func ListUsersAdmin(c *gin.Context) {
	users, err := service.ListUsers()
	if err != nil {
		WriteServiceError(c, err, "查询用户列表失败")
		return
	}

	resp := make([]gin.H, 0, len(users))
	for i := range users {
		resp = append(resp, userResponse(&users[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateUserAdmin 创建用户（管理员）
func CreateUserAdmin(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	role, err := model.ParseUserRoleName(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := service.CreateUser(req.Username, req.Email, req.Password, role)
	if err != nil {
		WriteServiceError(c, err, "创建用户失败")
		return
	}
	c.JSON(http.StatusOK, userResponse(user))
}

// GetUserAdmin 获取单个用户（管理员）
func GetUserAdmin(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, err := service.GetUserByID(id)
	if err != nil {
		WriteServiceError(c, err, "查询用户失败")
		return
	}
	c.JSON(http.StatusOK, userResponse(user))
}

// UpdateUserAdmin 更新用户（管理员）
func UpdateUserAdmin(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Role     *string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	upd := service.UserUpdate{Username: req.Username, Email: req.Email}
	if req.Role != nil {
		role, err := model.ParseUserRoleName(*req.Role)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		upd.Role = &role
	}

	user, err := service.UpdateUser(id, upd)
	if err != nil {
		WriteServiceError(c, err, "更新用户失败")
		return
	}
	c.JSON(http.StatusOK, userResponse(user))
}

// DeleteUserAdmin 删除用户（管理员，逻辑删除）
func DeleteUserAdmin(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := service.DeleteUser(id); err != nil {
		WriteServiceError(c, err, "删除用户失败")
		return
	}
	// 令已签发的令牌立即失效
	middleware.ClearUserExistenceCache(id)
	c.JSON(http.StatusOK, gin.H{"message": "用户已删除"})
}
