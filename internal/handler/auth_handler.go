package handler

import (
	"net/http"
	"time"

	"github.com/MedjedStudio/mav/internal/config"
	"github.com/MedjedStudio/mav/internal/model"
	"github.com/MedjedStudio/mav/internal/service"
	"github.com/MedjedStudio/mav/internal/utils"

	"github.com/gin-gonic/gin"
)

func issueToken(user *model.User) (string, error) {
	duration := time.Duration(config.Get().JWT.ExpirationHours) * time.Hour
	return utils.GenerateLoginToken(user.ID, user.Username, user.Role.Name(), duration)
}

// Login 邮箱+密码登录
func Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	user, err := service.AuthenticateUser(req.Email, req.Password)
	if err != nil {
		WriteServiceError(c, err, "登录失败")
		return
	}

	token, err := issueToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "生成令牌失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"username":     user.Username,
		"role":         user.Role.Name(),
	})
}

// GetSetupStatus 查询是否需要初始设置
func GetSetupStatus(c *gin.Context) {
	needed, err := service.IsInitialSetupNeeded()
	if err != nil {
		WriteServiceError(c, err, "查询初始设置状态失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"needs_setup": needed})
}

// InitialSetup 创建第一位管理员并直接登录
func InitialSetup(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	admin, err := service.InitialSetup(req.Username, req.Email, req.Password)
	if err != nil {
		WriteServiceError(c, err, "初始设置失败")
		return
	}

	token, err := issueToken(admin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "生成令牌失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"username":     admin.Username,
		"role":         admin.Role.Name(),
	})
}

// GetMe 获取当前用户信息
func GetMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	// 附带头像信息
	avatar, err := service.GetUserAvatar(user.ID)
	if err == nil && avatar != nil {
		user.Avatar = avatar
	}

	c.JSON(http.StatusOK, userResponse(user))
}

// UpdateSelfProfile 更新个人资料（简介、时区）
func UpdateSelfProfile(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Profile  *string `json:"profile"`
		Timezone *int    `json:"timezone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	var timezone *model.UserTimezone
	if req.Timezone != nil {
		parsed, err := model.ParseUserTimezone(*req.Timezone)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		timezone = &parsed
	}

	user, err := service.UpdateProfile(uid, req.Profile, timezone)
	if err != nil {
		WriteServiceError(c, err, "更新个人资料失败")
		return
	}
	c.JSON(http.StatusOK, userResponse(user))
}

// UpdateSelfPassword 修改自己的密码
func UpdateSelfPassword(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	if err := service.ChangePassword(uid, req.CurrentPassword, req.NewPassword); err != nil {
		WriteServiceError(c, err, "修改密码失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "密码修改成功"})
}
