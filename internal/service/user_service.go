package service

import (
	"errors"
	"log"

	"github.com/MedjedStudio/mav/internal/common"
	"github.com/MedjedStudio/mav/internal/db"
	"github.com/MedjedStudio/mav/internal/model"
	"github.com/MedjedStudio/mav/internal/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// hashPassword 使用 bcrypt 生成密码哈希
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// verifyPassword 校验明文密码与哈希是否匹配
func verifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GetUserByID 按 ID 获取未删除的用户
func GetUserByID(id uint) (*model.User, error) {
	var user model.User
	if err := db.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFoundError("用户不存在")
		}
		return nil, common.NewInternalError("查询用户失败")
	}
	return &user, nil
}

// GetUserByEmail 按邮箱获取未删除的用户
func GetUserByEmail(email string) (*model.User, error) {
	var user model.User
	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFoundError("用户不存在")
		}
		return nil, common.NewInternalError("查询用户失败")
	}
	return &user, nil
}

// AuthenticateUser 按邮箱+密码认证用户。
// 为避免枚举账号，认证失败统一返回同一错误。
func AuthenticateUser(email, password string) (*model.User, error) {
	var user model.User
	err := db.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewUnauthorizedError("邮箱或密码错误")
		}
		return nil, common.NewInternalError("查询用户失败")
	}
	if !verifyPassword(password, user.PasswordHash) {
		return nil, common.NewUnauthorizedError("邮箱或密码错误")
	}
	return &user, nil
}

// CreateUser 创建新用户（管理员操作或初始设置）
func CreateUser(username, email, password string, role model.UserRole) (*model.User, error) {
	if ok, msg := utils.ValidateUsername(username); !ok {
		return nil, common.NewValidationError(msg)
	}
	if ok, msg := utils.ValidatePassword(password); !ok {
		return nil, common.NewValidationError(msg)
	}
	if ok, msg := utils.ValidateEmail(email); !ok {
		return nil, common.NewValidationError(msg)
	}

	var count int64
	if err := db.DB.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, common.NewInternalError("查询用户失败")
	}
	if count > 0 {
		return nil, common.NewConflictError("该邮箱已被使用")
	}
	if err := db.DB.Model(&model.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, common.NewInternalError("查询用户失败")
	}
	if count > 0 {
		return nil, common.NewConflictError("该用户名已被使用")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, common.NewInternalError("密码加密失败")
	}

	user := model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Timezone:     model.TimezoneUTC,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		return nil, common.NewInternalError("创建用户失败")
	}
	log.Printf("✅ 用户已创建: %s (%s)", user.Username, user.Role.Name())
	return &user, nil
}

// ListUsers 获取全部未删除用户，按创建时间倒序（管理员用）
func ListUsers() ([]model.User, error) {
	var users []model.User
	if err := db.DB.Preload("Avatar").Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, common.NewInternalError("查询用户列表失败")
	}
	return users, nil
}

// UserUpdate 描述管理员可更新的用户字段，nil 表示不修改
type UserUpdate struct {
	Username *string
	Email    *string
	Role     *model.UserRole
}

// UpdateUser 更新用户信息（管理员操作）。
// 禁止将最后一位管理员降级。
func UpdateUser(id uint, upd UserUpdate) (*model.User, error) {
	user, err := GetUserByID(id)
	if err != nil {
		return nil, err
	}

	if upd.Username != nil && *upd.Username != user.Username {
		if ok, msg := utils.ValidateUsername(*upd.Username); !ok {
			return nil, common.NewValidationError(msg)
		}
		var count int64
		if err := db.DB.Model(&model.User{}).Where("username = ? AND id <> ?", *upd.Username, id).Count(&count).Error; err != nil {
			return nil, common.NewInternalError("查询用户失败")
		}
		if count > 0 {
			return nil, common.NewConflictError("该用户名已被使用")
		}
		user.Username = *upd.Username
	}

	if upd.Email != nil && *upd.Email != user.Email {
		if ok, msg := utils.ValidateEmail(*upd.Email); !ok {
			return nil, common.NewValidationError(msg)
		}
		var count int64
		if err := db.DB.Model(&model.User{}).Where("email = ? AND id <> ?", *upd.Email, id).Count(&count).Error; err != nil {
			return nil, common.NewInternalError("查询用户失败")
		}
		if count > 0 {
			return nil, common.NewConflictError("该邮箱已被使用")
		}
		user.Email = *upd.Email
	}

	if upd.Role != nil && *upd.Role != user.Role {
		if user.Role == model.RoleAdmin && *upd.Role != model.RoleAdmin {
			admins, err := CountActiveAdmins()
			if err != nil {
				return nil, err
			}
			if admins <= 1 {
				return nil, common.NewValidationError("无法变更最后一位管理员的角色")
			}
		}
		user.Role = *upd.Role
	}

	if err := db.DB.Save(user).Error; err != nil {
		return nil, common.NewInternalError("更新用户失败")
	}
	return user, nil
}

// ChangePassword 修改密码，需先校验当前密码
func ChangePassword(id uint, currentPassword, newPassword string) error {
	user, err := GetUserByID(id)
	if err != nil {
		return err
	}
	if !verifyPassword(currentPassword, user.PasswordHash) {
		return common.NewValidationError("当前密码不正确")
	}
	if ok, msg := utils.ValidatePassword(newPassword); !ok {
		return common.NewValidationError(msg)
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return common.NewInternalError("密码加密失败")
	}
	if err := db.DB.Model(user).Update("password_hash", hash).Error; err != nil {
		return common.NewInternalError("更新密码失败")
	}
	return nil
}

// UpdateProfile 更新个人资料（简介、时区），nil 表示不修改
func UpdateProfile(id uint, profile *string, timezone *model.UserTimezone) (*model.User, error) {
	user, err := GetUserByID(id)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		user.Profile = profile
	}
	if timezone != nil {
		user.Timezone = *timezone
	}
	if err := db.DB.Save(user).Error; err != nil {
		return nil, common.NewInternalError("更新个人资料失败")
	}
	return user, nil
}

// DeleteUser 逻辑删除用户。
// 禁止删除最后一位管理员。
func DeleteUser(id uint) error {
	user, err := GetUserByID(id)
	if err != nil {
		return err
	}
	if user.Role == model.RoleAdmin {
		admins, err := CountActiveAdmins()
		if err != nil {
			return err
		}
		if admins <= 1 {
			return common.NewValidationError("无法删除最后一位管理员")
		}
	}
	if err := db.DB.Delete(user).Error; err != nil {
		return common.NewInternalError("删除用户失败")
	}
	log.Printf("✅ 用户已删除: %s (id=%d)", user.Username, user.ID)
	return nil
}

// CountActiveAdmins 统计未删除的管理员数量
func CountActiveAdmins() (int64, error) {
	var count int64
	err := db.DB.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error
	if err != nil {
		return 0, common.NewInternalError("查询管理员数量失败")
	}
	return count, nil
}

// IsInitialSetupNeeded 检查是否需要初始设置（无任何管理员时）
func IsInitialSetupNeeded() (bool, error) {
	admins, err := CountActiveAdmins()
	if err != nil {
		return false, err
	}
	return admins == 0, nil
}

// InitialSetup 创建第一位管理员。仅当系统中没有管理员时允许。
func InitialSetup(username, email, password string) (*model.User, error) {
	needed, err := IsInitialSetupNeeded()
	if err != nil {
		return nil, err
	}
	if !needed {
		return nil, common.NewForbiddenError("初始设置已完成")
	}
	user, err := CreateUser(username, email, password, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	log.Printf("🚀 初始管理员已创建: %s", user.Username)
	return user, nil
}
