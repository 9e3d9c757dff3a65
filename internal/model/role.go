package model

import "fmt"

// UserRole 用户角色，数据库与备份文件中以整数编码存储
type UserRole int

const (
	RoleAdmin  UserRole = 1
	RoleMember UserRole = 2
)

// ParseUserRole 校验整数编码，未知编码返回错误而不是静默回退
func ParseUserRole(code int) (UserRole, error) {
	switch UserRole(code) {
	case RoleAdmin, RoleMember:
		return UserRole(code), nil
	}
	return 0, fmt.Errorf("未知的用户角色编码: %d", code)
}

// ParseUserRoleName 解析 API 层使用的角色名称
func ParseUserRoleName(name string) (UserRole, error) {
	switch name {
	case "admin":
		return RoleAdmin, nil
	case "member":
		return RoleMember, nil
	}
	return 0, fmt.Errorf("未知的用户角色: %s", name)
}

// Name 返回 API 层使用的角色名称
func (r UserRole) Name() string {
	if r == RoleAdmin {
		return "admin"
	}
	return "member"
}
