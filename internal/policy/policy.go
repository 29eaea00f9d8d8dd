package policy

import (
	"fmt"

	"SportsFeed/internal/model"
)

// Role 封闭角色枚举，避免在业务代码里比较裸字符串
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// ParseRole 解析角色字符串，未知值报错
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("未知角色: %q", s)
}

// IsAdmin admin 与 super_admin 均视为管理员
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// IsSuperAdmin 仅 super_admin
func (r Role) IsSuperAdmin() bool {
	return r == RoleSuperAdmin
}

// CanWriteArticle 判定 actor 能否创建/编辑/删除指定运动项目下的文章。
// super_admin 不受项目限制；admin 仅限其被指派的项目；普通用户一律拒绝。
func CanWriteArticle(actor *model.User, sportID uint64) bool {
	role := Role(actor.Role)
	if role.IsSuperAdmin() {
		return true
	}
	if role != RoleAdmin {
		return false
	}
	return actor.AssignedSportID != nil && *actor.AssignedSportID == sportID
}

// CanWriteMatch 赛程写操作与文章同规则：按运动项目范围授权
func CanWriteMatch(actor *model.User, sportID uint64) bool {
	return CanWriteArticle(actor, sportID)
}

// CanManageUsers 管理端用户管理（创建管理员、查看/删除用户）仅 super_admin
func CanManageUsers(actor *model.User) bool {
	return Role(actor.Role).IsSuperAdmin()
}

// CanMutatePreferences 偏好只能由本人修改（任何角色都可维护自己的偏好）
func CanMutatePreferences(actor *model.User, targetUserID uint64) bool {
	return actor.ID == targetUserID
}

// CanDeleteUser 删除用户：super_admin 专属，且禁止删除自己
func CanDeleteUser(actor *model.User, targetUserID uint64) bool {
	return Role(actor.Role).IsSuperAdmin() && actor.ID != targetUserID
}
