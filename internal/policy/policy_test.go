package policy

import (
	"testing"

	"SportsFeed/internal/model"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint64) *uint64 { return &v }

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"user", "admin", "super_admin"} {
		role, err := ParseRole(valid)
		assert.NoError(t, err)
		assert.Equal(t, Role(valid), role)
	}
	_, err := ParseRole("moderator")
	assert.Error(t, err)
}

func TestRolePredicates(t *testing.T) {
	assert.False(t, RoleUser.IsAdmin())
	assert.True(t, RoleAdmin.IsAdmin())
	assert.True(t, RoleSuperAdmin.IsAdmin())

	assert.False(t, RoleUser.IsSuperAdmin())
	assert.False(t, RoleAdmin.IsSuperAdmin())
	assert.True(t, RoleSuperAdmin.IsSuperAdmin())
}

// 权限矩阵：文章写操作按角色与指派项目逐格校验
func TestCanWriteArticle(t *testing.T) {
	cases := []struct {
		name     string
		actor    *model.User
		sportID  uint64
		expected bool
	}{
		{"超管可写任意项目", &model.User{ID: 1, Role: "super_admin"}, 7, true},
		{"管理员可写指派项目", &model.User{ID: 2, Role: "admin", AssignedSportID: uintPtr(2)}, 2, true},
		{"管理员不可写其他项目", &model.User{ID: 2, Role: "admin", AssignedSportID: uintPtr(2)}, 3, false},
		{"管理员未指派项目一律拒绝", &model.User{ID: 3, Role: "admin"}, 2, false},
		{"普通用户一律拒绝", &model.User{ID: 4, Role: "user"}, 2, false},
		{"未知角色一律拒绝", &model.User{ID: 5, Role: "moderator"}, 2, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CanWriteArticle(tc.actor, tc.sportID))
		})
	}
}

func TestCanManageUsers(t *testing.T) {
	assert.True(t, CanManageUsers(&model.User{Role: "super_admin"}))
	assert.False(t, CanManageUsers(&model.User{Role: "admin"}))
	assert.False(t, CanManageUsers(&model.User{Role: "user"}))
}

func TestCanMutatePreferences(t *testing.T) {
	actor := &model.User{ID: 10, Role: "user"}
	assert.True(t, CanMutatePreferences(actor, 10))
	assert.False(t, CanMutatePreferences(actor, 11))
}

// 自删禁止：super_admin 也不能删除自己
func TestCanDeleteUser(t *testing.T) {
	super := &model.User{ID: 1, Role: "super_admin"}
	assert.True(t, CanDeleteUser(super, 2))
	assert.False(t, CanDeleteUser(super, 1))
	assert.False(t, CanDeleteUser(&model.User{ID: 3, Role: "admin"}, 2))
}
