package api

import (
	"net/http"
	"strings"

	"SportsFeed/internal/model"
	"SportsFeed/internal/policy"
	"SportsFeed/internal/service"

	"github.com/gin-gonic/gin"
)

// currentUserKey 认证中间件写入 gin context 的键
const currentUserKey = "currentUser"

// AuthMiddleware 解析 Bearer 令牌并把当前用户放进请求上下文；无效则401中断
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "未认证"})
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		user, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "未认证"})
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireRole 粗粒度角色闸门：admin 档放行 admin 与 super_admin，
// super_admin 档只放行 super_admin。细粒度的资源级校验在 service 层二次执行
func RequireRole(role policy.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "未认证"})
			return
		}
		actorRole := policy.Role(user.Role)
		allowed := false
		switch role {
		case policy.RoleAdmin:
			allowed = actorRole.IsAdmin()
		case policy.RoleSuperAdmin:
			allowed = actorRole.IsSuperAdmin()
		case policy.RoleUser:
			allowed = true // 任何已认证角色
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "无权访问该接口"})
			return
		}
		c.Next()
	}
}

// CurrentUser 取认证中间件写入的当前用户，未认证返回 nil
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, ok := v.(*model.User)
	if !ok {
		return nil
	}
	return user
}
