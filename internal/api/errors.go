package api

import (
	"errors"
	"net/http"

	"SportsFeed/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// respondError 把领域错误映射为HTTP状态码：
// 校验失败422 / 无权403 / 未认证401 / 不存在404 / 其余500
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	if ve, ok := service.AsValidationError(err); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": ve.Fields})
		return
	}
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"message": "无权执行该操作"})
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "未认证"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "资源不存在"})
	default:
		logger.WithError(err).Error("请求处理失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
