package api

import (
	"net/http"
	"strconv"

	"SportsFeed/internal/repository"
	"SportsFeed/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AdminHandler 管理端接口（super_admin 专属）
type AdminHandler struct {
	adminService *service.AdminService
	logger       *logrus.Logger
}

// NewAdminHandler 创建 AdminHandler
func NewAdminHandler(db *gorm.DB, logger *logrus.Logger, pageSize int) *AdminHandler {
	userRepo := repository.NewUserRepository(db)
	taxonomyRepo := repository.NewTaxonomyRepository(db)
	svc := service.NewAdminService(userRepo, taxonomyRepo, logger, pageSize)
	return &AdminHandler{adminService: svc, logger: logger}
}

// CreateAdmin 创建管理员 POST /api/admin/admins
func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	user := CurrentUser(c)

	var input service.CreateAdminInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求体格式不正确"})
		return
	}

	view, err := h.adminService.CreateAdmin(c.Request.Context(), user, input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "管理员创建成功", "admin": view})
}

// ListUsers 用户列表 GET /api/admin/users?page=1
func (h *AdminHandler) ListUsers(c *gin.Context) {
	user := CurrentUser(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	result, err := h.adminService.ListUsers(c.Request.Context(), user, page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteUser 删除用户 DELETE /api/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	user := CurrentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id 必须是数字"})
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), user, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "用户删除成功"})
}

// ListSports 供指派用的运动项目列表 GET /api/admin/sports
func (h *AdminHandler) ListSports(c *gin.Context) {
	user := CurrentUser(c)

	sports, err := h.adminService.ListSportsForAssignment(c.Request.Context(), user)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sports": sports})
}
