package api

import (
	"net/http"
	"time"

	"SportsFeed/internal/model"
	"SportsFeed/internal/repository"
	"SportsFeed/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuthHandler 注册/登录/当前用户接口
type AuthHandler struct {
	authService *service.AuthService
	logger      *logrus.Logger
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(db *gorm.DB, logger *logrus.Logger, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	userRepo := repository.NewUserRepository(db)
	svc := service.NewAuthService(userRepo, logger, jwtSecret, tokenTTL)
	return &AuthHandler{authService: svc, logger: logger}
}

// Service 暴露给路由装配（中间件需要同一个 AuthService 实例）
func (h *AuthHandler) Service() *service.AuthService {
	return h.authService
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register 用户注册 POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求体格式不正确"})
		return
	}
	result, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Login 用户登录 POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求体格式不正确"})
		return
	}
	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Me 当前用户 GET /api/user
func (h *AuthHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"user": model.NewUserView(user, nil)})
}
