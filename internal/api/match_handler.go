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

// MatchHandler 赛程接口：浏览公开，写操作管理员按项目范围
type MatchHandler struct {
	matchService *service.MatchService
	logger       *logrus.Logger
}

// NewMatchHandler 创建 MatchHandler
func NewMatchHandler(db *gorm.DB, logger *logrus.Logger) *MatchHandler {
	matchRepo := repository.NewMatchRepository(db)
	taxonomyRepo := repository.NewTaxonomyRepository(db)
	svc := service.NewMatchService(matchRepo, taxonomyRepo, logger)
	return &MatchHandler{matchService: svc, logger: logger}
}

// List 全部赛程（开赛时间倒序） GET /api/matches
func (h *MatchHandler) List(c *gin.Context) {
	matches, err := h.matchService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// Create 发布赛程 POST /api/matches
func (h *MatchHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	var input service.MatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求体格式不正确"})
		return
	}

	view, err := h.matchService.Create(c.Request.Context(), user, input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Update 更新赛程（状态/比分/改期） PUT/PATCH /api/matches/:id
func (h *MatchHandler) Update(c *gin.Context) {
	user := CurrentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id 必须是数字"})
		return
	}

	var input service.MatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求体格式不正确"})
		return
	}

	view, err := h.matchService.Update(c.Request.Context(), user, id, input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Delete 删除赛程 DELETE /api/matches/:id
func (h *MatchHandler) Delete(c *gin.Context) {
	user := CurrentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id 必须是数字"})
		return
	}

	if err := h.matchService.Delete(c.Request.Context(), user, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "赛程删除成功"})
}
