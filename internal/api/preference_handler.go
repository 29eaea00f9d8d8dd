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

// PreferenceHandler 用户偏好接口
type PreferenceHandler struct {
	prefService *service.PreferenceService
	logger      *logrus.Logger
}

// NewPreferenceHandler 创建 PreferenceHandler
func NewPreferenceHandler(db *gorm.DB, logger *logrus.Logger) *PreferenceHandler {
	repo := repository.NewPreferenceRepository(db)
	svc := service.NewPreferenceService(repo, logger)
	return &PreferenceHandler{prefService: svc, logger: logger}
}

// syncRequest 整组替换请求体。四个字段只会用到路径 kind 对应的那个
type syncRequest struct {
	SportIDs  *[]uint64 `json:"sport_ids"`
	LeagueIDs *[]uint64 `json:"league_ids"`
	TeamIDs   *[]uint64 `json:"team_ids"`
	PlayerIDs *[]uint64 `json:"player_ids"`
}

// idsForKind 取路径 kind 对应的请求体字段；未提供返回 false
func (r *syncRequest) idsForKind(kind repository.PreferenceKind) ([]uint64, bool) {
	var p *[]uint64
	switch kind {
	case repository.KindSports:
		p = r.SportIDs
	case repository.KindLeagues:
		p = r.LeagueIDs
	case repository.KindTeams:
		p = r.TeamIDs
	case repository.KindPlayers:
		p = r.PlayerIDs
	}
	if p == nil {
		return nil, false
	}
	return *p, true
}

// List 用户全部偏好 GET /api/preferences
func (h *PreferenceHandler) List(c *gin.Context) {
	user := CurrentUser(c)
	bundle, err := h.prefService.List(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

// Sync 整组替换某类偏好 POST /api/preferences/:kind
func (h *PreferenceHandler) Sync(c *gin.Context) {
	user := CurrentUser(c)
	kind, ok := repository.ParsePreferenceKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "偏好种类必须是 sports/leagues/teams/players 之一"})
		return
	}

	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求体格式不正确"})
		return
	}
	ids, provided := req.idsForKind(kind)
	if !provided {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{kind.FieldName(): "必须提供ID数组"}})
		return
	}

	if err := h.prefService.Sync(c.Request.Context(), user, kind, ids); err != nil {
		respondError(c, h.logger, err)
		return
	}
	bundle, err := h.prefService.List(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "偏好更新成功", "preferences": bundle})
}

// SaveAll 一次保存多类偏好 POST /api/preferences/save-all
func (h *PreferenceHandler) SaveAll(c *gin.Context) {
	user := CurrentUser(c)

	var input service.SaveAllInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求体格式不正确"})
		return
	}

	if err := h.prefService.SaveAll(c.Request.Context(), user, input); err != nil {
		respondError(c, h.logger, err)
		return
	}
	bundle, err := h.prefService.List(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "偏好保存成功", "preferences": bundle})
}

// Detach 取消一条偏好 DELETE /api/preferences/:kind/:id
func (h *PreferenceHandler) Detach(c *gin.Context) {
	user := CurrentUser(c)
	kind, ok := repository.ParsePreferenceKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "偏好种类必须是 sports/leagues/teams/players 之一"})
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id 必须是数字"})
		return
	}

	if err := h.prefService.Detach(c.Request.Context(), user, kind, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已取消关注"})
}
