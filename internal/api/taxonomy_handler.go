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

// TaxonomyHandler 参照数据公开浏览接口
type TaxonomyHandler struct {
	taxonomyService *service.TaxonomyService
	logger          *logrus.Logger
}

// NewTaxonomyHandler 创建 TaxonomyHandler
func NewTaxonomyHandler(db *gorm.DB, logger *logrus.Logger) *TaxonomyHandler {
	repo := repository.NewTaxonomyRepository(db)
	svc := service.NewTaxonomyService(repo, logger)
	return &TaxonomyHandler{taxonomyService: svc, logger: logger}
}

// ListSports 全部运动项目 GET /api/sports
func (h *TaxonomyHandler) ListSports(c *gin.Context) {
	sports, err := h.taxonomyService.ListSports(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sports": sports})
}

// ListLeagues 项目下的联赛 GET /api/sports/:id/leagues
func (h *TaxonomyHandler) ListLeagues(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id 必须是数字"})
		return
	}
	leagues, err := h.taxonomyService.ListLeagues(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leagues": leagues})
}

// ListTeams 联赛下的球队 GET /api/leagues/:id/teams
func (h *TaxonomyHandler) ListTeams(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id 必须是数字"})
		return
	}
	teams, err := h.taxonomyService.ListTeams(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

// ListPlayers 球队下的球员 GET /api/teams/:id/players
func (h *TaxonomyHandler) ListPlayers(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id 必须是数字"})
		return
	}
	players, err := h.taxonomyService.ListPlayers(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"players": players})
}
