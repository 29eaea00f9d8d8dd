package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"SportsFeed/internal/repository"
	"SportsFeed/internal/service"
	"SportsFeed/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// 输入解析错误（直接回400，不进入领域错误映射）
var (
	errBadBody     = errors.New("请求体格式不正确")
	errBadSportID  = errors.New("sport_id 必须是数字")
	errBadTeamID   = errors.New("team_id 必须是数字")
	errBadImage    = errors.New("图片文件读取失败")
	errNoBlobStore = errors.New("图片存储未启用")
)

// PostHandler 信息流与文章生命周期接口
type PostHandler struct {
	feedService    *service.FeedService
	articleService *service.ArticleService
	blobStore      storage.BlobStore
	logger         *logrus.Logger
}

// NewPostHandler 创建 PostHandler。blobStore 为 nil 时不支持带图发文
func NewPostHandler(db *gorm.DB, logger *logrus.Logger, blobStore storage.BlobStore, defaultSportID uint64, feedPageSize int) *PostHandler {
	articleRepo := repository.NewArticleRepository(db)
	prefRepo := repository.NewPreferenceRepository(db)
	taxonomyRepo := repository.NewTaxonomyRepository(db)
	userRepo := repository.NewUserRepository(db)
	feedSvc := service.NewFeedService(articleRepo, prefRepo, taxonomyRepo, userRepo, logger, feedPageSize)
	articleSvc := service.NewArticleService(articleRepo, taxonomyRepo, logger, defaultSportID)
	return &PostHandler{
		feedService:    feedSvc,
		articleService: articleSvc,
		blobStore:      blobStore,
		logger:         logger,
	}
}

// Feed 个性化信息流 GET /api/feed?page=1
func (h *PostHandler) Feed(c *gin.Context) {
	user := CurrentUser(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	result, err := h.feedService.ComposeFeed(c.Request.Context(), user, page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// MyPosts 我的发布（管理员） GET /api/posts/mine?page=1
func (h *PostHandler) MyPosts(c *gin.Context) {
	user := CurrentUser(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	result, err := h.feedService.ComposeAuthorFeed(c.Request.Context(), user, page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Search 标题搜索 GET /api/posts/search?keyword=xxx&page=1
func (h *PostHandler) Search(c *gin.Context) {
	user := CurrentUser(c)
	keyword := strings.TrimSpace(c.Query("keyword"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	result, err := h.feedService.Search(c.Request.Context(), user, keyword, page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Create 发布文章 POST /api/posts（multipart，可带 image 文件；也接受纯JSON）
func (h *PostHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	input, err := h.bindArticleInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	article, err := h.articleService.Create(c.Request.Context(), user, *input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	view, err := h.feedService.GetArticle(c.Request.Context(), user, article.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Update 编辑文章 PUT/PATCH /api/posts/:id
func (h *PostHandler) Update(c *gin.Context) {
	user := CurrentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id 必须是数字"})
		return
	}

	input, err := h.bindArticleInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.articleService.Update(c.Request.Context(), user, id, *input); err != nil {
		respondError(c, h.logger, err)
		return
	}
	view, err := h.feedService.GetArticle(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Delete 删除文章 DELETE /api/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	user := CurrentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id 必须是数字"})
		return
	}

	if err := h.articleService.Delete(c.Request.Context(), user, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "文章删除成功"})
}

// ToggleLike 点赞/取消点赞 POST /api/posts/:id/like
func (h *PostHandler) ToggleLike(c *gin.Context) {
	user := CurrentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id 必须是数字"})
		return
	}

	result, err := h.articleService.ToggleLike(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	message := "已取消点赞"
	if result.Liked {
		message = "点赞成功"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     message,
		"liked":       result.Liked,
		"likes_count": result.LikesCount,
	})
}

// bindArticleInput 解析发文/编辑输入：JSON 直接绑定；multipart 逐字段读取，
// 带 image 文件时先落 blob 存储再把URL写进输入
func (h *PostHandler) bindArticleInput(c *gin.Context) (*service.ArticleInput, error) {
	var input service.ArticleInput

	if strings.HasPrefix(c.ContentType(), "application/json") {
		if err := c.ShouldBindJSON(&input); err != nil {
			return nil, errBadBody
		}
		return &input, nil
	}

	input.Title = c.PostForm("title")
	input.Content = c.PostForm("content")
	if v, ok := c.GetPostForm("description"); ok {
		input.Description = &v
	}
	if v, ok := c.GetPostForm("category"); ok {
		input.Category = &v
	}
	if v, ok := c.GetPostForm("sport_id"); ok {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, errBadSportID
		}
		input.SportID = &id
	}
	if v, ok := c.GetPostForm("team_id"); ok && v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, errBadTeamID
		}
		input.TeamID = &id
	}

	file, err := c.FormFile("image")
	if err == nil && file != nil {
		if h.blobStore == nil {
			return nil, errNoBlobStore
		}
		f, err := file.Open()
		if err != nil {
			return nil, errBadImage
		}
		defer f.Close()
		url, err := h.blobStore.Save(file.Filename, f)
		if err != nil {
			return nil, err
		}
		input.ImageURL = &url
	}
	return &input, nil
}
