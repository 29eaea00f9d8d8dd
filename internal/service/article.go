package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SportsFeed/internal/model"
	"SportsFeed/internal/policy"
	"SportsFeed/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// nowFunc 取当前时间，测试中可替换
var nowFunc = time.Now

// ArticleService 新闻文章的发布/编辑/删除与点赞。
// 写操作全部先过 policy 校验：admin 只能操作自己被指派运动项目下的文章，
// super_admin 不受限制，普通用户一律拒绝
type ArticleService struct {
	articleRepo    repository.ArticleRepository
	taxonomyRepo   repository.TaxonomyRepository
	logger         *logrus.Logger
	defaultSportID uint64
}

// NewArticleService 创建 ArticleService。defaultSportID 为发文未指定项目时的回落值
func NewArticleService(articleRepo repository.ArticleRepository, taxonomyRepo repository.TaxonomyRepository, logger *logrus.Logger, defaultSportID uint64) *ArticleService {
	if defaultSportID == 0 {
		defaultSportID = 1
	}
	return &ArticleService{
		articleRepo:    articleRepo,
		taxonomyRepo:   taxonomyRepo,
		logger:         logger,
		defaultSportID: defaultSportID,
	}
}

// ArticleInput 创建/更新文章的输入。指针字段区分“未提供”与“显式清空”
type ArticleInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Content     string  `json:"content"`
	Category    *string `json:"category"`
	SportID     *uint64 `json:"sport_id"`
	TeamID      *uint64 `json:"team_id"`
	ImageURL    *string `json:"image_url"`
}

// LikeResult 点赞翻转结果
type LikeResult struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

// Create 发布文章。sport_id 缺省回落到配置的默认项目；摘要缺省取正文；
// 分类缺省 General；发布时间即当前时间（只支持“即发即上线”）
func (s *ArticleService) Create(ctx context.Context, actor *model.User, input ArticleInput) (*model.NewsArticle, error) {
	if err := validateArticleInput(input); err != nil {
		return nil, err
	}

	sportID := s.defaultSportID
	if input.SportID != nil {
		sportID = *input.SportID
	}
	if !policy.CanWriteArticle(actor, sportID) {
		return nil, ErrUnauthorized
	}
	if err := s.validateRefs(ctx, sportID, input.TeamID); err != nil {
		return nil, err
	}

	article := &model.NewsArticle{
		Title:       input.Title,
		Description: fallback(input.Description, input.Content),
		Content:     input.Content,
		ImageURL:    input.ImageURL,
		Category:    fallback(input.Category, "General"),
		SportID:     sportID,
		TeamID:      input.TeamID,
		AuthorID:    actor.ID,
		PublishedAt: nowFunc(),
	}
	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"article_id": article.ID, "author_id": actor.ID, "sport_id": sportID}).Info("文章已发布")
	return article, nil
}

// Update 编辑文章。先查存在性（404优先），再做归属校验（403）。
// 未提供的字段保持原值，摘要缺省回落到新正文
func (s *ArticleService) Update(ctx context.Context, actor *model.User, articleID uint64, input ArticleInput) (*model.NewsArticle, error) {
	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if !policy.CanWriteArticle(actor, article.SportID) {
		return nil, ErrUnauthorized
	}
	if err := validateArticleInput(input); err != nil {
		return nil, err
	}

	sportID := article.SportID
	if input.SportID != nil {
		sportID = *input.SportID
	}
	teamID := article.TeamID
	if input.TeamID != nil {
		teamID = input.TeamID
	}
	if err := s.validateRefs(ctx, sportID, teamID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"title":       input.Title,
		"description": fallback(input.Description, input.Content),
		"content":     input.Content,
		"category":    fallback(input.Category, "General"),
		"sport_id":    sportID,
		"team_id":     teamID,
	}
	if input.ImageURL != nil {
		fields["image_url"] = *input.ImageURL
	}
	if err := s.articleRepo.Update(ctx, articleID, fields); err != nil {
		return nil, err
	}
	return s.articleRepo.GetByID(ctx, articleID)
}

// Delete 硬删除文章，级联其点赞。校验顺序同 Update：存在性在前，归属在后
func (s *ArticleService) Delete(ctx context.Context, actor *model.User, articleID uint64) error {
	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return mapNotFound(err)
	}
	if !policy.CanWriteArticle(actor, article.SportID) {
		return ErrUnauthorized
	}
	if err := s.articleRepo.DeleteCascade(ctx, articleID); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"article_id": articleID, "actor_id": actor.ID}).Info("文章已删除")
	return nil
}

// ToggleLike 翻转点赞：有则取消，无则点上。文章不存在报 ErrNotFound
func (s *ArticleService) ToggleLike(ctx context.Context, actor *model.User, articleID uint64) (*LikeResult, error) {
	if _, err := s.articleRepo.GetByID(ctx, articleID); err != nil {
		return nil, mapNotFound(err)
	}
	liked, count, err := s.articleRepo.ToggleLike(ctx, articleID, actor.ID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: liked, LikesCount: count}, nil
}

// validateArticleInput 标题/正文必填，标题限长255
func validateArticleInput(input ArticleInput) error {
	fields := make(map[string]string)
	if input.Title == "" {
		fields["title"] = "标题不能为空"
	} else if len(input.Title) > 255 {
		fields["title"] = "标题长度不能超过255"
	}
	if input.Content == "" {
		fields["content"] = "正文不能为空"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// validateRefs 校验 sport/team 外键存在；球队还必须与文章同属一个运动项目
func (s *ArticleService) validateRefs(ctx context.Context, sportID uint64, teamID *uint64) error {
	if _, err := s.taxonomyRepo.GetSport(ctx, sportID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewValidationError("sport_id", fmt.Sprintf("运动项目 %d 不存在", sportID))
		}
		return err
	}
	if teamID != nil {
		team, err := s.taxonomyRepo.GetTeam(ctx, *teamID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewValidationError("team_id", fmt.Sprintf("球队 %d 不存在", *teamID))
			}
			return err
		}
		if team.SportID != sportID {
			return NewValidationError("team_id", "球队与文章不属于同一运动项目")
		}
	}
	return nil
}

// fallback 指针字段缺省回落
func fallback(v *string, def string) string {
	if v != nil && *v != "" {
		return *v
	}
	return def
}
