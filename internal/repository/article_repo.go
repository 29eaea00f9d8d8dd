package repository

import (
	"context"
	"errors"
	"fmt"

	"SportsFeed/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FeedFilter 信息流查询条件。SportIDs/TeamIDs 取并集过滤（OR），
// 两者都为空表示不过滤；AuthorID 用于“我的发布”；Keyword 用于标题搜索
type FeedFilter struct {
	SportIDs []uint64
	TeamIDs  []uint64
	AuthorID *uint64
	Keyword  string
}

// ArticleRow 文章行 + 针对查询者的点赞注解
type ArticleRow struct {
	model.NewsArticle `gorm:"embedded"`
	LikesCount        int64 `gorm:"column:likes_count"`
	IsLiked           bool  `gorm:"column:is_liked"`
}

// ArticleRepository 文章与点赞仓储
type ArticleRepository interface {
	// ListArticles 分页查询文章，按 published_at DESC, id DESC 排序，
	// 每行附带 likes_count 与 viewer 维度的 is_liked
	ListArticles(ctx context.Context, viewerID uint64, filter FeedFilter, page, pageSize int) ([]*ArticleRow, int64, error)
	// GetByID 按ID取文章，不存在返回 gorm.ErrRecordNotFound
	GetByID(ctx context.Context, id uint64) (*model.NewsArticle, error)
	// GetRowByID 按ID取文章并附带 viewer 维度的点赞注解
	GetRowByID(ctx context.Context, viewerID, id uint64) (*ArticleRow, error)
	// Create 新建文章
	Create(ctx context.Context, article *model.NewsArticle) error
	// Update 按字段集更新文章
	Update(ctx context.Context, id uint64, fields map[string]interface{}) error
	// DeleteCascade 删除文章并级联其点赞行（同一事务）
	DeleteCascade(ctx context.Context, id uint64) error
	// ToggleLike 翻转 (article, user) 点赞状态，返回新状态与最新计数。
	// 并发下重复插入撞唯一索引时按“已点赞”处理，不视为错误
	ToggleLike(ctx context.Context, articleID, userID uint64) (bool, int64, error)
	// DeleteLikesByUser 删除某用户的全部点赞（删除用户时级联调用）
	DeleteLikesByUser(tx *gorm.DB, userID uint64) error
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository 创建 ArticleRepository 实例
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

// likeAnnotations 点赞计数与 is_liked 子查询（统一走 article_likes.article_id 关联）
const likeAnnotations = "news_articles.*, " +
	"(SELECT count(*) FROM article_likes WHERE article_likes.article_id = news_articles.id) AS likes_count, " +
	"EXISTS(SELECT 1 FROM article_likes WHERE article_likes.article_id = news_articles.id AND article_likes.user_id = ?) AS is_liked"

// applyFilter 把 FeedFilter 施加到查询上
func applyFilter(q *gorm.DB, filter FeedFilter) *gorm.DB {
	// 偏好并集过滤：哪个集合非空哪个参与 OR，都为空则不过滤
	switch {
	case len(filter.SportIDs) > 0 && len(filter.TeamIDs) > 0:
		q = q.Where("news_articles.sport_id IN ? OR news_articles.team_id IN ?", filter.SportIDs, filter.TeamIDs)
	case len(filter.SportIDs) > 0:
		q = q.Where("news_articles.sport_id IN ?", filter.SportIDs)
	case len(filter.TeamIDs) > 0:
		q = q.Where("news_articles.team_id IN ?", filter.TeamIDs)
	}
	if filter.AuthorID != nil {
		q = q.Where("news_articles.author_id = ?", *filter.AuthorID)
	}
	if filter.Keyword != "" {
		q = q.Where("news_articles.title ILIKE ?", "%"+filter.Keyword+"%")
	}
	return q
}

// ListArticles 分页查询文章
func (r *articleRepository) ListArticles(ctx context.Context, viewerID uint64, filter FeedFilter, page, pageSize int) ([]*ArticleRow, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 10
	}

	base := applyFilter(r.db.WithContext(ctx).Model(&model.NewsArticle{}), filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计文章数失败: %w", err)
	}

	var rows []*ArticleRow
	if err := base.
		Select(likeAnnotations, viewerID).
		Order("news_articles.published_at DESC, news_articles.id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("查询文章列表失败: %w", err)
	}
	return rows, total, nil
}

// GetByID 按ID取文章
func (r *articleRepository) GetByID(ctx context.Context, id uint64) (*model.NewsArticle, error) {
	var article model.NewsArticle
	if err := r.db.WithContext(ctx).First(&article, id).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// GetRowByID 按ID取文章并附带点赞注解
func (r *articleRepository) GetRowByID(ctx context.Context, viewerID, id uint64) (*ArticleRow, error) {
	var row ArticleRow
	if err := r.db.WithContext(ctx).
		Model(&model.NewsArticle{}).
		Select(likeAnnotations, viewerID).
		Where("news_articles.id = ?", id).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Create 新建文章
func (r *articleRepository) Create(ctx context.Context, article *model.NewsArticle) error {
	if err := r.db.WithContext(ctx).Create(article).Error; err != nil {
		return fmt.Errorf("保存文章失败: %w", err)
	}
	return nil
}

// Update 按字段集更新文章
func (r *articleRepository) Update(ctx context.Context, id uint64, fields map[string]interface{}) error {
	if err := r.db.WithContext(ctx).
		Model(&model.NewsArticle{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return fmt.Errorf("更新文章失败: %w", err)
	}
	return nil
}

// DeleteCascade 事务内先删点赞再删文章，避免悬挂外键
func (r *articleRepository) DeleteCascade(ctx context.Context, id uint64) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("开启事务失败: %w", tx.Error)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("article_id = ?", id).Delete(&model.ArticleLike{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("级联删除点赞失败: %w", err)
	}
	if err := tx.Delete(&model.NewsArticle{}, id).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("删除文章失败: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}

// ToggleLike 翻转点赞状态
func (r *articleRepository) ToggleLike(ctx context.Context, articleID, userID uint64) (bool, int64, error) {
	db := r.db.WithContext(ctx)

	var existing model.ArticleLike
	err := db.Where("article_id = ? AND user_id = ?", articleID, userID).First(&existing).Error
	liked := false
	switch {
	case err == nil:
		// 已点赞 -> 取消
		if err := db.Delete(&model.ArticleLike{}, existing.ID).Error; err != nil {
			return false, 0, fmt.Errorf("取消点赞失败: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// 未点赞 -> 点赞。并发下另一请求先插入时冲突容忍，结果同样是“已点赞”
		if err := insertLike(db, articleID, userID); err != nil {
			return false, 0, err
		}
		liked = true
	default:
		return false, 0, fmt.Errorf("查询点赞状态失败: %w", err)
	}

	var count int64
	if err := db.Model(&model.ArticleLike{}).
		Where("article_id = ?", articleID).
		Count(&count).Error; err != nil {
		return false, 0, fmt.Errorf("统计点赞数失败: %w", err)
	}
	return liked, count, nil
}

// insertLike 冲突容忍的点赞插入：撞上 uk_article_user 唯一索引时跳过，
// 已存在的 (article, user) 行按“已点赞”处理而非报错
func insertLike(db *gorm.DB, articleID, userID uint64) error {
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.ArticleLike{ArticleID: articleID, UserID: userID}).Error; err != nil {
		return fmt.Errorf("点赞失败: %w", err)
	}
	return nil
}

// DeleteLikesByUser 删除某用户的全部点赞
func (r *articleRepository) DeleteLikesByUser(tx *gorm.DB, userID uint64) error {
	if err := tx.Where("user_id = ?", userID).Delete(&model.ArticleLike{}).Error; err != nil {
		return fmt.Errorf("级联删除用户点赞失败: %w", err)
	}
	return nil
}
