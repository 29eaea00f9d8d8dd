package service

import (
	"context"

	"SportsFeed/internal/model"
	"SportsFeed/internal/repository"

	"github.com/sirupsen/logrus"
)

// FeedService 组装个性化新闻信息流
type FeedService struct {
	articleRepo  repository.ArticleRepository
	prefRepo     repository.PreferenceRepository
	taxonomyRepo repository.TaxonomyRepository
	userRepo     repository.UserRepository
	logger       *logrus.Logger
	pageSize     int
}

// NewFeedService 创建 FeedService。pageSize<=0 时用默认值10
func NewFeedService(articleRepo repository.ArticleRepository, prefRepo repository.PreferenceRepository, taxonomyRepo repository.TaxonomyRepository, userRepo repository.UserRepository, logger *logrus.Logger, pageSize int) *FeedService {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &FeedService{
		articleRepo:  articleRepo,
		prefRepo:     prefRepo,
		taxonomyRepo: taxonomyRepo,
		userRepo:     userRepo,
		logger:       logger,
		pageSize:     pageSize,
	}
}

// FeedResult 信息流分页返回
type FeedResult struct {
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
	Total    int64               `json:"total"`
	Items    []model.ArticleView `json:"items"`
}

// ComposeFeed 组装查询者的个性化信息流。
// 过滤规则：偏好运动项目集合 S 与偏好球队集合 T 取并（sport_id∈S OR team_id∈T）；
// 两个集合都为空时不过滤（看全部）。超出范围的页码返回空页而非报错
func (s *FeedService) ComposeFeed(ctx context.Context, viewer *model.User, page int) (*FeedResult, error) {
	sportIDs, err := s.prefRepo.SportIDs(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	teamIDs, err := s.prefRepo.TeamIDs(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}

	filter := repository.FeedFilter{SportIDs: sportIDs, TeamIDs: teamIDs}
	return s.list(ctx, viewer.ID, filter, page)
}

// ComposeAuthorFeed 管理员“我的发布”视图：只看自己发的文章，不做偏好过滤，
// 点赞注解仍以请求者本人为准
func (s *FeedService) ComposeAuthorFeed(ctx context.Context, author *model.User, page int) (*FeedResult, error) {
	filter := repository.FeedFilter{AuthorID: &author.ID}
	return s.list(ctx, author.ID, filter, page)
}

// Search 标题关键词搜索（不区分大小写的子串匹配），不做偏好过滤。
// 关键词为空返回空结果而非全部文章
func (s *FeedService) Search(ctx context.Context, viewer *model.User, keyword string, page int) (*FeedResult, error) {
	if keyword == "" {
		return &FeedResult{Page: page, PageSize: s.pageSize, Total: 0, Items: []model.ArticleView{}}, nil
	}
	filter := repository.FeedFilter{Keyword: keyword}
	return s.list(ctx, viewer.ID, filter, page)
}

// GetArticle 单篇文章视图（点赞注解以查询者为准）。不存在返回 ErrNotFound
func (s *FeedService) GetArticle(ctx context.Context, viewer *model.User, articleID uint64) (*model.ArticleView, error) {
	row, err := s.articleRepo.GetRowByID(ctx, viewer.ID, articleID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	views, err := s.assembleViews(ctx, []*repository.ArticleRow{row})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// list 执行查询并组装视图
func (s *FeedService) list(ctx context.Context, viewerID uint64, filter repository.FeedFilter, page int) (*FeedResult, error) {
	if page <= 0 {
		page = 1
	}
	rows, total, err := s.articleRepo.ListArticles(ctx, viewerID, filter, page, s.pageSize)
	if err != nil {
		return nil, err
	}
	items, err := s.assembleViews(ctx, rows)
	if err != nil {
		return nil, err
	}
	return &FeedResult{
		Page:     page,
		PageSize: s.pageSize,
		Total:    total,
		Items:    items,
	}, nil
}

// assembleViews 批量加载作者/项目/球队摘要并拼装响应条目。
// 每次读取显式声明需要的关联，不做隐式懒加载
func (s *FeedService) assembleViews(ctx context.Context, rows []*repository.ArticleRow) ([]model.ArticleView, error) {
	items := make([]model.ArticleView, 0, len(rows))
	if len(rows) == 0 {
		return items, nil
	}

	authorIDs := make([]uint64, 0, len(rows))
	sportIDs := make([]uint64, 0, len(rows))
	var teamIDs []uint64
	for _, row := range rows {
		authorIDs = append(authorIDs, row.AuthorID)
		sportIDs = append(sportIDs, row.SportID)
		if row.TeamID != nil {
			teamIDs = append(teamIDs, *row.TeamID)
		}
	}

	authors, err := s.userRepo.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	sports, err := s.taxonomyRepo.GetSportsByIDs(ctx, sportIDs)
	if err != nil {
		return nil, err
	}
	teams, err := s.taxonomyRepo.GetTeamsByIDs(ctx, teamIDs)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		view := model.ArticleView{
			ID:          row.ID,
			Title:       row.Title,
			Description: row.Description,
			Content:     row.Content,
			ImageURL:    row.ImageURL,
			Category:    row.Category,
			PublishedAt: row.PublishedAt,
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
			LikesCount:  row.LikesCount,
			IsLiked:     row.IsLiked,
		}
		if author, ok := authors[row.AuthorID]; ok {
			view.Author = model.AuthorSummary{ID: author.ID, Name: author.Name, Email: author.Email, Role: author.Role}
		} else {
			// 作者已被删除时保底只带ID
			view.Author = model.AuthorSummary{ID: row.AuthorID}
		}
		if sport, ok := sports[row.SportID]; ok {
			view.Sport = model.NewSportSummary(sport)
		} else {
			view.Sport = model.SportSummary{ID: row.SportID}
		}
		if row.TeamID != nil {
			if team, ok := teams[*row.TeamID]; ok {
				view.Team = model.NewTeamSummary(team)
			}
		}
		items = append(items, view)
	}
	return items, nil
}
