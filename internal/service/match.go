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

// 赛程状态枚举
const (
	MatchScheduled = "scheduled"
	MatchLive      = "live"
	MatchFinished  = "finished"
)

var matchStatuses = map[string]struct{}{
	MatchScheduled: {}, MatchLive: {}, MatchFinished: {},
}

// MatchService 赛程的发布/更新/删除与浏览。
// 写操作按运动项目范围授权，规则与文章一致；浏览对外公开
type MatchService struct {
	matchRepo    repository.MatchRepository
	taxonomyRepo repository.TaxonomyRepository
	logger       *logrus.Logger
}

// NewMatchService 创建 MatchService
func NewMatchService(matchRepo repository.MatchRepository, taxonomyRepo repository.TaxonomyRepository, logger *logrus.Logger) *MatchService {
	return &MatchService{
		matchRepo:    matchRepo,
		taxonomyRepo: taxonomyRepo,
		logger:       logger,
	}
}

// MatchInput 创建/更新赛程的输入。指针字段区分“未提供”与“显式清空”，
// 更新时未提供的字段保持原值
type MatchInput struct {
	HomeTeamID *uint64    `json:"home_team_id"`
	AwayTeamID *uint64    `json:"away_team_id"`
	LeagueID   *uint64    `json:"league_id"`
	SportID    *uint64    `json:"sport_id"`
	MatchTime  *time.Time `json:"match_time"`
	Status     *string    `json:"status"`
	HomeScore  *int       `json:"home_score"`
	AwayScore  *int       `json:"away_score"`
	LiveMinute *string    `json:"live_minute"`
}

// List 全部赛程视图，按开赛时间倒序
func (s *MatchService) List(ctx context.Context) ([]model.MatchView, error) {
	matches, err := s.matchRepo.ListMatches(ctx)
	if err != nil {
		return nil, err
	}
	return s.assembleViews(ctx, matches)
}

// Create 发布赛程。主客队/联赛/项目/开赛时间/状态全部必填，比分与进行分钟可空
func (s *MatchService) Create(ctx context.Context, actor *model.User, input MatchInput) (*model.MatchView, error) {
	fields := make(map[string]string)
	if input.HomeTeamID == nil {
		fields["home_team_id"] = "主队不能为空"
	}
	if input.AwayTeamID == nil {
		fields["away_team_id"] = "客队不能为空"
	}
	if input.LeagueID == nil {
		fields["league_id"] = "联赛不能为空"
	}
	if input.SportID == nil {
		fields["sport_id"] = "运动项目不能为空"
	}
	if input.MatchTime == nil {
		fields["match_time"] = "开赛时间不能为空"
	}
	if input.Status == nil {
		fields["status"] = "状态不能为空"
	} else if _, ok := matchStatuses[*input.Status]; !ok {
		fields["status"] = "状态必须是 scheduled/live/finished 之一"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if !policy.CanWriteMatch(actor, *input.SportID) {
		return nil, ErrUnauthorized
	}
	if err := s.validateRefs(ctx, *input.SportID, *input.LeagueID, *input.HomeTeamID, *input.AwayTeamID); err != nil {
		return nil, err
	}

	match := &model.Match{
		HomeTeamID: *input.HomeTeamID,
		AwayTeamID: *input.AwayTeamID,
		LeagueID:   *input.LeagueID,
		SportID:    *input.SportID,
		MatchTime:  *input.MatchTime,
		Status:     *input.Status,
		HomeScore:  input.HomeScore,
		AwayScore:  input.AwayScore,
		LiveMinute: input.LiveMinute,
	}
	if err := s.matchRepo.Create(ctx, match); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"match_id": match.ID, "sport_id": match.SportID, "actor_id": actor.ID}).Info("赛程已发布")
	return s.getView(ctx, match.ID)
}

// Update 更新赛程（状态流转、比分、改期）。先查存在性（404优先），再做归属校验（403）；
// 未提供的字段保持原值
func (s *MatchService) Update(ctx context.Context, actor *model.User, matchID uint64, input MatchInput) (*model.MatchView, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if !policy.CanWriteMatch(actor, match.SportID) {
		return nil, ErrUnauthorized
	}

	if input.Status != nil {
		if _, ok := matchStatuses[*input.Status]; !ok {
			return nil, NewValidationError("status", "状态必须是 scheduled/live/finished 之一")
		}
	}

	sportID := match.SportID
	if input.SportID != nil {
		sportID = *input.SportID
	}
	leagueID := match.LeagueID
	if input.LeagueID != nil {
		leagueID = *input.LeagueID
	}
	homeTeamID := match.HomeTeamID
	if input.HomeTeamID != nil {
		homeTeamID = *input.HomeTeamID
	}
	awayTeamID := match.AwayTeamID
	if input.AwayTeamID != nil {
		awayTeamID = *input.AwayTeamID
	}
	if err := s.validateRefs(ctx, sportID, leagueID, homeTeamID, awayTeamID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"home_team_id": homeTeamID,
		"away_team_id": awayTeamID,
		"league_id":    leagueID,
		"sport_id":     sportID,
	}
	if input.MatchTime != nil {
		fields["match_time"] = *input.MatchTime
	}
	if input.Status != nil {
		fields["status"] = *input.Status
	}
	if input.HomeScore != nil {
		fields["home_score"] = *input.HomeScore
	}
	if input.AwayScore != nil {
		fields["away_score"] = *input.AwayScore
	}
	if input.LiveMinute != nil {
		fields["live_minute"] = *input.LiveMinute
	}
	if err := s.matchRepo.Update(ctx, matchID, fields); err != nil {
		return nil, err
	}
	return s.getView(ctx, matchID)
}

// Delete 删除赛程。校验顺序同 Update：存在性在前，归属在后
func (s *MatchService) Delete(ctx context.Context, actor *model.User, matchID uint64) error {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return mapNotFound(err)
	}
	if !policy.CanWriteMatch(actor, match.SportID) {
		return ErrUnauthorized
	}
	if err := s.matchRepo.Delete(ctx, matchID); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"match_id": matchID, "actor_id": actor.ID}).Info("赛程已删除")
	return nil
}

// validateRefs 校验项目/联赛/主客队外键存在
func (s *MatchService) validateRefs(ctx context.Context, sportID, leagueID, homeTeamID, awayTeamID uint64) error {
	fields := make(map[string]string)
	if _, err := s.taxonomyRepo.GetSport(ctx, sportID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		fields["sport_id"] = fmt.Sprintf("运动项目 %d 不存在", sportID)
	}
	if _, err := s.taxonomyRepo.GetLeague(ctx, leagueID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		fields["league_id"] = fmt.Sprintf("联赛 %d 不存在", leagueID)
	}
	if _, err := s.taxonomyRepo.GetTeam(ctx, homeTeamID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		fields["home_team_id"] = fmt.Sprintf("球队 %d 不存在", homeTeamID)
	}
	if _, err := s.taxonomyRepo.GetTeam(ctx, awayTeamID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		fields["away_team_id"] = fmt.Sprintf("球队 %d 不存在", awayTeamID)
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// getView 取单条赛程视图
func (s *MatchService) getView(ctx context.Context, matchID uint64) (*model.MatchView, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	views, err := s.assembleViews(ctx, []*model.Match{match})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// assembleViews 批量加载主客队/联赛/项目摘要并拼装赛程条目
func (s *MatchService) assembleViews(ctx context.Context, matches []*model.Match) ([]model.MatchView, error) {
	items := make([]model.MatchView, 0, len(matches))
	if len(matches) == 0 {
		return items, nil
	}

	teamIDs := make([]uint64, 0, len(matches)*2)
	leagueIDs := make([]uint64, 0, len(matches))
	sportIDs := make([]uint64, 0, len(matches))
	for _, m := range matches {
		teamIDs = append(teamIDs, m.HomeTeamID, m.AwayTeamID)
		leagueIDs = append(leagueIDs, m.LeagueID)
		sportIDs = append(sportIDs, m.SportID)
	}

	teams, err := s.taxonomyRepo.GetTeamsByIDs(ctx, teamIDs)
	if err != nil {
		return nil, err
	}
	leagues, err := s.taxonomyRepo.GetLeaguesByIDs(ctx, leagueIDs)
	if err != nil {
		return nil, err
	}
	sports, err := s.taxonomyRepo.GetSportsByIDs(ctx, sportIDs)
	if err != nil {
		return nil, err
	}

	for _, m := range matches {
		view := model.MatchView{
			ID:         m.ID,
			MatchTime:  m.MatchTime,
			Status:     m.Status,
			HomeScore:  m.HomeScore,
			AwayScore:  m.AwayScore,
			LiveMinute: m.LiveMinute,
		}
		if team, ok := teams[m.HomeTeamID]; ok {
			view.HomeTeam = *model.NewTeamSummary(team)
		} else {
			view.HomeTeam = model.TeamSummary{ID: m.HomeTeamID}
		}
		if team, ok := teams[m.AwayTeamID]; ok {
			view.AwayTeam = *model.NewTeamSummary(team)
		} else {
			view.AwayTeam = model.TeamSummary{ID: m.AwayTeamID}
		}
		if league, ok := leagues[m.LeagueID]; ok {
			view.League = model.NewLeagueSummary(league)
		} else {
			view.League = model.LeagueSummary{ID: m.LeagueID}
		}
		if sport, ok := sports[m.SportID]; ok {
			view.Sport = model.NewSportSummary(sport)
		} else {
			view.Sport = model.SportSummary{ID: m.SportID}
		}
		items = append(items, view)
	}
	return items, nil
}
