package service

import (
	"context"

	"SportsFeed/internal/model"
	"SportsFeed/internal/repository"

	"github.com/sirupsen/logrus"
)

// TaxonomyService 参照数据（项目/联赛/球队/球员）的公开浏览
type TaxonomyService struct {
	taxonomyRepo repository.TaxonomyRepository
	logger       *logrus.Logger
}

// NewTaxonomyService 创建 TaxonomyService
func NewTaxonomyService(taxonomyRepo repository.TaxonomyRepository, logger *logrus.Logger) *TaxonomyService {
	return &TaxonomyService{taxonomyRepo: taxonomyRepo, logger: logger}
}

// ListSports 全部运动项目（完整视图）
func (s *TaxonomyService) ListSports(ctx context.Context) ([]model.SportView, error) {
	sports, err := s.taxonomyRepo.ListSports(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]model.SportView, 0, len(sports))
	for _, sport := range sports {
		views = append(views, model.NewSportView(sport))
	}
	return views, nil
}

// ListLeagues 某运动项目下的联赛。项目不存在报 ErrNotFound
func (s *TaxonomyService) ListLeagues(ctx context.Context, sportID uint64) ([]*model.League, error) {
	if _, err := s.taxonomyRepo.GetSport(ctx, sportID); err != nil {
		return nil, mapNotFound(err)
	}
	return s.taxonomyRepo.ListLeaguesBySport(ctx, sportID)
}

// ListTeams 某联赛下的球队。联赛不存在报 ErrNotFound
func (s *TaxonomyService) ListTeams(ctx context.Context, leagueID uint64) ([]*model.Team, error) {
	if _, err := s.taxonomyRepo.GetLeague(ctx, leagueID); err != nil {
		return nil, mapNotFound(err)
	}
	return s.taxonomyRepo.ListTeamsByLeague(ctx, leagueID)
}

// ListPlayers 某球队下的球员。球队不存在报 ErrNotFound
func (s *TaxonomyService) ListPlayers(ctx context.Context, teamID uint64) ([]*model.Player, error) {
	if _, err := s.taxonomyRepo.GetTeam(ctx, teamID); err != nil {
		return nil, mapNotFound(err)
	}
	return s.taxonomyRepo.ListPlayersByTeam(ctx, teamID)
}

// CreateTeam 新建球队。关联联赛时校验球队与联赛同属一个运动项目
// （冗余的 sport_id 在写入时保持一致）
func (s *TaxonomyService) CreateTeam(ctx context.Context, team *model.Team) error {
	if team.LeagueID != nil {
		league, err := s.taxonomyRepo.GetLeague(ctx, *team.LeagueID)
		if err != nil {
			return mapNotFound(err)
		}
		if league.SportID != team.SportID {
			return NewValidationError("sport_id", "球队与所属联赛不属于同一运动项目")
		}
	}
	return s.taxonomyRepo.CreateTeam(ctx, team)
}

// DeleteTeam 删除球队并级联指向它的偏好行
func (s *TaxonomyService) DeleteTeam(ctx context.Context, teamID uint64) error {
	if _, err := s.taxonomyRepo.GetTeam(ctx, teamID); err != nil {
		return mapNotFound(err)
	}
	return s.taxonomyRepo.DeleteTeamCascade(ctx, teamID)
}
