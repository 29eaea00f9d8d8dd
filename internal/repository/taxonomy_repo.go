package repository

import (
	"context"
	"fmt"

	"SportsFeed/internal/model"

	"gorm.io/gorm"
)

// TaxonomyRepository 运动项目/联赛/球队/球员 参照数据仓储
type TaxonomyRepository interface {
	// ListSports 全部运动项目
	ListSports(ctx context.Context) ([]*model.Sport, error)
	// GetSport 按ID取运动项目，不存在返回 gorm.ErrRecordNotFound
	GetSport(ctx context.Context, id uint64) (*model.Sport, error)
	// GetLeague 按ID取联赛
	GetLeague(ctx context.Context, id uint64) (*model.League, error)
	// GetTeam 按ID取球队
	GetTeam(ctx context.Context, id uint64) (*model.Team, error)
	// ListLeaguesBySport 某运动项目下的联赛
	ListLeaguesBySport(ctx context.Context, sportID uint64) ([]*model.League, error)
	// ListTeamsByLeague 某联赛下的球队
	ListTeamsByLeague(ctx context.Context, leagueID uint64) ([]*model.Team, error)
	// ListPlayersByTeam 某球队下的球员
	ListPlayersByTeam(ctx context.Context, teamID uint64) ([]*model.Player, error)
	// GetSportsByIDs 批量取运动项目（信息流组装摘要用）
	GetSportsByIDs(ctx context.Context, ids []uint64) (map[uint64]*model.Sport, error)
	// GetLeaguesByIDs 批量取联赛（赛程组装摘要用）
	GetLeaguesByIDs(ctx context.Context, ids []uint64) (map[uint64]*model.League, error)
	// GetTeamsByIDs 批量取球队
	GetTeamsByIDs(ctx context.Context, ids []uint64) (map[uint64]*model.Team, error)
	// CreateTeam 新建球队；关联联赛时须与联赛同属一个运动项目（调用方已校验）
	CreateTeam(ctx context.Context, team *model.Team) error
	// DeleteTeamCascade 删除球队并级联其偏好行
	DeleteTeamCascade(ctx context.Context, id uint64) error
}

type taxonomyRepository struct {
	db    *gorm.DB
	prefs PreferenceRepository
}

// NewTaxonomyRepository 创建 TaxonomyRepository 实例
func NewTaxonomyRepository(db *gorm.DB) TaxonomyRepository {
	return &taxonomyRepository{db: db, prefs: NewPreferenceRepository(db)}
}

// ListSports 全部运动项目，按ID升序
func (r *taxonomyRepository) ListSports(ctx context.Context) ([]*model.Sport, error) {
	var sports []*model.Sport
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&sports).Error; err != nil {
		return nil, fmt.Errorf("查询运动项目列表失败: %w", err)
	}
	return sports, nil
}

// GetSport 按ID取运动项目
func (r *taxonomyRepository) GetSport(ctx context.Context, id uint64) (*model.Sport, error) {
	var sport model.Sport
	if err := r.db.WithContext(ctx).First(&sport, id).Error; err != nil {
		return nil, err
	}
	return &sport, nil
}

// GetLeague 按ID取联赛
func (r *taxonomyRepository) GetLeague(ctx context.Context, id uint64) (*model.League, error) {
	var league model.League
	if err := r.db.WithContext(ctx).First(&league, id).Error; err != nil {
		return nil, err
	}
	return &league, nil
}

// GetTeam 按ID取球队
func (r *taxonomyRepository) GetTeam(ctx context.Context, id uint64) (*model.Team, error) {
	var team model.Team
	if err := r.db.WithContext(ctx).First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// ListLeaguesBySport 某运动项目下的联赛
func (r *taxonomyRepository) ListLeaguesBySport(ctx context.Context, sportID uint64) ([]*model.League, error) {
	var leagues []*model.League
	if err := r.db.WithContext(ctx).
		Where("sport_id = ?", sportID).
		Order("id ASC").
		Find(&leagues).Error; err != nil {
		return nil, fmt.Errorf("查询联赛列表失败: %w", err)
	}
	return leagues, nil
}

// ListTeamsByLeague 某联赛下的球队
func (r *taxonomyRepository) ListTeamsByLeague(ctx context.Context, leagueID uint64) ([]*model.Team, error) {
	var teams []*model.Team
	if err := r.db.WithContext(ctx).
		Where("league_id = ?", leagueID).
		Order("id ASC").
		Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("查询球队列表失败: %w", err)
	}
	return teams, nil
}

// ListPlayersByTeam 某球队下的球员
func (r *taxonomyRepository) ListPlayersByTeam(ctx context.Context, teamID uint64) ([]*model.Player, error) {
	var players []*model.Player
	if err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("id ASC").
		Find(&players).Error; err != nil {
		return nil, fmt.Errorf("查询球员列表失败: %w", err)
	}
	return players, nil
}

// GetSportsByIDs 批量取运动项目，返回 id -> 实体 映射
func (r *taxonomyRepository) GetSportsByIDs(ctx context.Context, ids []uint64) (map[uint64]*model.Sport, error) {
	result := make(map[uint64]*model.Sport, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var sports []*model.Sport
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&sports).Error; err != nil {
		return nil, fmt.Errorf("批量查询运动项目失败: %w", err)
	}
	for _, s := range sports {
		result[s.ID] = s
	}
	return result, nil
}

// GetLeaguesByIDs 批量取联赛，返回 id -> 实体 映射
func (r *taxonomyRepository) GetLeaguesByIDs(ctx context.Context, ids []uint64) (map[uint64]*model.League, error) {
	result := make(map[uint64]*model.League, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var leagues []*model.League
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&leagues).Error; err != nil {
		return nil, fmt.Errorf("批量查询联赛失败: %w", err)
	}
	for _, l := range leagues {
		result[l.ID] = l
	}
	return result, nil
}

// GetTeamsByIDs 批量取球队，返回 id -> 实体 映射
func (r *taxonomyRepository) GetTeamsByIDs(ctx context.Context, ids []uint64) (map[uint64]*model.Team, error) {
	result := make(map[uint64]*model.Team, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var teams []*model.Team
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("批量查询球队失败: %w", err)
	}
	for _, t := range teams {
		result[t.ID] = t
	}
	return result, nil
}

// CreateTeam 新建球队
func (r *taxonomyRepository) CreateTeam(ctx context.Context, team *model.Team) error {
	if err := r.db.WithContext(ctx).Create(team).Error; err != nil {
		return fmt.Errorf("保存球队失败: %w", err)
	}
	return nil
}

// DeleteTeamCascade 事务内删除球队及指向它的偏好行
func (r *taxonomyRepository) DeleteTeamCascade(ctx context.Context, id uint64) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("开启事务失败: %w", tx.Error)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
		}
	}()

	if err := r.prefs.DeleteAllForEntity(tx, KindTeams, id); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&model.Team{}, id).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("删除球队失败: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}
