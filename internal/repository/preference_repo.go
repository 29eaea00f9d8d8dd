package repository

import (
	"context"
	"fmt"

	"SportsFeed/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceKind 偏好种类：sports/leagues/teams/players 四类互相独立
type PreferenceKind string

const (
	KindSports  PreferenceKind = "sports"
	KindLeagues PreferenceKind = "leagues"
	KindTeams   PreferenceKind = "teams"
	KindPlayers PreferenceKind = "players"
)

// kindSpec 每类偏好对应的关联表与实体表元信息
type kindSpec struct {
	joinTable   string // 关联表名
	entityCol   string // 关联表中实体外键列名
	entityTable string // 实体表名
	field       string // 校验错误里使用的字段名
}

var kindSpecs = map[PreferenceKind]kindSpec{
	KindSports:  {joinTable: "user_sports", entityCol: "sport_id", entityTable: "sports", field: "sport_ids"},
	KindLeagues: {joinTable: "user_leagues", entityCol: "league_id", entityTable: "leagues", field: "league_ids"},
	KindTeams:   {joinTable: "user_teams", entityCol: "team_id", entityTable: "teams", field: "team_ids"},
	KindPlayers: {joinTable: "user_players", entityCol: "player_id", entityTable: "players", field: "player_ids"},
}

// ParsePreferenceKind 解析路径参数中的偏好种类
func ParsePreferenceKind(s string) (PreferenceKind, bool) {
	k := PreferenceKind(s)
	_, ok := kindSpecs[k]
	return k, ok
}

// kindRow 构造某类偏好的一行关联记录
func kindRow(kind PreferenceKind, userID, entityID uint64) interface{} {
	switch kind {
	case KindSports:
		return &model.UserSport{UserID: userID, SportID: entityID}
	case KindLeagues:
		return &model.UserLeague{UserID: userID, LeagueID: entityID}
	case KindTeams:
		return &model.UserTeam{UserID: userID, TeamID: entityID}
	default:
		return &model.UserPlayer{UserID: userID, PlayerID: entityID}
	}
}

// kindModel 返回某类偏好关联表的空模型（Delete 用）
func kindModel(kind PreferenceKind) interface{} {
	switch kind {
	case KindSports:
		return &model.UserSport{}
	case KindLeagues:
		return &model.UserLeague{}
	case KindTeams:
		return &model.UserTeam{}
	default:
		return &model.UserPlayer{}
	}
}

// FieldName 该种类在请求体/校验错误中的字段名（如 team_ids）
func (k PreferenceKind) FieldName() string { return kindSpecs[k].field }

// PreferenceRepository 四张偏好关联表的仓储
type PreferenceRepository interface {
	// MissingIDs 返回 ids 中在对应实体表不存在的部分（校验用，读不加锁）
	MissingIDs(ctx context.Context, kind PreferenceKind, ids []uint64) ([]uint64, error)
	// SyncAll 在一个事务内对提供的各 kind 做整组替换；未提供的 kind 不动
	SyncAll(ctx context.Context, userID uint64, sets map[PreferenceKind][]uint64) error
	// Attach 追加一条偏好，已存在则静默成功
	Attach(ctx context.Context, userID uint64, kind PreferenceKind, entityID uint64) error
	// Detach 移除一条偏好，不存在则静默成功
	Detach(ctx context.Context, userID uint64, kind PreferenceKind, entityID uint64) error
	// ListSports 用户关注的运动项目
	ListSports(ctx context.Context, userID uint64) ([]*model.Sport, error)
	// ListLeagues 用户关注的联赛
	ListLeagues(ctx context.Context, userID uint64) ([]*model.League, error)
	// ListTeams 用户关注的球队
	ListTeams(ctx context.Context, userID uint64) ([]*model.Team, error)
	// ListPlayers 用户关注的球员
	ListPlayers(ctx context.Context, userID uint64) ([]*model.Player, error)
	// SportIDs 用户关注的运动项目ID集合（信息流过滤用）
	SportIDs(ctx context.Context, userID uint64) ([]uint64, error)
	// TeamIDs 用户关注的球队ID集合（信息流过滤用）
	TeamIDs(ctx context.Context, userID uint64) ([]uint64, error)
	// DeleteAllForUser 删除某用户的全部偏好行（删除用户时级联调用，须传调用方事务）
	DeleteAllForUser(tx *gorm.DB, userID uint64) error
	// DeleteAllForEntity 删除指向某实体的全部偏好行（删除实体时级联调用）
	DeleteAllForEntity(tx *gorm.DB, kind PreferenceKind, entityID uint64) error
}

type preferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository 创建 PreferenceRepository 实例
func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

// MissingIDs 返回 ids 中在实体表查不到的部分
func (r *preferenceRepository) MissingIDs(ctx context.Context, kind PreferenceKind, ids []uint64) ([]uint64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	spec := kindSpecs[kind]
	var found []uint64
	if err := r.db.WithContext(ctx).
		Table(spec.entityTable).
		Where("id IN ?", ids).
		Pluck("id", &found).Error; err != nil {
		return nil, fmt.Errorf("校验%s失败: %w", spec.entityTable, err)
	}
	foundSet := make(map[uint64]struct{}, len(found))
	for _, id := range found {
		foundSet[id] = struct{}{}
	}
	var missing []uint64
	for _, id := range ids {
		if _, ok := foundSet[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// SyncAll 一个事务内对每个提供的 kind 做整组替换（删除不在新集合中的行，补插缺少的行）。
// 已在集合中的行保持原样，保证同步幂等且与顺序无关
func (r *preferenceRepository) SyncAll(ctx context.Context, userID uint64, sets map[PreferenceKind][]uint64) error {
	if len(sets) == 0 {
		return nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("开启事务失败: %w", tx.Error)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
		}
	}()

	for kind, ids := range sets {
		if err := syncKind(tx, userID, kind, ids); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}

// syncKind 单类偏好的整组替换，必须在事务内调用
func syncKind(tx *gorm.DB, userID uint64, kind PreferenceKind, ids []uint64) error {
	spec := kindSpecs[kind]

	// 1. 删除不在新集合中的行（空集合则清空整组）
	del := tx.Where("user_id = ?", userID)
	if len(ids) > 0 {
		del = del.Where(spec.entityCol+" NOT IN ?", ids)
	}
	if err := del.Delete(kindModel(kind)).Error; err != nil {
		return fmt.Errorf("替换%s偏好失败: %w", spec.joinTable, err)
	}

	// 2. 补插缺少的行，靠唯一索引跳过已存在的
	for _, id := range ids {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(kindRow(kind, userID, id)).Error; err != nil {
			return fmt.Errorf("写入%s偏好失败: %w", spec.joinTable, err)
		}
	}
	return nil
}

// Attach 追加偏好，冲突（已存在）不视为错误
func (r *preferenceRepository) Attach(ctx context.Context, userID uint64, kind PreferenceKind, entityID uint64) error {
	spec := kindSpecs[kind]
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(kindRow(kind, userID, entityID)).Error; err != nil {
		return fmt.Errorf("追加%s偏好失败: %w", spec.joinTable, err)
	}
	return nil
}

// Detach 移除偏好，行不存在也算成功
func (r *preferenceRepository) Detach(ctx context.Context, userID uint64, kind PreferenceKind, entityID uint64) error {
	spec := kindSpecs[kind]
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND "+spec.entityCol+" = ?", userID, entityID).
		Delete(kindModel(kind)).Error; err != nil {
		return fmt.Errorf("移除%s偏好失败: %w", spec.joinTable, err)
	}
	return nil
}

// ListSports 用户关注的运动项目记录
func (r *preferenceRepository) ListSports(ctx context.Context, userID uint64) ([]*model.Sport, error) {
	var sports []*model.Sport
	if err := r.db.WithContext(ctx).
		Joins("JOIN user_sports ON user_sports.sport_id = sports.id").
		Where("user_sports.user_id = ?", userID).
		Find(&sports).Error; err != nil {
		return nil, fmt.Errorf("查询关注的运动项目失败: %w", err)
	}
	return sports, nil
}

// ListLeagues 用户关注的联赛记录
func (r *preferenceRepository) ListLeagues(ctx context.Context, userID uint64) ([]*model.League, error) {
	var leagues []*model.League
	if err := r.db.WithContext(ctx).
		Joins("JOIN user_leagues ON user_leagues.league_id = leagues.id").
		Where("user_leagues.user_id = ?", userID).
		Find(&leagues).Error; err != nil {
		return nil, fmt.Errorf("查询关注的联赛失败: %w", err)
	}
	return leagues, nil
}

// ListTeams 用户关注的球队记录
func (r *preferenceRepository) ListTeams(ctx context.Context, userID uint64) ([]*model.Team, error) {
	var teams []*model.Team
	if err := r.db.WithContext(ctx).
		Joins("JOIN user_teams ON user_teams.team_id = teams.id").
		Where("user_teams.user_id = ?", userID).
		Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("查询关注的球队失败: %w", err)
	}
	return teams, nil
}

// ListPlayers 用户关注的球员记录
func (r *preferenceRepository) ListPlayers(ctx context.Context, userID uint64) ([]*model.Player, error) {
	var players []*model.Player
	if err := r.db.WithContext(ctx).
		Joins("JOIN user_players ON user_players.player_id = players.id").
		Where("user_players.user_id = ?", userID).
		Find(&players).Error; err != nil {
		return nil, fmt.Errorf("查询关注的球员失败: %w", err)
	}
	return players, nil
}

// SportIDs 用户关注的运动项目ID集合
func (r *preferenceRepository) SportIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	if err := r.db.WithContext(ctx).
		Table("user_sports").
		Where("user_id = ?", userID).
		Pluck("sport_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("查询运动项目偏好ID失败: %w", err)
	}
	return ids, nil
}

// TeamIDs 用户关注的球队ID集合
func (r *preferenceRepository) TeamIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	if err := r.db.WithContext(ctx).
		Table("user_teams").
		Where("user_id = ?", userID).
		Pluck("team_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("查询球队偏好ID失败: %w", err)
	}
	return ids, nil
}

// DeleteAllForUser 删除用户的全部偏好行（四表），由删除用户的事务调用
func (r *preferenceRepository) DeleteAllForUser(tx *gorm.DB, userID uint64) error {
	for _, kind := range []PreferenceKind{KindSports, KindLeagues, KindTeams, KindPlayers} {
		if err := tx.Where("user_id = ?", userID).Delete(kindModel(kind)).Error; err != nil {
			return fmt.Errorf("级联删除%s失败: %w", kindSpecs[kind].joinTable, err)
		}
	}
	return nil
}

// DeleteAllForEntity 删除指向某实体的偏好行，由删除实体的事务调用
func (r *preferenceRepository) DeleteAllForEntity(tx *gorm.DB, kind PreferenceKind, entityID uint64) error {
	spec := kindSpecs[kind]
	if err := tx.Where(spec.entityCol+" = ?", entityID).Delete(kindModel(kind)).Error; err != nil {
		return fmt.Errorf("级联删除%s失败: %w", spec.joinTable, err)
	}
	return nil
}
