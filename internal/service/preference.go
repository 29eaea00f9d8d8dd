package service

import (
	"context"
	"fmt"

	"SportsFeed/internal/model"
	"SportsFeed/internal/policy"
	"SportsFeed/internal/repository"

	"github.com/sirupsen/logrus"
)

// PreferenceService 用户关注偏好的增删改查。
// 四类偏好（sports/leagues/teams/players）互相独立，attach/detach 幂等，
// sync 为整组原子替换
type PreferenceService struct {
	prefRepo repository.PreferenceRepository
	logger   *logrus.Logger
}

// NewPreferenceService 创建 PreferenceService
func NewPreferenceService(prefRepo repository.PreferenceRepository, logger *logrus.Logger) *PreferenceService {
	return &PreferenceService{prefRepo: prefRepo, logger: logger}
}

// PreferenceBundle 用户的全部偏好（四类都带上）
type PreferenceBundle struct {
	Sports  []*model.Sport  `json:"sports"`
	Leagues []*model.League `json:"leagues"`
	Teams   []*model.Team   `json:"teams"`
	Players []*model.Player `json:"players"`
}

// SaveAllInput 一次性保存的输入。为 nil 的种类不动，非 nil（含空切片）做整组替换
type SaveAllInput struct {
	SportIDs  *[]uint64 `json:"sport_ids"`
	LeagueIDs *[]uint64 `json:"league_ids"`
	TeamIDs   *[]uint64 `json:"team_ids"`
	PlayerIDs *[]uint64 `json:"player_ids"`
}

// List 用户的全部偏好记录
func (s *PreferenceService) List(ctx context.Context, userID uint64) (*PreferenceBundle, error) {
	sports, err := s.prefRepo.ListSports(ctx, userID)
	if err != nil {
		return nil, err
	}
	leagues, err := s.prefRepo.ListLeagues(ctx, userID)
	if err != nil {
		return nil, err
	}
	teams, err := s.prefRepo.ListTeams(ctx, userID)
	if err != nil {
		return nil, err
	}
	players, err := s.prefRepo.ListPlayers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &PreferenceBundle{Sports: sports, Leagues: leagues, Teams: teams, Players: players}, nil
}

// Sync 整组替换某一类偏好。先校验每个ID在实体表存在（任何写入之前），
// 再原子替换整组，幂等且与顺序无关
func (s *PreferenceService) Sync(ctx context.Context, actor *model.User, kind repository.PreferenceKind, ids []uint64) error {
	if !policy.CanMutatePreferences(actor, actor.ID) {
		return ErrUnauthorized
	}
	ids = dedupeIDs(ids)
	if err := s.validateIDs(ctx, kind, ids); err != nil {
		return err
	}
	if err := s.prefRepo.SyncAll(ctx, actor.ID, map[repository.PreferenceKind][]uint64{kind: ids}); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"user_id": actor.ID, "kind": kind, "count": len(ids)}).Info("偏好整组替换完成")
	return nil
}

// Attach 追加一条偏好。实体不存在报校验错误；已关注则静默成功
func (s *PreferenceService) Attach(ctx context.Context, actor *model.User, kind repository.PreferenceKind, entityID uint64) error {
	if err := s.validateIDs(ctx, kind, []uint64{entityID}); err != nil {
		return err
	}
	return s.prefRepo.Attach(ctx, actor.ID, kind, entityID)
}

// Detach 取消一条偏好。未关注也算成功
func (s *PreferenceService) Detach(ctx context.Context, actor *model.User, kind repository.PreferenceKind, entityID uint64) error {
	return s.prefRepo.Detach(ctx, actor.ID, kind, entityID)
}

// SaveAll 一次保存多类偏好。所有提供种类先全部过校验（全有或全无），
// 然后在同一个事务内逐类替换；省略的种类保持不变
func (s *PreferenceService) SaveAll(ctx context.Context, actor *model.User, input SaveAllInput) error {
	sets := make(map[repository.PreferenceKind][]uint64)
	if input.SportIDs != nil {
		sets[repository.KindSports] = dedupeIDs(*input.SportIDs)
	}
	if input.LeagueIDs != nil {
		sets[repository.KindLeagues] = dedupeIDs(*input.LeagueIDs)
	}
	if input.TeamIDs != nil {
		sets[repository.KindTeams] = dedupeIDs(*input.TeamIDs)
	}
	if input.PlayerIDs != nil {
		sets[repository.KindPlayers] = dedupeIDs(*input.PlayerIDs)
	}
	if len(sets) == 0 {
		return nil
	}

	// 全量校验先行：任何一类失败则一行都不写
	fieldErrs := make(map[string]string)
	for kind, ids := range sets {
		missing, err := s.prefRepo.MissingIDs(ctx, kind, ids)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			fieldErrs[kind.FieldName()] = fmt.Sprintf("以下ID不存在: %v", missing)
		}
	}
	if len(fieldErrs) > 0 {
		return &ValidationError{Fields: fieldErrs}
	}

	if err := s.prefRepo.SyncAll(ctx, actor.ID, sets); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"user_id": actor.ID, "kinds": len(sets)}).Info("偏好批量保存完成")
	return nil
}

// validateIDs 校验ID在对应实体表存在，不存在的列进 ValidationError
func (s *PreferenceService) validateIDs(ctx context.Context, kind repository.PreferenceKind, ids []uint64) error {
	missing, err := s.prefRepo.MissingIDs(ctx, kind, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return NewValidationError(kind.FieldName(), fmt.Sprintf("以下ID不存在: %v", missing))
	}
	return nil
}

// dedupeIDs 去重（保持首次出现顺序）
func dedupeIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	result := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
