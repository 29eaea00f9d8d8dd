package repository

import (
	"context"
	"fmt"

	"SportsFeed/internal/model"

	"gorm.io/gorm"
)

// MatchRepository 赛程仓储
type MatchRepository interface {
	// ListMatches 全部赛程，按开赛时间倒序
	ListMatches(ctx context.Context) ([]*model.Match, error)
	// GetByID 按ID取赛程，不存在返回 gorm.ErrRecordNotFound
	GetByID(ctx context.Context, id uint64) (*model.Match, error)
	// Create 新建赛程
	Create(ctx context.Context, match *model.Match) error
	// Update 按字段集更新赛程
	Update(ctx context.Context, id uint64, fields map[string]interface{}) error
	// Delete 删除赛程
	Delete(ctx context.Context, id uint64) error
}

type matchRepository struct {
	db *gorm.DB
}

// NewMatchRepository 创建 MatchRepository 实例
func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

// ListMatches 全部赛程，按开赛时间倒序
func (r *matchRepository) ListMatches(ctx context.Context) ([]*model.Match, error) {
	var matches []*model.Match
	if err := r.db.WithContext(ctx).
		Order("match_time DESC").
		Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("查询赛程列表失败: %w", err)
	}
	return matches, nil
}

// GetByID 按ID取赛程
func (r *matchRepository) GetByID(ctx context.Context, id uint64) (*model.Match, error) {
	var match model.Match
	if err := r.db.WithContext(ctx).First(&match, id).Error; err != nil {
		return nil, err
	}
	return &match, nil
}

// Create 新建赛程
func (r *matchRepository) Create(ctx context.Context, match *model.Match) error {
	if err := r.db.WithContext(ctx).Create(match).Error; err != nil {
		return fmt.Errorf("保存赛程失败: %w", err)
	}
	return nil
}

// Update 按字段集更新赛程
func (r *matchRepository) Update(ctx context.Context, id uint64, fields map[string]interface{}) error {
	if err := r.db.WithContext(ctx).
		Model(&model.Match{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return fmt.Errorf("更新赛程失败: %w", err)
	}
	return nil
}

// Delete 删除赛程
func (r *matchRepository) Delete(ctx context.Context, id uint64) error {
	if err := r.db.WithContext(ctx).Delete(&model.Match{}, id).Error; err != nil {
		return fmt.Errorf("删除赛程失败: %w", err)
	}
	return nil
}
