package repository

import (
	"context"
	"fmt"

	"SportsFeed/internal/model"

	"gorm.io/gorm"
)

// UserRepository 用户仓储
type UserRepository interface {
	// GetByID 按ID取用户，不存在返回 gorm.ErrRecordNotFound
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	// GetByEmail 按邮箱取用户
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// EmailExists 邮箱是否已注册
	EmailExists(ctx context.Context, email string) (bool, error)
	// Create 新建用户
	Create(ctx context.Context, user *model.User) error
	// GetByIDs 批量取用户，返回 id -> 实体 映射（信息流作者摘要用）
	GetByIDs(ctx context.Context, ids []uint64) (map[uint64]*model.User, error)
	// ListUsers 管理端用户列表：按角色、再按创建时间倒序，分页
	ListUsers(ctx context.Context, page, pageSize int) ([]*model.User, int64, error)
	// DeleteCascade 删除用户并级联其偏好行与点赞行（同一事务）
	DeleteCascade(ctx context.Context, id uint64) error
}

type userRepository struct {
	db       *gorm.DB
	prefs    PreferenceRepository
	articles ArticleRepository
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db:       db,
		prefs:    NewPreferenceRepository(db),
		articles: NewArticleRepository(db),
	}
}

// GetByID 按ID取用户
func (r *userRepository) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail 按邮箱取用户
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailExists 邮箱是否已注册
func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("查询邮箱占用失败: %w", err)
	}
	return count > 0, nil
}

// Create 新建用户
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("保存用户失败: %w", err)
	}
	return nil
}

// GetByIDs 批量取用户
func (r *userRepository) GetByIDs(ctx context.Context, ids []uint64) (map[uint64]*model.User, error) {
	result := make(map[uint64]*model.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var users []*model.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("批量查询用户失败: %w", err)
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

// ListUsers 管理端用户列表
func (r *userRepository) ListUsers(ctx context.Context, page, pageSize int) ([]*model.User, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	db := r.db.WithContext(ctx).Model(&model.User{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计用户数失败: %w", err)
	}

	var users []*model.User
	if err := db.
		Order("role ASC, created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("查询用户列表失败: %w", err)
	}
	return users, total, nil
}

// DeleteCascade 事务内删除用户的偏好行、点赞行与用户本身
func (r *userRepository) DeleteCascade(ctx context.Context, id uint64) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("开启事务失败: %w", tx.Error)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
		}
	}()

	if err := r.prefs.DeleteAllForUser(tx, id); err != nil {
		tx.Rollback()
		return err
	}
	if err := r.articles.DeleteLikesByUser(tx, id); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&model.User{}, id).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("删除用户失败: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}
