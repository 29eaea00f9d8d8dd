package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"SportsFeed/internal/model"
	"SportsFeed/internal/policy"
	"SportsFeed/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminService 管理端：创建管理员、用户列表、删除用户（均为 super_admin 专属）
type AdminService struct {
	userRepo     repository.UserRepository
	taxonomyRepo repository.TaxonomyRepository
	logger       *logrus.Logger
	pageSize     int
}

// NewAdminService 创建 AdminService
func NewAdminService(userRepo repository.UserRepository, taxonomyRepo repository.TaxonomyRepository, logger *logrus.Logger, pageSize int) *AdminService {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &AdminService{
		userRepo:     userRepo,
		taxonomyRepo: taxonomyRepo,
		logger:       logger,
		pageSize:     pageSize,
	}
}

// CreateAdminInput 创建管理员的输入。密码须二次确认
type CreateAdminInput struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	AssignedSportID      uint64 `json:"assigned_sport_id"`
}

// UserListResult 用户列表分页返回
type UserListResult struct {
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Total    int64            `json:"total"`
	Items    []model.UserView `json:"items"`
}

// CreateAdmin 创建管理员账号并指派其负责的运动项目
func (s *AdminService) CreateAdmin(ctx context.Context, actor *model.User, input CreateAdminInput) (*model.UserView, error) {
	if !policy.CanManageUsers(actor) {
		return nil, ErrUnauthorized
	}

	fields := make(map[string]string)
	if input.Name == "" {
		fields["name"] = "昵称不能为空"
	}
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		fields["email"] = "邮箱格式不正确"
	}
	if len(input.Password) < 6 {
		fields["password"] = "密码至少6位"
	} else if input.Password != input.PasswordConfirmation {
		fields["password"] = "两次输入的密码不一致"
	}
	if input.AssignedSportID == 0 {
		fields["assigned_sport_id"] = "必须指派一个运动项目"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	sport, err := s.taxonomyRepo.GetSport(ctx, input.AssignedSportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("assigned_sport_id", fmt.Sprintf("运动项目 %d 不存在", input.AssignedSportID))
		}
		return nil, err
	}

	exists, err := s.userRepo.EmailExists(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, NewValidationError("email", "邮箱已被注册")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码哈希失败: %w", err)
	}

	admin := &model.User{
		Name:            input.Name,
		Email:           input.Email,
		PasswordHash:    string(hash),
		Role:            string(policy.RoleAdmin),
		AssignedSportID: &input.AssignedSportID,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"admin_id": admin.ID, "sport_id": input.AssignedSportID, "actor_id": actor.ID}).Info("管理员账号已创建")
	view := model.NewUserView(admin, sport)
	return &view, nil
}

// ListUsers 全量用户列表（分页），按角色、再按创建时间倒序
func (s *AdminService) ListUsers(ctx context.Context, actor *model.User, page int) (*UserListResult, error) {
	if !policy.CanManageUsers(actor) {
		return nil, ErrUnauthorized
	}
	if page <= 0 {
		page = 1
	}
	users, total, err := s.userRepo.ListUsers(ctx, page, s.pageSize)
	if err != nil {
		return nil, err
	}

	// 批量带出管理员的指派项目摘要
	var sportIDs []uint64
	for _, u := range users {
		if u.AssignedSportID != nil {
			sportIDs = append(sportIDs, *u.AssignedSportID)
		}
	}
	sports, err := s.taxonomyRepo.GetSportsByIDs(ctx, sportIDs)
	if err != nil {
		return nil, err
	}

	items := make([]model.UserView, 0, len(users))
	for _, u := range users {
		var assigned *model.Sport
		if u.AssignedSportID != nil {
			assigned = sports[*u.AssignedSportID]
		}
		items = append(items, model.NewUserView(u, assigned))
	}
	return &UserListResult{Page: page, PageSize: s.pageSize, Total: total, Items: items}, nil
}

// DeleteUser 删除用户并级联其偏好行与点赞。禁止删除自己（先查目标存在性，再做自删校验）
func (s *AdminService) DeleteUser(ctx context.Context, actor *model.User, targetID uint64) error {
	if !policy.Role(actor.Role).IsSuperAdmin() {
		return ErrUnauthorized
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return mapNotFound(err)
	}
	if !policy.CanDeleteUser(actor, targetID) {
		return ErrUnauthorized
	}
	if err := s.userRepo.DeleteCascade(ctx, targetID); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"deleted_user_id": targetID, "actor_id": actor.ID}).Info("用户已删除")
	return nil
}

// ListSportsForAssignment 供指派管理员用的全部运动项目
func (s *AdminService) ListSportsForAssignment(ctx context.Context, actor *model.User) ([]*model.Sport, error) {
	if !policy.CanManageUsers(actor) {
		return nil, ErrUnauthorized
	}
	return s.taxonomyRepo.ListSports(ctx)
}
