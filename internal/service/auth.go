package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"SportsFeed/internal/model"
	"SportsFeed/internal/policy"
	"SportsFeed/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService 注册/登录/令牌校验（身份提供方）
type AuthService struct {
	userRepo  repository.UserRepository
	logger    *logrus.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService 创建 AuthService
func NewAuthService(userRepo repository.UserRepository, logger *logrus.Logger, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 72 * time.Hour
	}
	return &AuthService{
		userRepo:  userRepo,
		logger:    logger,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// AuthResult 注册/登录返回：用户视图 + 签发的令牌
type AuthResult struct {
	User  model.UserView `json:"user"`
	Token string         `json:"token"`
}

// Register 普通用户注册。邮箱唯一、密码至少6位
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	fields := make(map[string]string)
	if name == "" {
		fields["name"] = "昵称不能为空"
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		fields["email"] = "邮箱格式不正确"
	}
	if len(password) < 6 {
		fields["password"] = "密码至少6位"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, NewValidationError("email", "邮箱已被注册")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码哈希失败: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         string(policy.RoleUser),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	s.logger.WithField("user_id", user.ID).Info("新用户注册成功")
	return &AuthResult{User: model.NewUserView(user, nil), Token: token}, nil
}

// Login 邮箱+密码登录。账号不存在与密码错误统一报未认证，不泄露具体原因
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrUnauthenticated
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: model.NewUserView(user, nil), Token: token}, nil
}

// Authenticate 校验令牌并取回当前用户。无效/过期令牌报未认证
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*model.User, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("签名算法不符: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthenticated
	}
	var userID uint64
	if _, err := fmt.Sscanf(claims.Subject, "%d", &userID); err != nil {
		return nil, ErrUnauthenticated
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	// 角色列损坏时直接报错，不让后续权限判定全部静默失败
	if _, err := policy.ParseRole(user.Role); err != nil {
		s.logger.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Error("用户角色字段非法")
		return nil, fmt.Errorf("用户角色字段非法: %w", err)
	}
	return user, nil
}

// issueToken 签发 HS256 JWT，sub 为用户ID，jti 唯一
func (s *AuthService) issueToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("签发令牌失败: %w", err)
	}
	return signed, nil
}
