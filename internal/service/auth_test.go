package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"SportsFeed/internal/repository"
	"SportsFeed/internal/testutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(repository.NewUserRepository(db), testutil.DiscardLogger(), "test-secret", time.Hour)
}

// 注册 -> 令牌校验 -> 登录 完整往返
func TestRegisterLoginRoundTrip(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	svc := newAuthService(db)

	result, err := svc.Register(ctx, "球迷甲", "  Fan@Example.com ", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "user", result.User.Role)
	assert.Equal(t, "fan@example.com", result.User.Email)
	require.NotEmpty(t, result.Token)

	// 注册响应里的令牌直接可用
	user, err := svc.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, user.ID)

	login, err := svc.Login(ctx, "FAN@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, login.User.ID)
}

func TestRegisterValidation(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	svc := newAuthService(db)

	_, err := svc.Register(ctx, "", "not-an-email", "123")
	vErr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, vErr.Fields, "name")
	assert.Contains(t, vErr.Fields, "email")
	assert.Contains(t, vErr.Fields, "password")

	// 邮箱唯一（大小写不敏感）
	_, err = svc.Register(ctx, "球迷甲", "fan@example.com", "secret123")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "球迷乙", "FAN@example.com", "secret456")
	vErr, ok = AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, vErr.Fields, "email")
}

// 账号不存在与密码错误统一报未认证
func TestLoginFailures(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	svc := newAuthService(db)

	_, err := svc.Register(ctx, "球迷甲", "fan@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "fan@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = svc.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

// 角色列损坏的账号不能静默通过认证（否则所有权限判定都会悄悄失败）
func TestAuthenticateRejectsCorruptedRole(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	svc := newAuthService(db)

	broken := testutil.SeedUser(t, db, "broken@example.com", "moderator", nil)
	claims := jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", broken.ID),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthenticated)
	assert.Contains(t, err.Error(), "角色")
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	svc := newAuthService(db)

	_, err := svc.Authenticate(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// 别的密钥签发的令牌不可用
	otherSvc := NewAuthService(repository.NewUserRepository(db), testutil.DiscardLogger(), "other-secret", time.Hour)
	result, err := otherSvc.Register(ctx, "球迷甲", "fan@example.com", "secret123")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, result.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// 过期令牌
	claims := jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", result.User.ID),
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, expired)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
