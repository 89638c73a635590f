package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ayoantar/HOL-ticket-system-sub001/config"
	"github.com/ayoantar/HOL-ticket-system-sub001/internal/dto"
	"github.com/ayoantar/HOL-ticket-system-sub001/internal/model"
	"github.com/ayoantar/HOL-ticket-system-sub001/pkg/jwt"
)

func setupTestAuthService() (AuthService, *mockRepos) {
	repo, m := newMockRepos()
	jwtMgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-0123456789abcdef",
		AccessTokenTTL: time.Hour,
	})
	svc := NewAuthService(repo, jwtMgr, nil, time.Hour, zap.NewNop())
	return svc, m
}

func seedLoginUser(m *mockRepos, id, email, password string, active bool) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	m.users.users[id] = &model.User{
		UserID:       id,
		Name:         "测试用户",
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		IsActive:     active,
	}
}

// ── Register 测试 ──

func TestAuthService_Register_Success(t *testing.T) {
	svc, m := setupTestAuthService()

	result, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "新用户",
		Email:    "new@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	// 自助注册固定为 user 角色
	if result.Role != model.RoleUser {
		t.Errorf("期望Role=user，实际=%s", result.Role)
	}

	stored := m.users.users[result.ID]
	if stored == nil {
		t.Fatal("用户应已落库")
	}
	if stored.PasswordHash == "password123" {
		t.Error("密码不应明文存储")
	}
}

func TestAuthService_Register_EmailExists(t *testing.T) {
	svc, m := setupTestAuthService()
	seedLoginUser(m, "user-001", "taken@example.com", "password123", true)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "新用户",
		Email:    "taken@example.com",
		Password: "password123",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("期望 ErrEmailExists，实际: %v", err)
	}
}

// ── Login 测试 ──

func TestAuthService_Login_Success(t *testing.T) {
	svc, m := setupTestAuthService()
	seedLoginUser(m, "user-001", "user@example.com", "password123", true)

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "user@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if result.Token == "" {
		t.Error("应返回 Token")
	}
	if result.ExpiresIn != 3600 {
		t.Errorf("期望ExpiresIn=3600，实际=%d", result.ExpiresIn)
	}
	if result.User.ID != "user-001" {
		t.Errorf("期望UserID=user-001，实际=%s", result.User.ID)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, m := setupTestAuthService()
	seedLoginUser(m, "user-001", "user@example.com", "password123", true)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "user@example.com",
		Password: "wrong-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_Disabled(t *testing.T) {
	svc, m := setupTestAuthService()
	seedLoginUser(m, "user-001", "user@example.com", "password123", false)

	// 密码正确但账号停用
	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "user@example.com",
		Password: "password123",
	})
	if !errors.Is(err, ErrUserDisabled) {
		t.Errorf("期望 ErrUserDisabled，实际: %v", err)
	}
}

// ── ChangePassword 测试 ──

func TestAuthService_ChangePassword_Success(t *testing.T) {
	svc, m := setupTestAuthService()
	seedLoginUser(m, "user-001", "user@example.com", "old-password", true)

	err := svc.ChangePassword(context.Background(), "user-001", &dto.ChangePasswordRequest{
		OldPassword: "old-password",
		NewPassword: "new-password-123",
	})
	if err != nil {
		t.Fatalf("ChangePassword 应成功: %v", err)
	}

	// 新密码可登录，旧密码失效
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "user@example.com", Password: "new-password-123",
	}); err != nil {
		t.Errorf("新密码应可登录: %v", err)
	}
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "user@example.com", Password: "old-password",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("旧密码应失效，实际: %v", err)
	}
}

func TestAuthService_ChangePassword_WrongOldPassword(t *testing.T) {
	svc, m := setupTestAuthService()
	seedLoginUser(m, "user-001", "user@example.com", "old-password", true)

	err := svc.ChangePassword(context.Background(), "user-001", &dto.ChangePasswordRequest{
		OldPassword: "not-the-old-one",
		NewPassword: "new-password-123",
	})
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("期望 ErrPasswordMismatch，实际: %v", err)
	}
}

// ── Logout 测试 ──

func TestAuthService_Logout_NoBlacklister(t *testing.T) {
	svc, _ := setupTestAuthService()

	// Redis 不可用（blacklister 为 nil）时登出静默成功
	if err := svc.Logout(context.Background(), "some-jti", time.Hour); err != nil {
		t.Errorf("无黑名单后端时 Logout 应为空操作: %v", err)
	}
}
