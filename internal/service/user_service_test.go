package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/ayoantar/HOL-ticket-system-sub001/internal/dto"
	"github.com/ayoantar/HOL-ticket-system-sub001/internal/model"
)

func setupTestUserService() (UserService, *mockRepos) {
	repo, m := newMockRepos()
	svc := NewUserService(repo, zap.NewNop())
	return svc, m
}

// ── Create 测试 ──

func TestUserService_Create_Success(t *testing.T) {
	svc, m := setupTestUserService()

	result, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		Name:       "新员工",
		Email:      "staff@example.com",
		Role:       model.RoleEmployee,
		Department: "IT Support",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if len(result.TempPassword) != 16 {
		t.Errorf("期望临时密码 16 位，实际=%d", len(result.TempPassword))
	}
	if result.User.Department != "IT Support" {
		t.Errorf("期望Department=IT Support，实际=%s", result.User.Department)
	}

	stored := m.users.users[result.User.ID]
	if stored.PasswordHash == result.TempPassword {
		t.Error("临时密码不应明文存储")
	}
}

func TestUserService_Create_DeptLeadSetsIsLead(t *testing.T) {
	svc, _ := setupTestUserService()

	result, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		Name:       "新负责人",
		Email:      "lead@example.com",
		Role:       model.RoleDeptLead,
		Department: "IT Support",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if !result.User.IsLead {
		t.Error("dept_lead 角色应标记 is_lead")
	}
}

func TestUserService_Create_EmailExists(t *testing.T) {
	svc, m := setupTestUserService()
	m.users.users["user-001"] = &model.User{UserID: "user-001", Email: "taken@example.com", Role: model.RoleUser, IsActive: true}

	_, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		Name:  "新员工",
		Email: "taken@example.com",
		Role:  model.RoleEmployee,
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("期望 ErrEmailExists，实际: %v", err)
	}
}

// ── Update 测试 ──

func TestUserService_Update_RoleSyncsIsLead(t *testing.T) {
	svc, m := setupTestUserService()

	dept := "IT Support"
	m.users.users["user-001"] = &model.User{
		UserID: "user-001", Name: "员工", Email: "a@b.c",
		Role: model.RoleEmployee, Department: &dept, IsActive: true,
	}

	role := model.RoleDeptLead
	result, err := svc.Update(context.Background(), "user-001", &dto.UpdateUserRequest{Role: &role})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if !result.IsLead {
		t.Error("提升为 dept_lead 应同步 is_lead")
	}

	// 降回 employee 后 is_lead 清除
	role = model.RoleEmployee
	result, err = svc.Update(context.Background(), "user-001", &dto.UpdateUserRequest{Role: &role})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.IsLead {
		t.Error("降级为 employee 应清除 is_lead")
	}
}

func TestUserService_Update_ClearDepartment(t *testing.T) {
	svc, m := setupTestUserService()

	dept := "IT Support"
	m.users.users["user-001"] = &model.User{
		UserID: "user-001", Name: "员工", Email: "a@b.c",
		Role: model.RoleEmployee, Department: &dept, IsActive: true,
	}

	empty := ""
	result, err := svc.Update(context.Background(), "user-001", &dto.UpdateUserRequest{Department: &empty})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.Department != "" {
		t.Errorf("空字符串应清除部门，实际=%s", result.Department)
	}
	if m.users.users["user-001"].Department != nil {
		t.Error("落库的部门字段应为 NULL")
	}
}

func TestUserService_Update_EmailConflict(t *testing.T) {
	svc, m := setupTestUserService()
	m.users.users["user-001"] = &model.User{UserID: "user-001", Email: "a@example.com", Role: model.RoleUser, IsActive: true}
	m.users.users["user-002"] = &model.User{UserID: "user-002", Email: "b@example.com", Role: model.RoleUser, IsActive: true}

	email := "b@example.com"
	_, err := svc.Update(context.Background(), "user-001", &dto.UpdateUserRequest{Email: &email})
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("期望 ErrEmailExists，实际: %v", err)
	}
}

func TestUserService_Update_NotFound(t *testing.T) {
	svc, _ := setupTestUserService()

	name := "新名字"
	_, err := svc.Update(context.Background(), "nonexistent", &dto.UpdateUserRequest{Name: &name})
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

// ── Delete 测试 ──

func TestUserService_Delete_Success(t *testing.T) {
	svc, m := setupTestUserService()
	m.users.users["user-001"] = &model.User{UserID: "user-001", Role: model.RoleEmployee, IsActive: true}

	if err := svc.Delete(context.Background(), "admin-001", "user-001"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, ok := m.users.users["user-001"]; ok {
		t.Error("用户应已删除")
	}
}

func TestUserService_Delete_AdminUndeletable(t *testing.T) {
	svc, m := setupTestUserService()
	m.users.users["admin-002"] = &model.User{UserID: "admin-002", Role: model.RoleAdmin, IsActive: true}

	err := svc.Delete(context.Background(), "admin-001", "admin-002")
	if !errors.Is(err, ErrAdminUndeletable) {
		t.Errorf("期望 ErrAdminUndeletable，实际: %v", err)
	}
}

func TestUserService_Delete_SelfForbidden(t *testing.T) {
	svc, m := setupTestUserService()
	m.users.users["admin-001"] = &model.User{UserID: "admin-001", Role: model.RoleAdmin, IsActive: true}

	err := svc.Delete(context.Background(), "admin-001", "admin-001")
	if !errors.Is(err, ErrSelfForbidden) {
		t.Errorf("期望 ErrSelfForbidden，实际: %v", err)
	}
}

// ── List 测试 ──

func TestUserService_List_RoleFilter(t *testing.T) {
	svc, m := setupTestUserService()
	m.users.users["user-001"] = &model.User{UserID: "user-001", Role: model.RoleUser, IsActive: true}
	m.users.users["emp-001"] = &model.User{UserID: "emp-001", Role: model.RoleEmployee, IsActive: true}
	m.users.users["emp-002"] = &model.User{UserID: "emp-002", Role: model.RoleEmployee, IsActive: true}

	req := &dto.UserListRequest{Role: model.RoleEmployee}
	items, total, err := svc.List(context.Background(), req)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("期望 employee 2 条，实际 total=%d len=%d", total, len(items))
	}
}
