package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ayoantar/HOL-ticket-system-sub001/internal/dto"
	"github.com/ayoantar/HOL-ticket-system-sub001/internal/model"
)

func setupTestActivityService() (ActivityService, *mockRepos) {
	repo, m := newMockRepos()
	svc := NewActivityService(repo, zap.NewNop())
	return svc, m
}

// ── AddComment 测试 ──

func TestActivityService_AddComment_ClientForcedPublic(t *testing.T) {
	svc, m := setupTestActivityService()
	seedRequest(m, 1, "client-001", "Web Support", nil)

	// 客户即使声明 is_internal 也强制公开
	result, err := svc.AddComment(context.Background(), clientActor("client-001"), 1,
		&dto.AddCommentRequest{Content: "请问进度如何", IsInternal: true})
	if err != nil {
		t.Fatalf("AddComment 应成功: %v", err)
	}
	if result.IsInternal {
		t.Error("客户留言不应为内部备注")
	}
	if result.ActivityType != model.ActivityClientMessage {
		t.Errorf("期望活动类型=client_message，实际=%s", result.ActivityType)
	}
}

func TestActivityService_AddComment_StaffInternalNote(t *testing.T) {
	svc, m := setupTestActivityService()

	empID := "emp-001"
	seedRequest(m, 1, "client-001", "Web Support", &empID)

	actor := Actor{UserID: "emp-001", Role: model.RoleEmployee, Department: "Web Support"}
	result, err := svc.AddComment(context.Background(), actor, 1,
		&dto.AddCommentRequest{Content: "需要等第三方回复", IsInternal: true})
	if err != nil {
		t.Fatalf("AddComment 应成功: %v", err)
	}
	if result.ActivityType != model.ActivityInternalNote {
		t.Errorf("期望活动类型=internal_note，实际=%s", result.ActivityType)
	}
	// 内部备注不通知任何人
	if got := len(m.notifications.notifications); got != 0 {
		t.Errorf("内部备注不应触发通知，实际=%d", got)
	}
}

func TestActivityService_AddComment_ClientNotifiesAssignee(t *testing.T) {
	svc, m := setupTestActivityService()

	empID := "emp-001"
	seedRequest(m, 1, "client-001", "Web Support", &empID)

	_, err := svc.AddComment(context.Background(), clientActor("client-001"), 1,
		&dto.AddCommentRequest{Content: "补充说明"})
	if err != nil {
		t.Fatalf("AddComment 应成功: %v", err)
	}
	if got := m.notifications.countFor("emp-001"); got != 1 {
		t.Errorf("期望处理人收到 1 条留言通知，实际=%d", got)
	}
}

func TestActivityService_AddComment_ClientUnassignedNoNotify(t *testing.T) {
	svc, m := setupTestActivityService()
	seedRequest(m, 1, "client-001", "Web Support", nil)

	_, err := svc.AddComment(context.Background(), clientActor("client-001"), 1,
		&dto.AddCommentRequest{Content: "有人在吗"})
	if err != nil {
		t.Fatalf("AddComment 应成功: %v", err)
	}
	if got := len(m.notifications.notifications); got != 0 {
		t.Errorf("未指派时客户留言不应触发通知，实际=%d", got)
	}
}

func TestActivityService_AddComment_StaffPublicNotifiesClient(t *testing.T) {
	svc, m := setupTestActivityService()

	empID := "emp-001"
	seedRequest(m, 1, "client-001", "Web Support", &empID)

	actor := Actor{UserID: "emp-001", Role: model.RoleEmployee, Department: "Web Support"}
	result, err := svc.AddComment(context.Background(), actor, 1,
		&dto.AddCommentRequest{Content: "问题已定位，预计明天修复"})
	if err != nil {
		t.Fatalf("AddComment 应成功: %v", err)
	}
	if result.ActivityType != model.ActivityClientMessage {
		t.Errorf("员工公开留言期望类型=client_message，实际=%s", result.ActivityType)
	}
	if got := m.notifications.countFor("client-001"); got != 1 {
		t.Errorf("期望客户收到 1 条留言通知，实际=%d", got)
	}
}

func TestActivityService_AddComment_EmployeeUnassignedAllowed(t *testing.T) {
	svc, m := setupTestActivityService()
	seedRequest(m, 1, "client-001", "Web Support", nil)

	// 留言范围与查看一致，员工不限于指派给自己的请求
	actor := Actor{UserID: "emp-001", Role: model.RoleEmployee, Department: "Web Support"}
	if _, err := svc.AddComment(context.Background(), actor, 1,
		&dto.AddCommentRequest{Content: "先补充排查记录"}); err != nil {
		t.Errorf("员工应可在未指派请求上留言: %v", err)
	}
}

func TestActivityService_AddComment_BlankContent(t *testing.T) {
	svc, m := setupTestActivityService()
	seedRequest(m, 1, "client-001", "Web Support", nil)

	_, err := svc.AddComment(context.Background(), clientActor("client-001"), 1,
		&dto.AddCommentRequest{Content: "   \n\t  "})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("期望 ValidationError，实际: %v", err)
	}
	if verr.Field != "content" {
		t.Errorf("期望错误字段=content，实际=%s", verr.Field)
	}
	if got := len(m.activities.activities); got != 0 {
		t.Errorf("空白留言不应写入活动，实际=%d", got)
	}
}

func TestActivityService_AddComment_TrimsContent(t *testing.T) {
	svc, m := setupTestActivityService()
	seedRequest(m, 1, "client-001", "Web Support", nil)

	result, err := svc.AddComment(context.Background(), clientActor("client-001"), 1,
		&dto.AddCommentRequest{Content: "  进度如何  "})
	if err != nil {
		t.Fatalf("AddComment 应成功: %v", err)
	}
	if result.Notes != "进度如何" {
		t.Errorf("期望留言去除首尾空白，实际=%q", result.Notes)
	}
}

func TestActivityService_AddComment_RequestNotFound(t *testing.T) {
	svc, _ := setupTestActivityService()

	_, err := svc.AddComment(context.Background(), adminActor(), 999,
		&dto.AddCommentRequest{Content: "test"})
	if !errors.Is(err, ErrRequestNotFound) {
		t.Errorf("期望 ErrRequestNotFound，实际: %v", err)
	}
}

// ── ListActivities 测试 ──

func TestActivityService_ListActivities_ClientExcludesInternal(t *testing.T) {
	svc, m := setupTestActivityService()
	seedRequest(m, 1, "client-001", "Web Support", nil)

	now := time.Now()
	m.activities.activities = append(m.activities.activities,
		&model.RequestActivity{ActivityID: "act-001", RequestID: 1, TechID: "emp-001",
			ActivityType: model.ActivityInternalNote, IsInternal: true, Notes: "内部讨论", CreatedAt: now},
		&model.RequestActivity{ActivityID: "act-002", RequestID: 1, TechID: "emp-001",
			ActivityType: model.ActivityClientMessage, Notes: "公开回复", CreatedAt: now},
	)

	items, err := svc.ListActivities(context.Background(), clientActor("client-001"), 1)
	if err != nil {
		t.Fatalf("ListActivities 应成功: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("客户视角期望 1 条活动，实际=%d", len(items))
	}
	if items[0].Notes != "公开回复" {
		t.Errorf("期望只看到公开活动，实际=%s", items[0].Notes)
	}
}

func TestActivityService_ListActivities_StaffSeesAll(t *testing.T) {
	svc, m := setupTestActivityService()
	seedRequest(m, 1, "client-001", "Web Support", nil)

	now := time.Now()
	m.activities.activities = append(m.activities.activities,
		&model.RequestActivity{ActivityID: "act-001", RequestID: 1, TechID: "emp-001",
			ActivityType: model.ActivityInternalNote, IsInternal: true, CreatedAt: now},
		&model.RequestActivity{ActivityID: "act-002", RequestID: 1, TechID: "emp-001",
			ActivityType: model.ActivityClientMessage, CreatedAt: now},
	)

	items, err := svc.ListActivities(context.Background(), adminActor(), 1)
	if err != nil {
		t.Fatalf("ListActivities 应成功: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("员工视角期望 2 条活动，实际=%d", len(items))
	}
}

// ── UnreadCount 测试 ──

func TestActivityService_UnreadCount_ClientView(t *testing.T) {
	svc, m := setupTestActivityService()
	seedRequest(m, 1, "client-001", "Web Support", nil)

	now := time.Now()
	m.activities.activities = append(m.activities.activities,
		&model.RequestActivity{ActivityID: "act-001", RequestID: 1, TechID: "emp-001",
			ActivityType: model.ActivityInternalNote, IsInternal: true, CreatedAt: now},
		&model.RequestActivity{ActivityID: "act-002", RequestID: 1, TechID: "emp-001",
			ActivityType: model.ActivityClientMessage, CreatedAt: now},
		&model.RequestActivity{ActivityID: "act-003", RequestID: 1, TechID: "client-001",
			ActivityType: model.ActivityClientMessage, CreatedAt: now},
		// 状态变更不参与未读计数
		&model.RequestActivity{ActivityID: "act-004", RequestID: 1, TechID: "emp-001",
			ActivityType: model.ActivityStatusChange, CreatedAt: now},
	)

	count, err := svc.UnreadCount(context.Background(), clientActor("client-001"), 1)
	if err != nil {
		t.Fatalf("UnreadCount 应成功: %v", err)
	}
	if count != 1 {
		t.Errorf("客户视角期望未读=1，实际=%d", count)
	}
}

func TestActivityService_UnreadCount_StaffSeesInternal(t *testing.T) {
	svc, m := setupTestActivityService()

	empID := "emp-002"
	seedRequest(m, 1, "client-001", "Web Support", &empID)

	now := time.Now()
	m.activities.activities = append(m.activities.activities,
		&model.RequestActivity{ActivityID: "act-001", RequestID: 1, TechID: "emp-001",
			ActivityType: model.ActivityInternalNote, IsInternal: true, CreatedAt: now},
		&model.RequestActivity{ActivityID: "act-002", RequestID: 1, TechID: "client-001",
			ActivityType: model.ActivityClientMessage, CreatedAt: now},
	)

	actor := Actor{UserID: "emp-002", Role: model.RoleEmployee, Department: "Web Support"}
	count, err := svc.UnreadCount(context.Background(), actor, 1)
	if err != nil {
		t.Fatalf("UnreadCount 应成功: %v", err)
	}
	if count != 2 {
		t.Errorf("员工视角期望未读=2（含内部备注），实际=%d", count)
	}
}
