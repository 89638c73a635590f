package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/ayoantar/HOL-ticket-system-sub001/internal/dto"
	"github.com/ayoantar/HOL-ticket-system-sub001/internal/model"
)

func setupTestEmailTemplateService() (EmailTemplateService, *mockRepos, *mockMailer) {
	repo, m := newMockRepos()
	mailer := &mockMailer{}
	svc := NewEmailTemplateService(repo, mailer, zap.NewNop())
	return svc, m, mailer
}

// ── Create 测试 ──

func TestEmailTemplateService_Create_Success(t *testing.T) {
	svc, _, _ := setupTestEmailTemplateService()

	result, err := svc.Create(context.Background(), &dto.CreateEmailTemplateRequest{
		Name:     "request_created",
		Subject:  "请求已受理：{{request_number}}",
		BodyHTML: "<p>{{contact_name}}，你好</p>",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if !result.IsActive {
		t.Error("新模板应默认启用")
	}
}

func TestEmailTemplateService_Create_NameExists(t *testing.T) {
	svc, m, _ := setupTestEmailTemplateService()
	m.templates.templates["tpl-001"] = &model.EmailTemplate{
		TemplateID: "tpl-001", Name: "request_created", Subject: "s", BodyHTML: "b", IsActive: true,
	}

	_, err := svc.Create(context.Background(), &dto.CreateEmailTemplateRequest{
		Name: "request_created", Subject: "s2", BodyHTML: "b2",
	})
	if !errors.Is(err, ErrTemplateExists) {
		t.Errorf("期望 ErrTemplateExists，实际: %v", err)
	}
}

// ── Preview 测试 ──

func TestEmailTemplateService_Preview_Substitution(t *testing.T) {
	svc, m, _ := setupTestEmailTemplateService()
	m.templates.templates["tpl-001"] = &model.EmailTemplate{
		TemplateID: "tpl-001",
		Name:       "request_created",
		Subject:    "请求已受理：{{request_number}}",
		BodyHTML:   "<p>{{contact_name}}，你的请求 {{request_number}} 已受理。{{unknown_var}}</p>",
		IsActive:   true,
	}

	result, err := svc.Preview(context.Background(), "tpl-001", &dto.PreviewEmailTemplateRequest{
		Variables: map[string]string{
			"request_number": "REQ-000042",
			"contact_name":   "张三",
		},
	})
	if err != nil {
		t.Fatalf("Preview 应成功: %v", err)
	}
	if result.Subject != "请求已受理：REQ-000042" {
		t.Errorf("主题变量未替换，实际=%s", result.Subject)
	}
	want := "<p>张三，你的请求 REQ-000042 已受理。{{unknown_var}}</p>"
	if result.BodyHTML != want {
		t.Errorf("未提供的变量应原样保留，实际=%s", result.BodyHTML)
	}
}

func TestEmailTemplateService_Preview_NotFound(t *testing.T) {
	svc, _, _ := setupTestEmailTemplateService()

	_, err := svc.Preview(context.Background(), "nonexistent", &dto.PreviewEmailTemplateRequest{})
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("期望 ErrTemplateNotFound，实际: %v", err)
	}
}

// ── TestSend 测试 ──

func TestEmailTemplateService_TestSend_Success(t *testing.T) {
	svc, m, mail := setupTestEmailTemplateService()
	m.templates.templates["tpl-001"] = &model.EmailTemplate{
		TemplateID: "tpl-001", Name: "t", Subject: "s", BodyHTML: "b", IsActive: true,
	}

	err := svc.TestSend(context.Background(), "tpl-001", &dto.TestSendEmailRequest{
		To: "admin@example.com",
	})
	if err != nil {
		t.Fatalf("TestSend 应成功: %v", err)
	}
	if len(mail.sent) != 1 || mail.sent[0] != "admin@example.com" {
		t.Errorf("期望发送到 admin@example.com，实际=%v", mail.sent)
	}
}

// ── Update / Delete 测试 ──

func TestEmailTemplateService_Update_Success(t *testing.T) {
	svc, m, _ := setupTestEmailTemplateService()
	m.templates.templates["tpl-001"] = &model.EmailTemplate{
		TemplateID: "tpl-001", Name: "t", Subject: "旧主题", BodyHTML: "b", IsActive: true,
	}

	subject := "新主题"
	inactive := false
	result, err := svc.Update(context.Background(), "tpl-001", &dto.UpdateEmailTemplateRequest{
		Subject: &subject, IsActive: &inactive,
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.Subject != "新主题" {
		t.Errorf("期望Subject=新主题，实际=%s", result.Subject)
	}
	if result.IsActive {
		t.Error("模板应已停用")
	}
}

func TestEmailTemplateService_Delete_NotFound(t *testing.T) {
	svc, _, _ := setupTestEmailTemplateService()

	if err := svc.Delete(context.Background(), "nonexistent"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("期望 ErrTemplateNotFound，实际: %v", err)
	}
}
