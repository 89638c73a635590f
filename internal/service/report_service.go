package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ayoantar/HOL-ticket-system-sub001/internal/dto"
	"github.com/ayoantar/HOL-ticket-system-sub001/internal/repository"
)

// ExportFile 导出文件内容
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReportService 统计报表服务接口（管理员）
type ReportService interface {
	Overview(ctx context.Context) (*dto.OverviewResponse, error)
	// Export 导出全量请求清单，支持 xlsx 与 csv
	Export(ctx context.Context, format string) (*ExportFile, error)
}

// reportService 统计报表服务实现
type reportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReportService 创建报表服务实例
func NewReportService(repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

func (s *reportService) Overview(ctx context.Context) (*dto.OverviewResponse, error) {
	total, err := s.repo.Report.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	byStatus, err := s.breakdown(ctx, "status")
	if err != nil {
		return nil, err
	}
	byType, err := s.breakdown(ctx, "request_type")
	if err != nil {
		return nil, err
	}
	byDepartment, err := s.breakdown(ctx, "department")
	if err != nil {
		return nil, err
	}

	avgHours, err := s.repo.Report.AvgCompletionHours(ctx)
	if err != nil {
		return nil, err
	}

	performers, err := s.repo.Report.TopPerformers(ctx, 5)
	if err != nil {
		return nil, err
	}
	topPerformers := make([]dto.PerformerItem, 0, len(performers))
	for _, p := range performers {
		topPerformers = append(topPerformers, dto.PerformerItem{
			UserID:         p.UserID,
			Name:           p.Name,
			CompletedCount: p.CompletedCount,
		})
	}

	completedLast30, err := s.repo.Report.CountCompletedSince(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	openUrgent, err := s.repo.Report.CountOpenUrgent(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.OverviewResponse{
		Total:               total,
		ByStatus:            byStatus,
		ByType:              byType,
		ByDepartment:        byDepartment,
		AvgCompletionHours:  avgHours,
		TopPerformers:       topPerformers,
		CompletedLast30Days: completedLast30,
		OpenUrgent:          openUrgent,
	}, nil
}

func (s *reportService) Export(ctx context.Context, format string) (*ExportFile, error) {
	rows, err := s.repo.Report.ExportRows(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := time.Now().Format("20060102-150405")
	if format == "csv" {
		data, err := buildCSV(rows)
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("requests-%s.csv", timestamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	}

	data, err := buildXLSX(rows)
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("requests-%s.xlsx", timestamp),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        data,
	}, nil
}

func (s *reportService) breakdown(ctx context.Context, column string) ([]dto.BreakdownItem, error) {
	rows, err := s.repo.Report.Breakdown(ctx, column)
	if err != nil {
		return nil, err
	}

	items := make([]dto.BreakdownItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.BreakdownItem{Key: row.Key, Count: row.Count})
	}
	return items, nil
}

var exportHeader = []string{
	"请求编号", "类型", "状态", "紧急程度", "提交人", "处理人", "部门", "创建时间", "完成时间",
}

func exportRecord(row *repository.ExportRow) []string {
	assignee := ""
	if row.AssigneeName != nil {
		assignee = *row.AssigneeName
	}
	department := ""
	if row.Department != nil {
		department = *row.Department
	}
	completedAt := ""
	if row.CompletedAt != nil {
		completedAt = row.CompletedAt.Format("2006-01-02 15:04")
	}

	return []string{
		row.RequestNumber,
		row.RequestType,
		row.Status,
		row.Urgency,
		row.ClientName,
		assignee,
		department,
		row.CreatedAt.Format("2006-01-02 15:04"),
		completedAt,
	}
}

func buildCSV(rows []repository.ExportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for i := range rows {
		if err := w.Write(exportRecord(&rows[i])); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildXLSX(rows []repository.ExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}

	for i := range rows {
		record := exportRecord(&rows[i])
		for col, value := range record {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
