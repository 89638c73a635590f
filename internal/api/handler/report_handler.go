package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ayoantar/HOL-ticket-system-sub001/internal/dto"
	"github.com/ayoantar/HOL-ticket-system-sub001/internal/service"
	"github.com/ayoantar/HOL-ticket-system-sub001/pkg/response"
)

// ReportHandler 统计报表模块 HTTP 处理器（管理员）
type ReportHandler struct {
	reportSvc service.ReportService
	logger    *zap.Logger
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc, logger: logger}
}

// Overview 综合统计
// GET /api/v1/admin/reports/overview
func (h *ReportHandler) Overview(c *gin.Context) {
	result, err := h.reportSvc.Overview(c.Request.Context())
	if err != nil {
		internalError(c, h.logger, err)
		return
	}

	response.OK(c, result)
}

// Export 导出请求清单
// GET /api/v1/admin/reports/export?format=xlsx|csv
func (h *ReportHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	file, err := h.reportSvc.Export(c.Request.Context(), req.Format)
	if err != nil {
		internalError(c, h.logger, err)
		return
	}

	encodedFilename := url.QueryEscape(file.Filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
