package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ayoantar/HOL-ticket-system-sub001/internal/dto"
	"github.com/ayoantar/HOL-ticket-system-sub001/internal/service"
	"github.com/ayoantar/HOL-ticket-system-sub001/pkg/mailer"
	"github.com/ayoantar/HOL-ticket-system-sub001/pkg/response"
)

// EmailTemplateHandler 邮件模板模块 HTTP 处理器（管理员）
type EmailTemplateHandler struct {
	templateSvc service.EmailTemplateService
	logger      *zap.Logger
}

// NewEmailTemplateHandler 创建 EmailTemplateHandler
func NewEmailTemplateHandler(templateSvc service.EmailTemplateService, logger *zap.Logger) *EmailTemplateHandler {
	return &EmailTemplateHandler{templateSvc: templateSvc, logger: logger}
}

// List 模板列表
// GET /api/v1/admin/email-templates
func (h *EmailTemplateHandler) List(c *gin.Context) {
	items, err := h.templateSvc.List(c.Request.Context())
	if err != nil {
		internalError(c, h.logger, err)
		return
	}

	response.OK(c, items)
}

// Create 创建模板
// POST /api/v1/admin/email-templates
func (h *EmailTemplateHandler) Create(c *gin.Context) {
	var req dto.CreateEmailTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	tpl, err := h.templateSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Created(c, tpl)
}

// Get 模板详情
// GET /api/v1/admin/email-templates/:id
func (h *EmailTemplateHandler) Get(c *gin.Context) {
	tpl, err := h.templateSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, tpl)
}

// Update 更新模板
// PUT /api/v1/admin/email-templates/:id
func (h *EmailTemplateHandler) Update(c *gin.Context) {
	var req dto.UpdateEmailTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	tpl, err := h.templateSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, tpl)
}

// Delete 删除模板
// DELETE /api/v1/admin/email-templates/:id
func (h *EmailTemplateHandler) Delete(c *gin.Context) {
	if err := h.templateSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// Preview 模板预览（变量替换，不发送）
// POST /api/v1/admin/email-templates/:id/preview
func (h *EmailTemplateHandler) Preview(c *gin.Context) {
	var req dto.PreviewEmailTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.templateSvc.Preview(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

// TestSend 模板试发
// POST /api/v1/admin/email-templates/:id/test-send
func (h *EmailTemplateHandler) TestSend(c *gin.Context) {
	var req dto.TestSendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.templateSvc.TestSend(c.Request.Context(), c.Param("id"), &req); err != nil {
		if errors.Is(err, mailer.ErrMailDisabled) {
			response.BadRequest(c, 17103, "邮件发送未启用")
			return
		}
		h.handleError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *EmailTemplateHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTemplateNotFound):
		response.NotFound(c, 17101, "邮件模板不存在")
	case errors.Is(err, service.ErrTemplateExists):
		response.Error(c, http.StatusConflict, 17102, "模板名称已存在")
	default:
		internalError(c, h.logger, err)
	}
}
