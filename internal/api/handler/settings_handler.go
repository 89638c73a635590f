package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ayoantar/HOL-ticket-system-sub001/internal/dto"
	"github.com/ayoantar/HOL-ticket-system-sub001/internal/service"
	"github.com/ayoantar/HOL-ticket-system-sub001/pkg/response"
)

// SettingsHandler 系统设置模块 HTTP 处理器（管理员）
type SettingsHandler struct {
	settingsSvc service.SettingsService
	logger      *zap.Logger
}

// NewSettingsHandler 创建 SettingsHandler
func NewSettingsHandler(settingsSvc service.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{settingsSvc: settingsSvc, logger: logger}
}

// GetCategory 读取某分类设置（默认值与落库值合并）
// GET /api/v1/admin/settings/:category
func (h *SettingsHandler) GetCategory(c *gin.Context) {
	result, err := h.settingsSvc.GetCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidSettingCategory) {
			response.BadRequest(c, 17001, "未知设置分类")
			return
		}
		internalError(c, h.logger, err)
		return
	}

	response.OK(c, result)
}

// UpdateCategory 批量更新某分类设置
// PUT /api/v1/admin/settings/:category
func (h *SettingsHandler) UpdateCategory(c *gin.Context) {
	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.settingsSvc.UpdateCategory(c.Request.Context(), actorID, c.Param("category"), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSettingCategory) {
			response.BadRequest(c, 17001, "未知设置分类")
			return
		}
		internalError(c, h.logger, err)
		return
	}

	response.OK(c, result)
}
