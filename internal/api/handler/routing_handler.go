package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ayoantar/HOL-ticket-system-sub001/internal/dto"
	"github.com/ayoantar/HOL-ticket-system-sub001/internal/service"
	"github.com/ayoantar/HOL-ticket-system-sub001/pkg/response"
)

// RoutingHandler 路由规则模块 HTTP 处理器（管理员）
type RoutingHandler struct {
	routingSvc service.RoutingService
	logger     *zap.Logger
}

// NewRoutingHandler 创建 RoutingHandler
func NewRoutingHandler(routingSvc service.RoutingService, logger *zap.Logger) *RoutingHandler {
	return &RoutingHandler{routingSvc: routingSvc, logger: logger}
}

// List 路由规则列表
// GET /api/v1/admin/routing-rules
func (h *RoutingHandler) List(c *gin.Context) {
	rules, err := h.routingSvc.List(c.Request.Context())
	if err != nil {
		internalError(c, h.logger, err)
		return
	}

	response.OK(c, rules)
}

// Create 创建路由规则
// POST /api/v1/admin/routing-rules
func (h *RoutingHandler) Create(c *gin.Context) {
	var req dto.CreateRoutingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	rule, err := h.routingSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Created(c, rule)
}

// Update 更新路由规则
// PUT /api/v1/admin/routing-rules/:id
func (h *RoutingHandler) Update(c *gin.Context) {
	var req dto.UpdateRoutingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	rule, err := h.routingSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, rule)
}

// Delete 删除路由规则
// DELETE /api/v1/admin/routing-rules/:id
func (h *RoutingHandler) Delete(c *gin.Context) {
	if err := h.routingSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *RoutingHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRoutingRuleNotFound):
		response.NotFound(c, 13101, "路由规则不存在")
	case errors.Is(err, service.ErrRoutingRuleConflict):
		response.Error(c, http.StatusConflict, 13102, "该请求类型已存在启用中的规则")
	default:
		internalError(c, h.logger, err)
	}
}
