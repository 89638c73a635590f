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

// DepartmentHandler 部门模块 HTTP 处理器
type DepartmentHandler struct {
	deptSvc service.DepartmentService
	logger  *zap.Logger
}

// NewDepartmentHandler 创建 DepartmentHandler
func NewDepartmentHandler(deptSvc service.DepartmentService, logger *zap.Logger) *DepartmentHandler {
	return &DepartmentHandler{deptSvc: deptSvc, logger: logger}
}

// List 部门列表
// GET /api/v1/departments
func (h *DepartmentHandler) List(c *gin.Context) {
	var req dto.DepartmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	depts, err := h.deptSvc.List(c.Request.Context(), req.IncludeInactive)
	if err != nil {
		internalError(c, h.logger, err)
		return
	}

	response.OK(c, depts)
}

// Get 部门详情
// GET /api/v1/departments/:id
func (h *DepartmentHandler) Get(c *gin.Context) {
	dept, err := h.deptSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrDepartmentNotFound) {
			response.NotFound(c, 13001, "部门不存在")
			return
		}
		internalError(c, h.logger, err)
		return
	}

	response.OK(c, dept)
}

// Create 创建部门
// POST /api/v1/admin/departments
func (h *DepartmentHandler) Create(c *gin.Context) {
	var req dto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	dept, err := h.deptSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Created(c, dept)
}

// Update 更新部门（可变更负责人）
// PUT /api/v1/admin/departments/:id
func (h *DepartmentHandler) Update(c *gin.Context) {
	var req dto.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	dept, err := h.deptSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, dept)
}

// Delete 删除部门
// DELETE /api/v1/admin/departments/:id
func (h *DepartmentHandler) Delete(c *gin.Context) {
	if err := h.deptSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *DepartmentHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 13001, "部门不存在")
	case errors.Is(err, service.ErrDepartmentExists):
		response.Error(c, http.StatusConflict, 13002, "部门名称已存在")
	case errors.Is(err, service.ErrLeadNotFound):
		response.BadRequest(c, 13003, "指定的负责人不存在")
	case errors.Is(err, service.ErrLeadNotStaff):
		response.BadRequest(c, 13004, "负责人必须是员工账号")
	default:
		internalError(c, h.logger, err)
	}
}
