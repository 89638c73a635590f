package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ayoantar/HOL-ticket-system-sub001/internal/service"
	"github.com/ayoantar/HOL-ticket-system-sub001/pkg/response"
	"github.com/ayoantar/HOL-ticket-system-sub001/pkg/upload"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth          *AuthHandler
	User          *UserHandler
	Department    *DepartmentHandler
	Routing       *RoutingHandler
	Request       *RequestHandler
	Notification  *NotificationHandler
	Settings      *SettingsHandler
	EmailTemplate *EmailTemplateHandler
	Report        *ReportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, store *upload.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:          NewAuthHandler(svc.Auth, logger),
		User:          NewUserHandler(svc.User, logger),
		Department:    NewDepartmentHandler(svc.Department, logger),
		Routing:       NewRoutingHandler(svc.Routing, logger),
		Request:       NewRequestHandler(svc.Request, svc.Activity, store, logger),
		Notification:  NewNotificationHandler(svc.Notification, logger),
		Settings:      NewSettingsHandler(svc.Settings, logger),
		EmailTemplate: NewEmailTemplateHandler(svc.EmailTemplate, logger),
		Report:        NewReportHandler(svc.Report, logger),
	}
}

// internalError 返回 500 并记录追踪 ID，原始错误不出站
func internalError(c *gin.Context, logger *zap.Logger, err error) {
	tid := response.InternalError(c)
	logger.Error("服务器内部错误",
		zap.String("tracking_id", tid),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
}
