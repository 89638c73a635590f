package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/ayoantar/HOL-ticket-system-sub001/config"
	"github.com/ayoantar/HOL-ticket-system-sub001/internal/repository"
	"github.com/ayoantar/HOL-ticket-system-sub001/pkg/jwt"
	"github.com/ayoantar/HOL-ticket-system-sub001/pkg/mailer"
)

// 响应时间格式
const (
	timeLayout = time.RFC3339
	dateLayout = "2006-01-02"
)

// Service 所有业务服务的聚合入口
type Service struct {
	Auth          AuthService
	User          UserService
	Department    DepartmentService
	Routing       RoutingService
	Request       RequestService
	Activity      ActivityService
	Notification  NotificationService
	Settings      SettingsService
	EmailTemplate EmailTemplateService
	Report        ReportService
}

// NewService 创建 Service 聚合并完成依赖装配
// Mailer 的 SMTP 配置由设置服务提供，设置中心修改后即时生效
func NewService(repo *repository.Repository, cfg *config.Config, jwtManager *jwt.Manager, blacklister TokenBlacklister, logger *zap.Logger) *Service {
	settings := NewSettingsService(repo, &cfg.Mail, logger)
	m := mailer.NewSMTPMailer(settings, logger)
	routing := NewRoutingService(repo, logger)

	return &Service{
		Auth:          NewAuthService(repo, jwtManager, blacklister, cfg.Auth.AccessTokenTTL, logger),
		User:          NewUserService(repo, logger),
		Department:    NewDepartmentService(repo, logger),
		Routing:       routing,
		Request:       NewRequestService(repo, routing, m, logger),
		Activity:      NewActivityService(repo, logger),
		Notification:  NewNotificationService(repo, logger),
		Settings:      settings,
		EmailTemplate: NewEmailTemplateService(repo, m, logger),
		Report:        NewReportService(repo, logger),
	}
}
