package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User          UserRepository
	Department    DepartmentRepository
	Routing       RoutingRepository
	Request       RequestRepository
	Activity      ActivityRepository
	Notification  NotificationRepository
	Setting       SettingRepository
	EmailTemplate EmailTemplateRepository
	Report        ReportRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:          NewUserRepo(db),
		Department:    NewDepartmentRepo(db),
		Routing:       NewRoutingRepo(db),
		Request:       NewRequestRepo(db),
		Activity:      NewActivityRepo(db),
		Notification:  NewNotificationRepo(db),
		Setting:       NewSettingRepo(db),
		EmailTemplate: NewEmailTemplateRepo(db),
		Report:        NewReportRepo(db),
	}
}
