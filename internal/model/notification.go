package model

import "time"

// ── 通知类型 ──

const (
	NotifyStatusChange    = "status_change"
	NotifyCommentAdded    = "comment_added"
	NotifyRequestAssigned = "request_assigned"
	NotifyRequestUpdated  = "request_updated"
	NotifyRequestDeleted  = "request_deleted"
)

// Notification 站内通知表 — 对应 notifications
// 创建后仅 read 字段可翻转；正文自带上下文，不回指请求
type Notification struct {
	NotificationID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	UserID         string    `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Type           string    `gorm:"type:varchar(30);not null"                      json:"type"`
	Title          string    `gorm:"type:varchar(200);not null"                     json:"title"`
	Message        string    `gorm:"type:text;not null"                             json:"message"`
	Read           bool      `gorm:"not null;default:false"                         json:"read"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }
