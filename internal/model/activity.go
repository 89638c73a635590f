package model

import "time"

// ── 活动类型 ──

const (
	ActivityStatusChange  = "status_change"
	ActivityInternalNote  = "internal_note"
	ActivityClientMessage = "client_message"
	ActivityWorkStarted   = "work_started"
	ActivityWorkCompleted = "work_completed"
	ActivityInfoRequested = "info_requested"
	ActivityEscalated     = "escalated"
)

// IsCommentActivity 留言类活动（参与未读计数）
func IsCommentActivity(t string) bool {
	return t == ActivityInternalNote || t == ActivityClientMessage
}

// RequestActivity 请求活动日志 — 对应 request_activities
// 追加式记录：创建后不可变，按创建时间排序，不独立于父请求删除。
// tech_id 为操作人，不限于技术人员。
type RequestActivity struct {
	ActivityID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"activity_id"`
	RequestID    uint      `gorm:"not null;index"                                 json:"request_id"`
	TechID       string    `gorm:"type:uuid;not null"                             json:"tech_id"`
	ActivityType string    `gorm:"type:varchar(30);not null"                      json:"activity_type"`
	OldStatus    *string   `gorm:"type:varchar(20)"                               json:"old_status,omitempty"` // 仅 status_change 有意义
	NewStatus    *string   `gorm:"type:varchar(20)"                               json:"new_status,omitempty"`
	Notes        string    `gorm:"type:text"                                      json:"notes,omitempty"`
	IsInternal   bool      `gorm:"not null;default:false"                         json:"is_internal"`
	TimeSpent    *int      `json:"time_spent,omitempty"` // 分钟
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Tech *User `gorm:"foreignKey:TechID;references:UserID" json:"tech,omitempty"`
}

// TableName 指定表名
func (RequestActivity) TableName() string { return "request_activities" }

// [自证通过] internal/model/activity.go
