package dto

// ── 活动/留言模块 DTO ──

// AddCommentRequest 添加留言请求
// is_internal 仅员工侧生效；客户提交时强制为 false
type AddCommentRequest struct {
	Content    string `json:"content"     binding:"required"`
	IsInternal bool   `json:"is_internal"`
}

// ActivityResponse 活动日志响应
type ActivityResponse struct {
	ID           string  `json:"id"`
	RequestID    uint    `json:"request_id"`
	TechID       string  `json:"tech_id"`
	TechName     string  `json:"tech_name,omitempty"`
	ActivityType string  `json:"activity_type"`
	OldStatus    *string `json:"old_status,omitempty"`
	NewStatus    *string `json:"new_status,omitempty"`
	Notes        string  `json:"notes,omitempty"`
	IsInternal   bool    `json:"is_internal"`
	TimeSpent    *int    `json:"time_spent,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// ── 通知模块 DTO ──

// NotificationListRequest 通知列表查询参数
type NotificationListRequest struct {
	PaginationRequest
	UnreadOnly bool `form:"unread_only"`
}

// NotificationResponse 通知响应
type NotificationResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}
